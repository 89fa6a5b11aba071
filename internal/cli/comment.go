package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/agora/pkg/types"
)

func (a *app) newCommentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Manage comments within a thread",
	}
	cmd.AddCommand(a.newCommentCreateCmd())
	cmd.AddCommand(a.newCommentListCmd())
	cmd.AddCommand(a.newCommentDeleteCmd())
	return cmd
}

func (a *app) newCommentCreateCmd() *cobra.Command {
	var owner, text, pubDate string
	cmd := &cobra.Command{
		Use:   "create <channel> <thread-id>",
		Short: "Post a comment to a thread",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			threadID, err := parseID("thread id", args[1])
			if err != nil {
				return err
			}
			pub, err := parsePubDate(pubDate, time.Now())
			if err != nil {
				return err
			}
			return a.withForum(cmd, func(ctx context.Context, f types.Forum) error {
				c := &types.Comment{
					ChannelName: args[0],
					ThreadID:    threadID,
					OwnerName:   owner,
					Text:        text,
					PubDate:     pub,
				}
				if err := f.CreateComment(ctx, c); err != nil {
					return err
				}
				return a.emit(c, "Created comment %d on %s/%d", c.CommentID, c.ChannelName, c.ThreadID)
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "username of the comment author")
	cmd.Flags().StringVar(&text, "text", "", "comment text")
	cmd.Flags().StringVar(&pubDate, "pub-date", "", "publication date, RFC 3339 or YYYY-MM-DD (default now)")
	return cmd
}

func (a *app) newCommentListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <channel> <thread-id>",
		Short: "List a thread's comments by id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			threadID, err := parseID("thread id", args[1])
			if err != nil {
				return err
			}
			return a.withForum(cmd, func(ctx context.Context, f types.Forum) error {
				comments, err := f.ListComments(ctx, args[0], threadID)
				if err != nil {
					return err
				}
				if a.jsonMode {
					return a.printJSON(comments)
				}
				now := time.Now()
				rows := make([][]string, 0, len(comments))
				for _, c := range comments {
					rows = append(rows, []string{
						strconv.FormatInt(c.CommentID, 10), c.OwnerName,
						formatDate(c.PubDate), yesNo(c.IsRecent(now)), c.Text,
					})
				}
				return a.table([]string{"ID", "AUTHOR", "PUBLISHED", "RECENT", "TEXT"}, rows)
			})
		},
	}
}

func (a *app) newCommentDeleteCmd() *cobra.Command {
	var as string
	cmd := &cobra.Command{
		Use:   "delete <channel> <thread-id> <comment-id>",
		Short: "Delete a comment",
		Long:  "Delete a comment. Staff, the channel owner, and its moderators may do so.",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			threadID, err := parseID("thread id", args[1])
			if err != nil {
				return err
			}
			commentID, err := parseID("comment id", args[2])
			if err != nil {
				return err
			}
			return a.withForum(cmd, func(ctx context.Context, f types.Forum) error {
				ch, err := f.GetChannel(ctx, args[0])
				if err != nil {
					return err
				}
				c, err := f.GetComment(ctx, ch.ChannelName, threadID, commentID)
				if err != nil {
					return err
				}
				allowed := func(u *types.User) bool { return types.CanDeleteComment(u, ch, c) }
				if err := authorize(ctx, f, as, allowed); err != nil {
					return err
				}
				if err := f.DeleteComment(ctx, ch.ChannelName, threadID, commentID); err != nil {
					return err
				}
				return a.emit(map[string]any{"deleted": c}, "Deleted comment %d on %s/%d", c.CommentID, c.ChannelName, c.ThreadID)
			})
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "username performing the removal")
	return cmd
}
