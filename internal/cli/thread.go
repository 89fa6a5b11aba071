package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/agora/pkg/types"
)

func (a *app) newThreadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "thread",
		Short: "Manage threads within a channel",
	}
	cmd.AddCommand(a.newThreadCreateCmd())
	cmd.AddCommand(a.newThreadShowCmd())
	cmd.AddCommand(a.newThreadListCmd())
	cmd.AddCommand(a.newThreadDeleteCmd())
	return cmd
}

func (a *app) newThreadCreateCmd() *cobra.Command {
	var owner, name, description, pubDate string
	cmd := &cobra.Command{
		Use:   "create <channel>",
		Short: "Start a thread in a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := parsePubDate(pubDate, time.Now())
			if err != nil {
				return err
			}
			return a.withForum(cmd, func(ctx context.Context, f types.Forum) error {
				th := &types.Thread{
					ChannelName: args[0],
					OwnerName:   owner,
					ThreadName:  name,
					Description: description,
					PubDate:     pub,
				}
				if err := f.CreateThread(ctx, th); err != nil {
					return err
				}
				return a.emit(th, "Created thread %d in %s: %s", th.ThreadID, th.ChannelName, th.ThreadName)
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "username of the thread author")
	cmd.Flags().StringVar(&name, "name", "", "thread title")
	cmd.Flags().StringVar(&description, "description", "", "thread body")
	cmd.Flags().StringVar(&pubDate, "pub-date", "", "publication date, RFC 3339 or YYYY-MM-DD (default now)")
	return cmd
}

func (a *app) newThreadShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <channel> <thread-id>",
		Short: "Display a thread and its comments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			threadID, err := parseID("thread id", args[1])
			if err != nil {
				return err
			}
			return a.withForum(cmd, func(ctx context.Context, f types.Forum) error {
				th, err := f.GetThread(ctx, args[0], threadID)
				if err != nil {
					return err
				}
				comments, err := f.ListComments(ctx, th.ChannelName, th.ThreadID)
				if err != nil {
					return err
				}
				if a.jsonMode {
					return a.printJSON(map[string]any{"thread": th, "comments": comments})
				}
				fmt.Fprintf(a.out, "Thread:     %s/%d\n", th.ChannelName, th.ThreadID)
				fmt.Fprintf(a.out, "Title:      %s\n", th.ThreadName)
				fmt.Fprintf(a.out, "Author:     %s\n", th.OwnerName)
				fmt.Fprintf(a.out, "Published:  %s\n", formatDate(th.PubDate))
				if th.Description != "" {
					fmt.Fprintf(a.out, "\n%s\n", th.Description)
				}
				if len(comments) > 0 {
					fmt.Fprintf(a.out, "\nComments (%d):\n", len(comments))
					for _, c := range comments {
						fmt.Fprintf(a.out, "  [%d] %s  %s\n      %s\n", c.CommentID, c.OwnerName, formatDate(c.PubDate), c.Text)
					}
				}
				return nil
			})
		},
	}
}

func (a *app) newThreadListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <channel>",
		Short: "List a channel's threads by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withForum(cmd, func(ctx context.Context, f types.Forum) error {
				threads, err := f.ListThreads(ctx, args[0])
				if err != nil {
					return err
				}
				if a.jsonMode {
					return a.printJSON(threads)
				}
				now := time.Now()
				rows := make([][]string, 0, len(threads))
				for _, th := range threads {
					rows = append(rows, []string{
						strconv.FormatInt(th.ThreadID, 10), th.ThreadName, th.OwnerName,
						formatDate(th.PubDate), yesNo(th.IsRecent(now)),
					})
				}
				return a.table([]string{"ID", "TITLE", "AUTHOR", "PUBLISHED", "RECENT"}, rows)
			})
		},
	}
}

func (a *app) newThreadDeleteCmd() *cobra.Command {
	var as string
	cmd := &cobra.Command{
		Use:   "delete <channel> <thread-id>",
		Short: "Delete a thread and its comments",
		Long:  "Delete a thread. Staff, the channel owner, its moderators, and the thread author may do so.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			threadID, err := parseID("thread id", args[1])
			if err != nil {
				return err
			}
			return a.withForum(cmd, func(ctx context.Context, f types.Forum) error {
				ch, err := f.GetChannel(ctx, args[0])
				if err != nil {
					return err
				}
				th, err := f.GetThread(ctx, ch.ChannelName, threadID)
				if err != nil {
					return err
				}
				allowed := func(u *types.User) bool { return types.CanDeleteThread(u, ch, th) }
				if err := authorize(ctx, f, as, allowed); err != nil {
					return err
				}
				if err := f.DeleteThread(ctx, ch.ChannelName, threadID); err != nil {
					return err
				}
				return a.emit(map[string]any{"deleted": th}, "Deleted thread %d in %s", th.ThreadID, th.ChannelName)
			})
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "username performing the removal")
	return cmd
}
