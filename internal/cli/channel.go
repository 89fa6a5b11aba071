package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/agora/pkg/types"
)

func (a *app) newChannelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "channel",
		Short: "Manage channels",
	}
	cmd.AddCommand(a.newChannelCreateCmd())
	cmd.AddCommand(a.newChannelShowCmd())
	cmd.AddCommand(a.newChannelListCmd())
	cmd.AddCommand(a.newChannelModeratorsCmd())
	cmd.AddCommand(a.newChannelDeleteCmd())
	return cmd
}

func (a *app) newChannelCreateCmd() *cobra.Command {
	var owner, description, pubDate string
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := parsePubDate(pubDate, time.Now())
			if err != nil {
				return err
			}
			return a.withForum(cmd, func(ctx context.Context, f types.Forum) error {
				ch := &types.Channel{
					ChannelName: args[0],
					Description: description,
					OwnerName:   owner,
					PubDate:     pub,
				}
				if err := f.CreateChannel(ctx, ch); err != nil {
					return err
				}
				return a.emit(ch, "Created channel %s owned by %s", ch.ChannelName, ch.OwnerName)
			})
		},
	}
	cmd.Flags().StringVar(&owner, "owner", "", "username of the channel owner")
	cmd.Flags().StringVar(&description, "description", "", "channel description")
	cmd.Flags().StringVar(&pubDate, "pub-date", "", "publication date, RFC 3339 or YYYY-MM-DD (default now)")
	return cmd
}

func (a *app) newChannelShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Display a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withForum(cmd, func(ctx context.Context, f types.Forum) error {
				ch, err := f.GetChannel(ctx, args[0])
				if err != nil {
					return err
				}
				if a.jsonMode {
					return a.printJSON(ch)
				}
				fmt.Fprintf(a.out, "Channel:     %s\n", ch.ChannelName)
				fmt.Fprintf(a.out, "ID:          %s\n", ch.ChannelID)
				fmt.Fprintf(a.out, "Owner:       %s\n", ch.OwnerName)
				fmt.Fprintf(a.out, "Moderators:  %s\n", strings.Join(ch.Moderators, ", "))
				fmt.Fprintf(a.out, "Published:   %s\n", formatDate(ch.PubDate))
				fmt.Fprintf(a.out, "Recent:      %s\n", yesNo(ch.IsRecent(time.Now())))
				if ch.Description != "" {
					fmt.Fprintf(a.out, "\n%s\n", ch.Description)
				}
				return nil
			})
		},
	}
}

func (a *app) newChannelListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List channels in creation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withForum(cmd, func(ctx context.Context, f types.Forum) error {
				channels, err := f.ListChannels(ctx)
				if err != nil {
					return err
				}
				if a.jsonMode {
					return a.printJSON(channels)
				}
				now := time.Now()
				rows := make([][]string, 0, len(channels))
				for _, ch := range channels {
					rows = append(rows, []string{ch.ChannelName, ch.OwnerName, formatDate(ch.PubDate), yesNo(ch.IsRecent(now))})
				}
				return a.table([]string{"NAME", "OWNER", "PUBLISHED", "RECENT"}, rows)
			})
		},
	}
}

func (a *app) newChannelModeratorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "moderators <name> [username...]",
		Short: "Replace a channel's moderator list",
		Long: `Replace the moderator list of a channel. Order matters: when the owner is
deleted, the channel passes to the first listed moderator that still exists.
Run with no usernames to clear the list.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withForum(cmd, func(ctx context.Context, f types.Forum) error {
				ch, err := f.SetModerators(ctx, args[0], args[1:])
				if err != nil {
					return err
				}
				return a.emit(ch, "Moderators of %s: %s", ch.ChannelName, strings.Join(ch.Moderators, ", "))
			})
		},
	}
}

func (a *app) newChannelDeleteCmd() *cobra.Command {
	var as string
	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a channel with all its threads and comments",
		Long:  "Delete a channel. Only staff and the channel owner may do so.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withForum(cmd, func(ctx context.Context, f types.Forum) error {
				ch, err := f.GetChannel(ctx, args[0])
				if err != nil {
					return err
				}
				allowed := func(u *types.User) bool { return types.CanDeleteChannel(u, ch) }
				if err := authorize(ctx, f, as, allowed); err != nil {
					return err
				}
				if err := f.DeleteChannel(ctx, ch.ChannelName); err != nil {
					return err
				}
				return a.emit(map[string]string{"deleted": ch.ChannelName}, "Deleted channel %s", ch.ChannelName)
			})
		},
	}
	cmd.Flags().StringVar(&as, "as", "", "username performing the removal")
	return cmd
}
