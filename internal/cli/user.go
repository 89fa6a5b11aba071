package cli

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/agora/pkg/types"
)

func (a *app) newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage forum users",
	}
	cmd.AddCommand(a.newUserAddCmd())
	cmd.AddCommand(a.newUserShowCmd())
	cmd.AddCommand(a.newUserDeleteCmd())
	cmd.AddCommand(a.newUserSettingsCmd())
	return cmd
}

func (a *app) newUserAddCmd() *cobra.Command {
	var staff bool
	cmd := &cobra.Command{
		Use:   "add <username>",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withForum(cmd, func(ctx context.Context, f types.Forum) error {
				u := &types.User{Username: args[0], IsStaff: staff}
				if err := f.CreateUser(ctx, u); err != nil {
					return err
				}
				return a.emit(u, "Created user %s (%s)", u.Username, u.UserID)
			})
		},
	}
	cmd.Flags().BoolVar(&staff, "staff", false, "grant staff privileges")
	return cmd
}

func (a *app) newUserShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <username>",
		Short: "Display a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withForum(cmd, func(ctx context.Context, f types.Forum) error {
				u, err := f.GetUser(ctx, args[0])
				if err != nil {
					return err
				}
				if a.jsonMode {
					return a.printJSON(u)
				}
				fmt.Fprintf(a.out, "Username: %s\n", u.Username)
				fmt.Fprintf(a.out, "ID:       %s\n", u.UserID)
				fmt.Fprintf(a.out, "Staff:    %s\n", yesNo(u.IsStaff))
				fmt.Fprintf(a.out, "Created:  %s\n", formatDate(u.CreatedAt))
				return nil
			})
		},
	}
}

func (a *app) newUserDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <username>",
		Short: "Delete a user",
		Long: `Delete a user and their settings. Each channel the user owns passes to
its first moderator that still exists; channels with no such moderator are
deleted with their threads and comments.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withForum(cmd, func(ctx context.Context, f types.Forum) error {
				if err := f.DeleteUser(ctx, args[0]); err != nil {
					return err
				}
				return a.emit(map[string]string{"deleted": args[0]}, "Deleted user %s", args[0])
			})
		},
	}
}

func (a *app) newUserSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings <username> [key=value...]",
		Short: "Show or create a user's settings",
		Long: `With only a username, display the user's settings. With key=value pairs,
create the settings record; a user has at most one.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			attrs, err := parseAttributes(args[1:])
			if err != nil {
				return err
			}
			return a.withForum(cmd, func(ctx context.Context, f types.Forum) error {
				if len(attrs) > 0 {
					s := &types.UserSettings{Username: args[0], Attributes: attrs}
					if err := f.CreateUserSettings(ctx, s); err != nil {
						return err
					}
					return a.emit(s, "Created settings for %s", s)
				}
				s, err := f.GetUserSettings(ctx, args[0])
				if err != nil {
					return err
				}
				if a.jsonMode {
					return a.printJSON(s)
				}
				fmt.Fprintf(a.out, "Settings for %s\n", s)
				for _, k := range slices.Sorted(maps.Keys(s.Attributes)) {
					fmt.Fprintf(a.out, "  %s = %s\n", k, s.Attributes[k])
				}
				return nil
			})
		},
	}
}

func parseAttributes(args []string) (map[string]string, error) {
	attrs := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid setting %q (expected key=value)", arg)
		}
		attrs[key] = value
	}
	return attrs, nil
}
