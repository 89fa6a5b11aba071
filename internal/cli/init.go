package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/agora/pkg/types"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize agora storage",
		Long:  "Create the configuration and data directories, then create the forum schema.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.forumConfig()
			if err != nil {
				return systemError{err}
			}
			if err := cfg.Validate(); err != nil {
				return systemError{err}
			}
			// Attach creates the schema; nothing else to do.
			err = a.withForum(cmd, func(ctx context.Context, f types.Forum) error { return nil })
			if err != nil {
				return err
			}
			where := cfg.DataDir
			if cfg.Backend == types.BackendPostgres {
				where = "postgres"
			}
			a.logger.Info().Str("config_dir", a.configDir).Str("backend", cfg.Backend).Msg("initialized")
			return a.emit(map[string]string{"config_dir": a.configDir, "backend": cfg.Backend, "data": where},
				"Agora initialized (%s backend, data in %s)", cfg.Backend, where)
		},
	}
}
