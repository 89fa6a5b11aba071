package cli

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/agora/internal/snapshot"
	"github.com/mesh-intelligence/agora/pkg/types"
)

func (a *app) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Write all channels, threads, and comments to a JSONL file",
		Long: `Export writes one JSON record per line: each channel in creation order,
followed by its threads and their comments in id order. An existing file at
path is replaced atomically.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			return a.withForum(cmd, func(ctx context.Context, f types.Forum) error {
				counts, err := snapshot.Export(ctx, f, path)
				if err != nil {
					return err
				}
				a.logger.Info().Str("path", path).Int("channels", counts.Channels).
					Int("threads", counts.Threads).Int("comments", counts.Comments).Msg("exported snapshot")
				return a.emit(counts, "Exported %d channels, %d threads, %d comments to %s",
					counts.Channels, counts.Threads, counts.Comments, path)
			})
		},
	}
}
