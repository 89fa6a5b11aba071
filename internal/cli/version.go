package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the agora release version.
const Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/agora"

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the agora version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(a.out, "agora v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
