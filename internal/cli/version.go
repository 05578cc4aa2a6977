package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/hdsbridge"
)

const modulePath = "github.com/mesh-intelligence/hdsbridge"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the hds version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "hds v%s\nmodule: %s\n", hdsbridge.Version, modulePath)
			return nil
		},
	}
}
