package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDumpCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump <container> <file.jsonl>",
		Short: "Export a container tree as JSONL",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.newEngine()
			if err != nil {
				return err
			}
			defer eng.Close()

			n, err := eng.Export(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d nodes to %s\n", n, args[1])
			return nil
		},
	}
}

func newLoadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "load <file.jsonl> <container>",
		Short: "Create a container from a JSONL export",
		Long:  "Create a container from a JSONL export, replacing any existing\ncontainer of the same name. Malformed lines are skipped.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			eng, err := a.newEngine()
			if err != nil {
				return err
			}
			defer eng.Close()

			n, err := eng.Import(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d nodes into %s\n", n, args[1])
			return nil
		},
	}
}
