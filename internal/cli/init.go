package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/hdsbridge/internal/paths"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration file and container directory",
		Long: "Write config.yaml into the configuration directory if it is missing\n" +
			"and create the directory containers are kept in.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, a)
		},
	}
}

func runInit(cmd *cobra.Command, a *app) error {
	path := filepath.Join(a.configDir, configFileExt)
	cfg, err := readConfigFile(path)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	// Record an explicit --dir so later runs without the flag use it.
	if a.flags.dataDir != "" && cfg.Dir == "" {
		abs, err := paths.ResolveDataDir(a.flags.dataDir, "")
		if err != nil {
			return fmt.Errorf("init: %w", err)
		}
		cfg.Dir = abs
		if err := writeConfigFile(path, cfg); err != nil {
			return fmt.Errorf("init: write config: %w", err)
		}
	}

	if err := os.MkdirAll(a.engine.Dir, 0o755); err != nil {
		return fmt.Errorf("init: create container directory: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "hds initialized successfully")
	fmt.Fprintln(out, "  config:", path)
	fmt.Fprintln(out, "  data:  ", a.engine.Dir)
	return nil
}
