// Package cli implements the hds command-line interface: a host
// environment that drives the bridge against SQLite containers.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/hdsbridge/internal/paths"
	"github.com/mesh-intelligence/hdsbridge/pkg/hds"
	"github.com/mesh-intelligence/hdsbridge/pkg/sqlite"
	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	verbose   bool
	jsonMode  bool
}

// app carries what the root command resolved for its subcommands.
type app struct {
	flags     rootFlags
	configDir string
	config    *viper.Viper
	engine    types.Config
	log       *zap.Logger
}

// NewRootCmd creates the top-level "hds" command with global flags and all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "hds",
		Short: "Inspect and edit hierarchical data containers",
		Long: "hds drives the locator bridge against SQLite-backed containers:\n" +
			"create and trace objects, read and write primitives, and manage\n" +
			"array objects and their extensions.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "dir", "", "directory containing containers (default: working directory)")
	root.PersistentFlags().BoolVarP(&a.flags.verbose, "verbose", "v", false, "log engine and bridge activity")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newNewCmd(a),
		newPutCmd(a),
		newGetCmd(a),
		newShapeCmd(a),
		newNewObjCmd(a),
		newDimCmd(a),
		newBoundCmd(a),
		newReadCmd(a),
		newAxisCmd(a),
		newExtCmd(a),
		newTraceCmd(a),
		newDumpCmd(a),
		newLoadCmd(a),
		newBrowseCmd(a),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "hds:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to a process exit code. Failures the user can fix
// by changing the command line exit 1; store and I/O failures exit 2.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var herr *types.Error
	if !errors.As(err, &herr) {
		return exitSysError
	}
	switch herr.Kind {
	case types.KindStore, types.KindIO:
		return exitSysError
	}
	return exitUserError
}

// setup resolves directories, loads config.yaml and installs the logger.
func (a *app) setup() error {
	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDir))
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	cfg := types.Config{
		Engine:    v.GetString(cfgKeyEngine),
		Dir:       dataDir,
		Extension: v.GetString(cfgKeyExtension),
		Journal:   v.GetString(cfgKeyJournal),
	}
	if err := cfg.Validate(); err != nil {
		return types.Wrap("config", types.KindInvalidArgument, err)
	}

	level := v.GetString(cfgKeyLogLevel)
	if a.flags.verbose {
		level = "debug"
	}
	log, err := newLogger(level)
	if err != nil {
		return types.Wrap("config", types.KindInvalidArgument, err)
	}
	hds.SetLogger(log.Named("hds"))
	sqlite.SetLogger(log.Named("sqlite"))

	a.configDir = configDir
	a.config = v
	a.engine = cfg
	a.log = log
	return nil
}

// newEngine creates an engine for the resolved configuration.
func (a *app) newEngine() (*sqlite.Engine, error) {
	eng, err := sqlite.NewEngine(a.engine)
	if err != nil {
		return nil, types.Wrap("engine", types.KindInvalidArgument, err)
	}
	return eng, nil
}

// session opens a session on a new engine. The caller must Close it.
func (a *app) session() (*hds.Session, error) {
	eng, err := a.newEngine()
	if err != nil {
		return nil, err
	}
	return hds.NewSession(eng), nil
}

// withSession runs fn on a new session and closes it, reporting the close
// error when fn succeeded.
func (a *app) withSession(fn func(s *hds.Session) error) (err error) {
	s, err := a.session()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Close(); err == nil {
			err = cerr
		}
	}()
	return fn(s)
}
