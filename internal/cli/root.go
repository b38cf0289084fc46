// Package cli implements the woolly command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/woolly-dev/woolly/internal/logging"
	"github.com/woolly-dev/woolly/internal/paths"
	"github.com/woolly-dev/woolly/pkg/store"
	"github.com/woolly-dev/woolly/pkg/types"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// app holds the state shared by all subcommands of one invocation.
type app struct {
	flagHome     string
	flagJSON     bool
	flagLogLevel string

	home     string
	config   *viper.Viper
	logger    *slog.Logger
	logClose  io.Closer
	logConfig logging.Config
}

// NewRootCmd creates the top-level "woolly" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: slog.New(slog.DiscardHandler)}

	root := &cobra.Command{
		Use:   "woolly",
		Short: "Plan boards for your projects",
		Long: "Woolly keeps per-project plans under ~/.woolly and shows each plan's\n" +
			"checklist as a kanban board you can edit from the terminal or over HTTP.",
		Version: Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip setup for version command
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.logClose != nil {
				return a.logClose.Close()
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.flagHome, "home", "", "woolly home directory (default: ~/.woolly)")
	root.PersistentFlags().BoolVar(&a.flagJSON, "json", false, "output as JSON")
	root.PersistentFlags().StringVar(&a.flagLogLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(
		newVersionCmd(),
		newInitCmd(a),
		newServeCmd(a),
		newBoardCmd(a),
		newProjectsCmd(a),
		newPlanCmd(a),
		newTaskCmd(a),
		newPhaseCmd(a),
		newMigrateCmd(a),
	)
	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "woolly:", err)
		os.Exit(exitCode(err))
	}
}

// setup resolves the home directory, loads config.yaml and builds the
// logger.
func (a *app) setup() error {
	home, err := paths.ResolveHomeDir(a.flagHome)
	if err != nil {
		return sysError(fmt.Errorf("resolve home: %w", err))
	}
	a.home = home

	cfg, err := loadConfig(home)
	if err != nil {
		return sysError(err)
	}
	a.config = cfg

	level := cfg.GetString(cfgKeyLogLevel)
	if a.flagLogLevel != "" {
		level = a.flagLogLevel
	}
	lvl, err := logging.ParseLevel(level)
	if err != nil {
		return userError(err)
	}
	format, err := logging.ParseFormat(cfg.GetString(cfgKeyLogFormat))
	if err != nil {
		return userError(err)
	}
	a.logConfig = logging.Config{
		Level:  lvl,
		Format: format,
		File:   cfg.GetString(cfgKeyLogFile),
	}
	logger, closer, err := logging.New(a.logConfig)
	if err != nil {
		return sysError(err)
	}
	a.logger, a.logClose = logger, closer
	return nil
}

// storeConfig returns the backend configuration. A configured remote
// selects the HTTP backend unless local is set.
func (a *app) storeConfig(local bool) (types.Config, error) {
	dataDir, err := paths.ResolveDataDir(a.home, a.config.GetString(cfgKeyDataDir))
	if err != nil {
		return types.Config{}, sysError(fmt.Errorf("resolve data dir: %w", err))
	}
	cfg := types.Config{
		Backend: a.config.GetString(cfgKeyBackend),
		HomeDir: dataDir,
	}
	if remote := a.config.GetString(cfgKeyRemote); remote != "" && !local {
		cfg.Backend = types.BackendHTTP
		cfg.Remote = remote
	}
	return cfg, nil
}

// openStore attaches the configured backend. The caller must Detach it.
func (a *app) openStore(local bool) (types.Backend, error) {
	cfg, err := a.storeConfig(local)
	if err != nil {
		return nil, err
	}
	backend, err := store.Open(cfg, a.logger)
	if err != nil {
		if errors.Is(err, types.ErrBackendUnknown) || errors.Is(err, types.ErrBackendEmpty) {
			return nil, userError(fmt.Errorf("backend %q: %w", cfg.Backend, err))
		}
		return nil, sysError(err)
	}
	return backend, nil
}
