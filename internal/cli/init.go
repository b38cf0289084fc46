package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/woolly-dev/woolly/internal/paths"
	"github.com/woolly-dev/woolly/pkg/types"
)

func newInitCmd(a *app) *cobra.Command {
	var backend, remote string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the woolly home",
		Long: "Create the home directory and config.yaml, then initialize the\n" +
			"storage backend. Flags given here are written to config.yaml.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := paths.ConfigFile(a.home)
			cfg, err := readConfigFile(path)
			if err != nil {
				return sysError(fmt.Errorf("read config: %w", err))
			}

			if cmd.Flags().Changed("backend") {
				cfg.Backend = backend
			}
			if cmd.Flags().Changed("remote") {
				cfg.Remote = remote
			}
			// Remote access is chosen with --remote; backend names local storage.
			if cfg.Backend != types.BackendFile && cfg.Backend != types.BackendSQLite {
				return userError(fmt.Errorf("backend %q: %w", cfg.Backend, types.ErrBackendUnknown))
			}
			if err := writeConfig(path, cfg); err != nil {
				return sysError(fmt.Errorf("write config: %w", err))
			}
			a.config.Set(cfgKeyBackend, cfg.Backend)
			a.config.Set(cfgKeyRemote, cfg.Remote)

			// Attach then detach creates the data directory or database.
			s, err := a.openStore(true)
			if err != nil {
				return err
			}
			if err := s.Detach(); err != nil {
				return sysError(fmt.Errorf("finalize storage: %w", err))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Woolly initialized in %s (backend: %s)\n", a.home, cfg.Backend)
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "", "storage backend: file or sqlite")
	cmd.Flags().StringVar(&remote, "remote", "", "URL of a woolly server to use instead of local storage")
	return cmd
}
