package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/woolly-dev/woolly/internal/paths"
	"github.com/woolly-dev/woolly/pkg/store"
	"github.com/woolly-dev/woolly/pkg/types"
)

func newMigrateCmd(a *app) *cobra.Command {
	var to string
	var switchBackend bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy every plan to another local backend",
		Long: "Copy all plans from the configured local backend to another one in\n" +
			"the same data directory. With --switch, config.yaml is updated to use\n" +
			"the target backend afterwards.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srcCfg, err := a.storeConfig(true)
			if err != nil {
				return err
			}
			if to != types.BackendFile && to != types.BackendSQLite {
				return userError(fmt.Errorf("backend %q: %w", to, types.ErrBackendUnknown))
			}
			if to == srcCfg.Backend {
				return userError(fmt.Errorf("plans are already stored with the %s backend", to))
			}

			src, err := a.openStore(true)
			if err != nil {
				return err
			}
			defer src.Detach()

			dstCfg := srcCfg
			dstCfg.Backend = to
			dst, err := store.Open(dstCfg, a.logger)
			if err != nil {
				return sysError(err)
			}
			defer dst.Detach()

			n, err := store.Copy(cmd.Context(), dst, src)
			if err != nil {
				return classify(err)
			}

			if switchBackend {
				path := paths.ConfigFile(a.home)
				cfg, err := readConfigFile(path)
				if err != nil {
					return sysError(err)
				}
				cfg.Backend = to
				if err := writeConfig(path, cfg); err != nil {
					return sysError(err)
				}
			}

			if a.flagJSON {
				return printJSON(cmd, map[string]any{"from": srcCfg.Backend, "to": to, "plans": n})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Copied %d plans from %s to %s\n", n, srcCfg.Backend, to)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", types.BackendSQLite, "target backend: file or sqlite")
	cmd.Flags().BoolVar(&switchBackend, "switch", false, "use the target backend from now on")
	return cmd
}
