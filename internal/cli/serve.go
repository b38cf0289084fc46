package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/woolly-dev/woolly/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve plans over HTTP",
		Long: "Serve the local plan store over HTTP. Clients read plans with\n" +
			"GET /api/projects/:mode/:name/plan and write them with PUT, passing the\n" +
			"ETag they read as If-Match to avoid overwriting concurrent edits.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.config.GetString(cfgKeyServerAddr)
			}

			s, err := a.openStore(true)
			if err != nil {
				return err
			}
			defer s.Detach()

			registry := prometheus.NewRegistry()
			registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			srv := server.New(s, server.Options{Logger: a.logger, Registry: registry})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "Serving %s on http://%s\n", a.home, addr)
			if err := srv.Run(ctx, addr); err != nil {
				return sysError(fmt.Errorf("serve: %w", err))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from server.addr)")
	return cmd
}
