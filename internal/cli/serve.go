package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rshade/vsme-emissions/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculation API over HTTP",
		Long: `Serve the calculation API over HTTP until SIGINT or SIGTERM.

Records created by POST /v1/calculations/* are kept in memory for the life
of the process.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.ListenAddr = addr
			}
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(a.calc, server.WithLogger(a.logger.With().Str("component", "server").Logger()))
			return srv.ListenAndServe(ctx, a.cfg.ListenAddr, a.cfg.ShutdownTimeout)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (env VSME_LISTEN_ADDR, default :8080)")
	return cmd
}
