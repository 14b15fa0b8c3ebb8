package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ivanoskov/balance_bot/internal/app"
	"github.com/ivanoskov/balance_bot/internal/server"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the Telegram webhook, status endpoint and dashboard over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = cfg.HTTPAddr
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			return runApp(ctx, func(ctx context.Context, a *app.App) error {
				b, err := a.NewBot(ctx)
				if err != nil {
					return err
				}
				return server.New(b, cfg.PublicURL).ListenAndServe(ctx, addr)
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from HTTP_ADDR)")
	return cmd
}
