package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ivanoskov/balance_bot/internal/app"
)

func pollCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "poll",
		Short: "Run the bot with long polling",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			return runApp(ctx, func(ctx context.Context, a *app.App) error {
				b, err := a.NewBot(ctx)
				if err != nil {
					return err
				}
				slog.Info("bot started in polling mode")
				return b.Start(ctx)
			})
		},
	}
}
