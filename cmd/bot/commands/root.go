package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ivanoskov/balance_bot/internal/app"
	"github.com/ivanoskov/balance_bot/internal/config"
	"github.com/ivanoskov/balance_bot/internal/logging"
)

var (
	logLevel string
	cfg      *config.Config
)

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "balance-bot",
		Short:        "Telegram bot for checking Ethereum and Base wallet balances",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.LoadConfig()
			if err != nil {
				return err
			}
			if logLevel != "" {
				loaded.LogLevel = logLevel
			}
			logging.Init(loaded.LogLevel, os.Stderr)
			cfg = loaded
			return nil
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (default from LOG_LEVEL)")

	root.AddCommand(pollCmd(), serveCmd(), checkCmd())
	return root
}

// runApp собирает App и освобождает его после fn
func runApp(ctx context.Context, fn func(ctx context.Context, a *app.App) error) error {
	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.Close(closeCtx)
	}()
	return fn(ctx, a)
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
