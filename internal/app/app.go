package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/ivanoskov/balance_bot/internal/bot"
	"github.com/ivanoskov/balance_bot/internal/charts"
	"github.com/ivanoskov/balance_bot/internal/config"
	"github.com/ivanoskov/balance_bot/internal/repository"
	"github.com/ivanoskov/balance_bot/internal/rpc"
	"github.com/ivanoskov/balance_bot/internal/service"
	"github.com/ivanoskov/balance_bot/internal/telemetry"
)

const serviceName = "balance-bot"

// App связывает конфигурацию, RPC-клиент, кэш и хранилище состояний
type App struct {
	Config  *config.Config
	Checker *service.BalanceChecker

	closers []func(context.Context) error
}

// New собирает всё, что нужно для проверки балансов. Telegram здесь не участвует.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	shutdownTracer, err := telemetry.InitTracer(ctx, serviceName, cfg.OtelEndpoint)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, shutdownTracer)

	var fetcher service.Fetcher = service.NewRPCFetcher(rpc.NewClient(&http.Client{}), service.FetcherOptions{
		Timeout:   cfg.RPCTimeout,
		RateLimit: cfg.RPCRateLimit,
	})

	if cfg.RedisAddr != "" && cfg.BalanceCacheTTL > 0 {
		client, err := repository.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			slog.Warn("balance cache disabled", "error", err)
		} else {
			a.closers = append(a.closers, func(context.Context) error { return client.Close() })
			fetcher = service.NewCachedFetcher(fetcher, client, cfg.BalanceCacheTTL)
			slog.Info("balance cache enabled", "ttl", cfg.BalanceCacheTTL)
		}
	}

	a.Checker = service.NewBalanceChecker(fetcher, cfg.Networks)
	return a, nil
}

// NewBot подключает хранилище состояний и создает Telegram-бота
func (a *App) NewBot(ctx context.Context) (*bot.Bot, error) {
	if err := a.Config.RequireToken(); err != nil {
		return nil, err
	}

	store, err := repository.NewStateStore(ctx, repository.Options{
		Backend:     a.Config.StateStore,
		RedisAddr:   a.Config.RedisAddr,
		SupabaseURL: a.Config.SupabaseURL,
		SupabaseKey: a.Config.SupabaseKey,
		SQLitePath:  a.Config.SQLitePath,
	})
	if err != nil {
		return nil, err
	}
	if closer, ok := store.(io.Closer); ok {
		a.closers = append(a.closers, func(context.Context) error { return closer.Close() })
	}
	slog.Info("state store ready", "backend", a.Config.StateStore)

	var opts bot.Options
	if a.Config.SendChart {
		opts.Charts = charts.NewChartGenerator()
	}

	return bot.NewBot(a.Config.TelegramToken, a.Checker, service.NewConversation(store), opts)
}

// Close освобождает ресурсы в обратном порядке
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
