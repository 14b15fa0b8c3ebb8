package service

import (
	"context"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/ivanoskov/balance_bot/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

const defaultDecimals = 18

// Fetcher получает баланс адреса в одной сети.
// Отсутствие результата (nil, false) означает "неизвестно", а не ошибку.
type Fetcher interface {
	Fetch(ctx context.Context, network model.Network, address string) (*model.BalanceResult, bool)
}

// BalanceClient - транспорт для eth_getBalance
type BalanceClient interface {
	GetBalance(ctx context.Context, endpoint, address string) (*big.Int, error)
}

// FetcherOptions настраивает RPCFetcher
type FetcherOptions struct {
	// Timeout - таймаут одной попытки
	Timeout time.Duration
	// RateLimit - запросов в секунду на сеть, 0 - без ограничения
	RateLimit float64
}

// RPCFetcher запрашивает баланс через JSON-RPC с переключением на резервные эндпоинты
type RPCFetcher struct {
	client  BalanceClient
	timeout time.Duration
	limit   rate.Limit

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewRPCFetcher создает новый экземпляр RPCFetcher
func NewRPCFetcher(client BalanceClient, opts FetcherOptions) *RPCFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultAttemptTimeout
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	return &RPCFetcher{
		client:   client,
		timeout:  opts.Timeout,
		limit:    limit,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (f *RPCFetcher) Fetch(ctx context.Context, network model.Network, address string) (*model.BalanceResult, bool) {
	ctx, span := otel.Tracer("balance_bot/service").Start(ctx, "balance.fetch")
	defer span.End()
	span.SetAttributes(
		attribute.String("network", network.Name),
		attribute.String("address", address),
		attribute.Int("endpoints", len(network.Endpoints)),
	)

	limiter := f.limiter(network.Name)
	wei, endpoint, err := TryEndpointsPaced(ctx, network.Endpoints, f.timeout, limiter.Wait, func(ctx context.Context, endpoint string) (*big.Int, error) {
		return f.client.GetBalance(ctx, endpoint, address)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "all endpoints failed")
		slog.Warn("balance fetch failed",
			"network", network.Name,
			"address", address,
			"error", err,
		)
		return nil, false
	}

	span.SetAttributes(attribute.String("endpoint", endpoint))
	return NewBalanceResult(network, address, wei, endpoint), true
}

func (f *RPCFetcher) limiter(network string) *rate.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()

	limiter, ok := f.limiters[network]
	if !ok {
		burst := 1
		if f.limit != rate.Inf && f.limit > 1 {
			burst = int(f.limit)
		}
		limiter = rate.NewLimiter(f.limit, burst)
		f.limiters[network] = limiter
	}
	return limiter
}

// NewBalanceResult переводит баланс из минимальных единиц в целые
func NewBalanceResult(network model.Network, address string, wei *big.Int, source string) *model.BalanceResult {
	return &model.BalanceResult{
		Network: network.Name,
		Address: address,
		Balance: ToUnits(wei, network.Decimals),
		Symbol:  network.Symbol,
		Wei:     wei,
		Source:  source,
	}
}

// ToUnits делит значение на 10^decimals (по умолчанию 18)
func ToUnits(wei *big.Int, decimals int) float64 {
	if wei == nil {
		return 0
	}
	if decimals <= 0 {
		decimals = defaultDecimals
	}
	denom := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	units := new(big.Float).Quo(new(big.Float).SetInt(wei), new(big.Float).SetInt(denom))
	value, _ := units.Float64()
	return value
}
