package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/ivanoskov/balance_bot/internal/model"
	"github.com/redis/go-redis/v9"
)

const (
	balanceCacheKeyPrefix  = "balance_bot:balance:"
	defaultBalanceCacheTTL = 10 * time.Second
)

// CachedFetcher кэширует успешные ответы в Redis на короткое время.
// Отсутствие результата не кэшируется.
type CachedFetcher struct {
	base  Fetcher
	cache *redis.Client
	ttl   time.Duration
}

type cachedBalance struct {
	Wei    string `json:"wei"`
	Source string `json:"source"`
}

// NewCachedFetcher оборачивает base; при cache == nil запросы идут напрямую
func NewCachedFetcher(base Fetcher, cache *redis.Client, ttl time.Duration) *CachedFetcher {
	if ttl <= 0 {
		ttl = defaultBalanceCacheTTL
	}
	return &CachedFetcher{base: base, cache: cache, ttl: ttl}
}

func (f *CachedFetcher) Fetch(ctx context.Context, network model.Network, address string) (*model.BalanceResult, bool) {
	if f.cache == nil {
		return f.base.Fetch(ctx, network, address)
	}

	key := balanceCacheKey(network, address)
	if raw, err := f.cache.Get(ctx, key).Result(); err == nil {
		var cached cachedBalance
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			if wei, ok := new(big.Int).SetString(cached.Wei, 10); ok {
				return NewBalanceResult(network, address, wei, cached.Source), true
			}
		}
	} else if !errors.Is(err, redis.Nil) {
		slog.Debug("balance cache read failed", "key", key, "error", err)
	}

	result, ok := f.base.Fetch(ctx, network, address)
	if !ok || result.Wei == nil {
		return result, ok
	}

	payload, err := json.Marshal(cachedBalance{Wei: result.Wei.String(), Source: result.Source})
	if err != nil {
		return result, ok
	}
	if err := f.cache.Set(ctx, key, payload, f.ttl).Err(); err != nil {
		slog.Debug("balance cache write failed", "key", key, "error", err)
	}
	return result, ok
}

func balanceCacheKey(network model.Network, address string) string {
	var b strings.Builder
	b.Grow(len(balanceCacheKeyPrefix) + len(network.Name) + len(address) + 1)
	b.WriteString(balanceCacheKeyPrefix)
	b.WriteString(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(network.Name)), " ", "_"))
	b.WriteString(":")
	b.WriteString(strings.ToLower(strings.TrimSpace(address)))
	return b.String()
}
