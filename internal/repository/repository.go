package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ivanoskov/balance_bot/internal/model"
)

// StateStore хранит состояние диалога по ID пользователя.
// Реализации должны быть безопасны для конкурентного использования.
type StateStore interface {
	GetState(ctx context.Context, userID int64) (model.ConversationState, bool, error)
	SetState(ctx context.Context, userID int64, state model.ConversationState) error
}

// Поддерживаемые значения STATE_STORE
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendSupabase = "supabase"
	BackendSQLite   = "sqlite"
)

// ErrUnknownBackend возвращается для неизвестного значения STATE_STORE
var ErrUnknownBackend = errors.New("unknown state store backend")

// Options - параметры подключения к хранилищам
type Options struct {
	Backend     string
	RedisAddr   string
	SupabaseURL string
	SupabaseKey string
	SQLitePath  string
}

// NewStateStore создает хранилище по названию бэкенда
func NewStateStore(ctx context.Context, opts Options) (StateStore, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStateStore(), nil
	case BackendRedis:
		client, err := NewRedisClient(ctx, opts.RedisAddr)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return NewRedisStateStore(client), nil
	case BackendSupabase:
		return NewSupabaseStateStore(opts.SupabaseURL, opts.SupabaseKey)
	case BackendSQLite:
		return NewSQLiteStateStore(opts.SQLitePath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}
}

var (
	_ StateStore = (*MemoryStateStore)(nil)
	_ StateStore = (*RedisStateStore)(nil)
	_ StateStore = (*SupabaseStateStore)(nil)
	_ StateStore = (*SQLiteStateStore)(nil)
)
