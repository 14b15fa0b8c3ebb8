package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/ivanoskov/balance_bot/internal/model"
	"github.com/redis/go-redis/v9"
)

const stateKeyPrefix = "balance_bot:state:"

// NewRedisClient подключается к Redis и проверяет соединение
func NewRedisClient(ctx context.Context, addr string) (*redis.Client, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, errors.New("redis addr is required")
	}
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// RedisStateStore - общее хранилище состояний для нескольких инстансов бота
type RedisStateStore struct {
	client *redis.Client
}

func NewRedisStateStore(client *redis.Client) *RedisStateStore {
	return &RedisStateStore{client: client}
}

func (s *RedisStateStore) GetState(ctx context.Context, userID int64) (model.ConversationState, bool, error) {
	value, err := s.client.Get(ctx, stateKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return model.ConversationState(value), true, nil
}

// SetState сохраняет состояние без TTL: состояние живёт, пока его не перезапишут
func (s *RedisStateStore) SetState(ctx context.Context, userID int64, state model.ConversationState) error {
	return s.client.Set(ctx, stateKey(userID), string(state), 0).Err()
}

func stateKey(userID int64) string {
	return stateKeyPrefix + strconv.FormatInt(userID, 10)
}

func (s *RedisStateStore) Close() error {
	return s.client.Close()
}
