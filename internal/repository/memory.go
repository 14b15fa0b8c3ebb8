package repository

import (
	"context"
	"sync"

	"github.com/ivanoskov/balance_bot/internal/model"
)

// MemoryStateStore хранит состояния в памяти процесса (один инстанс бота)
type MemoryStateStore struct {
	mu     sync.RWMutex
	states map[int64]model.ConversationState
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{
		states: make(map[int64]model.ConversationState),
	}
}

func (s *MemoryStateStore) GetState(ctx context.Context, userID int64) (model.ConversationState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[userID]
	return state, ok, nil
}

func (s *MemoryStateStore) SetState(ctx context.Context, userID int64, state model.ConversationState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[userID] = state
	return nil
}
