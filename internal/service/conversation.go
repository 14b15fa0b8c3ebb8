package service

import (
	"context"
	"fmt"

	"github.com/ivanoskov/balance_bot/internal/model"
)

// StateStore определяет интерфейс хранилища состояний диалога
type StateStore interface {
	GetState(ctx context.Context, userID int64) (model.ConversationState, bool, error)
	SetState(ctx context.Context, userID int64, state model.ConversationState) error
}

// Conversation управляет состоянием диалога пользователя
type Conversation struct {
	store StateStore
}

// NewConversation создает новый экземпляр Conversation
func NewConversation(store StateStore) *Conversation {
	return &Conversation{store: store}
}

// Start переводит пользователя в ожидание адресов, перезаписывая прежнее состояние
func (c *Conversation) Start(ctx context.Context, userID int64) error {
	if err := c.store.SetState(ctx, userID, model.StateAwaitingAddresses); err != nil {
		return fmt.Errorf("failed to start conversation: %w", err)
	}
	return nil
}

// Accepts сообщает, нужно ли трактовать текст пользователя как адреса
func (c *Conversation) Accepts(ctx context.Context, userID int64) (bool, error) {
	state, ok, err := c.store.GetState(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to get conversation state: %w", err)
	}
	return ok && state == model.StateAwaitingAddresses, nil
}

// Reset возвращает пользователя в ожидание адресов после обработки пачки
func (c *Conversation) Reset(ctx context.Context, userID int64) error {
	if err := c.store.SetState(ctx, userID, model.StateAwaitingAddresses); err != nil {
		return fmt.Errorf("failed to reset conversation: %w", err)
	}
	return nil
}
