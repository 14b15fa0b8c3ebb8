package model

import "time"

// ConversationState определяет, как бот трактует следующее текстовое сообщение
type ConversationState string

const (
	// StateAwaitingAddresses - любой текст считается списком адресов
	StateAwaitingAddresses ConversationState = "waiting_for_addresses"
)

// UserState представляет текущее состояние пользователя
type UserState struct {
	UserID    int64             `json:"user_id"`
	State     ConversationState `json:"state"`
	UpdatedAt time.Time         `json:"updated_at"`
}
