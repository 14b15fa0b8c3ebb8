package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ivanoskov/balance_bot/internal/model"
	"github.com/supabase-community/supabase-go"
)

const statesTable = "conversation_states"

type SupabaseStateStore struct {
	client *supabase.Client
}

func NewSupabaseStateStore(url, key string) (*SupabaseStateStore, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, err
	}

	return &SupabaseStateStore{
		client: client,
	}, nil
}

func (r *SupabaseStateStore) GetState(ctx context.Context, userID int64) (model.ConversationState, bool, error) {
	data, _, err := r.client.From(statesTable).
		Select("*", "", false).
		Eq("user_id", strconv.FormatInt(userID, 10)).
		Execute()
	if err != nil {
		return "", false, fmt.Errorf("failed to get state: %w", err)
	}
	return decodeStateRows(data)
}

func (r *SupabaseStateStore) SetState(ctx context.Context, userID int64, state model.ConversationState) error {
	row := newStateRow(userID, state, time.Now())
	// upsert по user_id: состояние только перезаписывается
	if _, _, err := r.client.From(statesTable).Insert(row, true, "user_id", "minimal", "").Execute(); err != nil {
		return fmt.Errorf("failed to set state: %w", err)
	}
	return nil
}

func newStateRow(userID int64, state model.ConversationState, now time.Time) model.UserState {
	return model.UserState{
		UserID:    userID,
		State:     state,
		UpdatedAt: now.UTC(),
	}
}

func decodeStateRows(data []byte) (model.ConversationState, bool, error) {
	var rows []model.UserState
	if err := json.Unmarshal(data, &rows); err != nil {
		return "", false, fmt.Errorf("failed to parse state: %w", err)
	}
	if len(rows) == 0 {
		return "", false, nil
	}
	return rows[0].State, true, nil
}
