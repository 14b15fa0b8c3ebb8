package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/ivanoskov/balance_bot/internal/model"

	_ "modernc.org/sqlite"
)

// SQLiteStateStore хранит состояния в локальном файле SQLite
type SQLiteStateStore struct {
	db *sql.DB
}

func NewSQLiteStateStore(dbPath string) (*SQLiteStateStore, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, errors.New("sqlite path is required")
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// одно соединение: иначе каждое соединение к :memory: видит свою базу
	db.SetMaxOpenConns(1)
	if err := createSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteStateStore{db: db}, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS conversation_states (
		user_id INTEGER PRIMARY KEY,
		state TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	return err
}

func (s *SQLiteStateStore) GetState(ctx context.Context, userID int64) (model.ConversationState, bool, error) {
	var state string
	err := s.db.QueryRowContext(ctx, `SELECT state FROM conversation_states WHERE user_id = ?`, userID).Scan(&state)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return model.ConversationState(state), true, nil
}

func (s *SQLiteStateStore) SetState(ctx context.Context, userID int64, state model.ConversationState) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO conversation_states (user_id, state, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET state = excluded.state, updated_at = excluded.updated_at`,
		userID, string(state), time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SQLiteStateStore) Close() error {
	return s.db.Close()
}
