package session

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// SQLiteStorage keeps session state in a small local SQLite database so a
// login survives process restarts, the way browser storage survives reloads.
type SQLiteStorage struct {
	db *sql.DB
}

func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create session db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open session database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping session database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run session migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func (s *SQLiteStorage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Load implements Storage.
func (s *SQLiteStorage) Load(ctx context.Context) (token, username string, err error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM session_state WHERE key IN (?, ?)`, KeyToken, KeyUsername)
	if err != nil {
		return "", "", fmt.Errorf("load session state: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return "", "", fmt.Errorf("scan session row: %w", err)
		}
		switch key {
		case KeyToken:
			token = value
		case KeyUsername:
			username = value
		}
	}
	if err := rows.Err(); err != nil {
		return "", "", fmt.Errorf("iterate session rows: %w", err)
	}
	return token, username, nil
}

// Save implements Storage.
func (s *SQLiteStorage) Save(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session_state (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value)
	if err != nil {
		return fmt.Errorf("save session key %s: %w", key, err)
	}
	return nil
}

// Clear implements Storage. All keys are removed in a single statement so a
// logout never leaves a stale username behind a cleared token.
func (s *SQLiteStorage) Clear(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(keys)), ", ")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	_, err := s.db.ExecContext(ctx, `DELETE FROM session_state WHERE key IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("clear session keys: %w", err)
	}
	return nil
}
