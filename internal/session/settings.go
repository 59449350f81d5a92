package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"budgetview/internal/core"
)

// KeySettings stores the user's local preferences. The backend has no settings
// endpoint, so they live next to the session state and never leave the device.
const KeySettings = "settings"

// LoadSettings returns the persisted preferences, or the defaults when none
// were saved yet.
func (s *SQLiteStorage) LoadSettings(ctx context.Context) (core.Settings, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM session_state WHERE key = ?`, KeySettings).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return core.DefaultSettings(), nil
	}
	if err != nil {
		return core.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	var settings core.Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return core.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return settings, nil
}

// SaveSettings persists the preferences as a single JSON value.
func (s *SQLiteStorage) SaveSettings(ctx context.Context, settings core.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return s.Save(ctx, KeySettings, string(raw))
}
