package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SettingsRepository implements key/value settings storage.
type SettingsRepository struct {
	// DB is the database handle for executing queries.
	DB *sqlx.DB
}

// NewSettingsRepository creates a SettingsRepository over db.
func NewSettingsRepository(db *sqlx.DB) *SettingsRepository {
	return &SettingsRepository{DB: db}
}

// Get returns the value stored under key. ok is false when the key is absent
// or its value is NULL.
func (r *SettingsRepository) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	var v sql.NullString
	err = r.DB.GetContext(ctx, &v, r.DB.Rebind(`SELECT value FROM settings WHERE key = ?`), key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %q: %w", key, err)
	}
	return v.String, v.Valid, nil
}

// Set inserts key or overwrites its value.
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	_, err := r.DB.ExecContext(ctx, r.DB.Rebind(`
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`),
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}
