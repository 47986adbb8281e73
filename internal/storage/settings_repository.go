package storage

import (
	"context"
	"database/sql"
)

// SettingsRepository handles persisted key/value configuration
type SettingsRepository struct {
	queue *DBQueue
}

// NewSettingsRepository creates a new SettingsRepository
func NewSettingsRepository(queue *DBQueue) *SettingsRepository {
	return &SettingsRepository{queue: queue}
}

// Get returns the value for key, or "" when the key is absent
func (r *SettingsRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.queue.Execute(func(db *sql.DB) error {
		return db.QueryRowContext(ctx,
			`SELECT value FROM settings WHERE key = ?`, key,
		).Scan(&value)
	})
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set overwrites the value for key, last write wins
func (r *SettingsRepository) Set(ctx context.Context, key, value string) error {
	return r.queue.Execute(func(db *sql.DB) error {
		_, err := db.ExecContext(ctx,
			`INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)`,
			key, value,
		)
		return err
	})
}

// EnsureDefaults seeds missing settings without touching existing values
func (r *SettingsRepository) EnsureDefaults(ctx context.Context, defaults map[string]string) error {
	return r.queue.Execute(func(db *sql.DB) error {
		for key, value := range defaults {
			if _, err := db.ExecContext(ctx,
				`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
				key, value,
			); err != nil {
				return err
			}
		}
		return nil
	})
}
