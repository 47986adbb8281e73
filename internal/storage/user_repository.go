package storage

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// UserRepository is the append-only ledger of accepted usernames. Row ids
// are dense and increasing and serve as the public battle numbers.
type UserRepository struct {
	queue *DBQueue
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(queue *DBQueue) *UserRepository {
	return &UserRepository{queue: queue}
}

// RegisterOrGet inserts username with the current UTC timestamp and
// returns the new id, or the existing id with created=false when the
// username is already registered. The lookup and insert run inside a
// single queue operation, so they cannot interleave with another
// registration; a UNIQUE violation is still handled as a fallback.
func (r *UserRepository) RegisterOrGet(ctx context.Context, telegramID int64, username string) (int64, bool, error) {
	var id int64
	var created bool

	err := r.queue.Execute(func(db *sql.DB) error {
		err := db.QueryRowContext(ctx,
			`SELECT id FROM users WHERE username = ?`, username,
		).Scan(&id)
		if err == nil {
			created = false
			return nil
		}
		if err != sql.ErrNoRows {
			return err
		}

		result, err := db.ExecContext(ctx,
			`INSERT INTO users (telegram_id, username, created_at) VALUES (?, ?, ?)`,
			telegramID, username, time.Now().UTC(),
		)
		if err != nil {
			if isUniqueViolation(err) {
				created = false
				return db.QueryRowContext(ctx,
					`SELECT id FROM users WHERE username = ?`, username,
				).Scan(&id)
			}
			return err
		}

		id, err = result.LastInsertId()
		if err != nil {
			return err
		}
		created = true
		return nil
	})

	if err != nil {
		return 0, false, err
	}
	return id, created, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "UNIQUE constraint failed") ||
		strings.Contains(s, "SQLITE_CONSTRAINT")
}

// Count returns the total number of registered users
func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.queue.Execute(func(db *sql.DB) error {
		return db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM users`,
		).Scan(&count)
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountSince returns the number of users registered at or after t
func (r *UserRepository) CountSince(ctx context.Context, t time.Time) (int64, error) {
	var count int64
	err := r.queue.Execute(func(db *sql.DB) error {
		return db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM users WHERE created_at >= ?`, t.UTC(),
		).Scan(&count)
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
