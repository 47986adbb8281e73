package storage

import (
	"context"
	"database/sql"

	"github.com/ad/telegram-username-battle/internal/domain"
)

// ChannelRepository handles the force-channel registry
type ChannelRepository struct {
	queue *DBQueue
}

// NewChannelRepository creates a new ChannelRepository
func NewChannelRepository(queue *DBQueue) *ChannelRepository {
	return &ChannelRepository{queue: queue}
}

// Add appends a channel to the registry and returns its id
func (r *ChannelRepository) Add(ctx context.Context, name string) (int64, error) {
	var id int64
	err := r.queue.Execute(func(db *sql.DB) error {
		result, err := db.ExecContext(ctx,
			`INSERT INTO force_channels (channel_name) VALUES (?)`, name,
		)
		if err != nil {
			return err
		}
		id, err = result.LastInsertId()
		return err
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// List returns all channels in insertion order
func (r *ChannelRepository) List(ctx context.Context) ([]*domain.ForceChannel, error) {
	var channels []*domain.ForceChannel

	err := r.queue.Execute(func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx,
			`SELECT id, channel_name FROM force_channels ORDER BY id`,
		)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var ch domain.ForceChannel
			if err := rows.Scan(&ch.ID, &ch.Name); err != nil {
				return err
			}
			channels = append(channels, &ch)
		}
		return rows.Err()
	})

	if err != nil {
		return nil, err
	}
	return channels, nil
}

// Delete removes a channel by id; the bool reports whether it existed
func (r *ChannelRepository) Delete(ctx context.Context, id int64) (bool, error) {
	var removed bool
	err := r.queue.Execute(func(db *sql.DB) error {
		result, err := db.ExecContext(ctx,
			`DELETE FROM force_channels WHERE id = ?`, id,
		)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		removed = n > 0
		return nil
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}
