package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

func getPoints(ctx context.Context, q querier) (int, error) {
	var total int
	err := q.QueryRowContext(ctx, `SELECT total FROM points WHERE id = 1`).Scan(&total)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get points: %w", err)
	}
	return total, nil
}

func setPoints(ctx context.Context, q querier, total int) error {
	if total < 0 {
		total = 0
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO points (id, total, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET total = excluded.total, updated_at = excluded.updated_at`,
		total, dbTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("set points: %w", err)
	}
	return nil
}

// Points returns the current total, or 0 if it was never written.
func (s *SQLStore) Points(ctx context.Context) (int, error) {
	return getPoints(ctx, s.db)
}

// SetPoints overwrites the total. Negative values are stored as 0.
func (s *SQLStore) SetPoints(ctx context.Context, total int) error {
	return setPoints(ctx, s.db, total)
}

// EnsurePoints creates the points row at 0 if it does not exist yet.
func (s *SQLStore) EnsurePoints(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO points (id, total, updated_at) VALUES (1, 0, ?) ON CONFLICT(id) DO NOTHING`,
		dbTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("ensure points: %w", err)
	}
	return nil
}
