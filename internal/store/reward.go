package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/behaviorchart/internal/model"
	"github.com/google/uuid"
)

func scanReward(scanner interface{ Scan(...any) error }) (*model.Reward, error) {
	var r model.Reward
	if err := scanner.Scan(&r.ID, &r.Name, &r.Cost, &r.CreatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

const rewardCols = `id, name, cost, created_at`

func getReward(ctx context.Context, q querier, id string) (*model.Reward, error) {
	row := q.QueryRowContext(ctx, `SELECT `+rewardCols+` FROM rewards WHERE id = ?`, id)
	r, err := scanReward(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get reward: %w", err)
	}
	return r, nil
}

func (s *SQLStore) GetReward(ctx context.Context, id string) (*model.Reward, error) {
	return getReward(ctx, s.db, id)
}

func (s *SQLStore) CreateReward(ctx context.Context, name string, cost int) (*model.Reward, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO rewards (id, name, cost, created_at) VALUES (?, ?, ?, ?)`,
		id, name, cost, dbTime(time.Now()),
	)
	if err != nil {
		return nil, fmt.Errorf("insert reward: %w", err)
	}
	return s.GetReward(ctx, id)
}

// ListRewards returns all rewards ordered by name, case-insensitively.
func (s *SQLStore) ListRewards(ctx context.Context) ([]model.Reward, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+rewardCols+` FROM rewards ORDER BY name COLLATE NOCASE ASC, created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list rewards: %w", err)
	}
	defer rows.Close()

	var rewards []model.Reward
	for rows.Next() {
		r, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reward: %w", err)
		}
		rewards = append(rewards, *r)
	}
	return rewards, rows.Err()
}

// UpdateReward returns nil if no reward has the given id.
func (s *SQLStore) UpdateReward(ctx context.Context, id, name string, cost int) (*model.Reward, error) {
	_, err := s.db.ExecContext(ctx,
		`UPDATE rewards SET name = ?, cost = ? WHERE id = ?`,
		name, cost, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update reward: %w", err)
	}
	return s.GetReward(ctx, id)
}

func (s *SQLStore) DeleteReward(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM rewards WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete reward: %w", err)
	}
	return nil
}
