package store

import (
	"context"
	"fmt"

	"github.com/dukerupert/behaviorchart/internal/model"
	"github.com/google/uuid"
)

func createRedemption(ctx context.Context, q querier, r model.Redemption) (*model.Redemption, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.RedeemedAt = dbTime(r.RedeemedAt)

	_, err := q.ExecContext(ctx,
		`INSERT INTO redemptions (id, reward_id, reward_name, cost, redeemed_at) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.RewardID, r.RewardName, r.Cost, r.RedeemedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert redemption: %w", err)
	}
	return &r, nil
}

// ListRedemptions returns redemptions newest first, with reward names
// resolved against the current rewards table. The stored reward_name
// snapshot is kept for the record but not displayed.
func (s *SQLStore) ListRedemptions(ctx context.Context) ([]model.Redemption, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.id, d.reward_id, COALESCE(r.name, ?), d.cost, d.redeemed_at
		 FROM redemptions d LEFT JOIN rewards r ON r.id = d.reward_id
		 ORDER BY d.redeemed_at DESC, d.rowid DESC`,
		model.UnknownRewardName,
	)
	if err != nil {
		return nil, fmt.Errorf("list redemptions: %w", err)
	}
	defer rows.Close()

	var redemptions []model.Redemption
	for rows.Next() {
		var r model.Redemption
		if err := rows.Scan(&r.ID, &r.RewardID, &r.RewardName, &r.Cost, &r.RedeemedAt); err != nil {
			return nil, fmt.Errorf("scan redemption: %w", err)
		}
		redemptions = append(redemptions, r)
	}
	return redemptions, rows.Err()
}
