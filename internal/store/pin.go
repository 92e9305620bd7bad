package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dukerupert/behaviorchart/internal/model"
)

// PINHash returns the stored hash for role, or "" if none is set.
func (s *SQLStore) PINHash(ctx context.Context, role model.Role) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, `SELECT hash FROM pin_secrets WHERE role = ?`, string(role)).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get pin hash: %w", err)
	}
	return hash, nil
}

func (s *SQLStore) SetPINHash(ctx context.Context, role model.Role, hash string) error {
	if !role.Valid() {
		return fmt.Errorf("set pin hash: invalid role %q", role)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO pin_secrets (role, hash, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(role) DO UPDATE SET hash = excluded.hash, updated_at = excluded.updated_at`,
		string(role), hash, dbTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("set pin hash: %w", err)
	}
	return nil
}
