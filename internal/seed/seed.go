// Package seed prepares a fresh datastore and backfills demo history.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dukerupert/behaviorchart/internal/auth"
	"github.com/dukerupert/behaviorchart/internal/behavior"
	"github.com/dukerupert/behaviorchart/internal/calendar"
	"github.com/dukerupert/behaviorchart/internal/model"
	"github.com/dukerupert/behaviorchart/internal/store"
)

type defaultReward struct {
	Name string
	Cost int
}

var DefaultRewards = []defaultReward{
	{"1 Extra Hour of Screen Time", 20},
	{"Dessert", 25},
	{"Outdoor time", 10},
	{"New toy", 100},
	{"New book", 70},
}

// PINs are the plaintext PINs installed when none are stored yet.
type PINs struct {
	User  string
	Admin string
}

// Setup creates the points record, the default rewards when the catalog is
// empty, and hashed PINs for any role that has none. Existing data is never
// overwritten, so it is safe on every start.
func Setup(ctx context.Context, st store.Store, pins PINs, logger *slog.Logger) error {
	if err := st.EnsurePoints(ctx); err != nil {
		return fmt.Errorf("seed points: %w", err)
	}

	rewards, err := st.ListRewards(ctx)
	if err != nil {
		return fmt.Errorf("seed rewards: %w", err)
	}
	if len(rewards) == 0 {
		for _, r := range DefaultRewards {
			if _, err := st.CreateReward(ctx, r.Name, r.Cost); err != nil {
				return fmt.Errorf("seed reward %q: %w", r.Name, err)
			}
		}
		logger.Info("seeded default rewards", "count", len(DefaultRewards))
	}

	for _, p := range []struct {
		role model.Role
		pin  string
	}{
		{model.RoleUser, pins.User},
		{model.RoleAdmin, pins.Admin},
	} {
		hash, err := st.PINHash(ctx, p.role)
		if err != nil {
			return fmt.Errorf("seed %s pin: %w", p.role, err)
		}
		if hash != "" {
			continue
		}
		if err := SetPIN(ctx, st, p.role, p.pin); err != nil {
			return err
		}
		logger.Info("seeded pin", "role", p.role)
	}
	return nil
}

// SetPIN hashes pin and stores it for role, replacing any previous PIN.
func SetPIN(ctx context.Context, st store.Store, role model.Role, pin string) error {
	hash, err := auth.HashPIN(pin)
	if err != nil {
		return fmt.Errorf("set %s pin: %w", role, err)
	}
	if err := st.SetPINHash(ctx, role, hash); err != nil {
		return fmt.Errorf("set %s pin: %w", role, err)
	}
	return nil
}

// BackfillStreak logs task once on each of the last days local days ending
// today, skipping days that already have an entry. Points are not changed.
// It returns how many entries were created.
func BackfillStreak(ctx context.Context, st store.Store, cal calendar.Calendar, now time.Time, task behavior.Task, days int) (int, error) {
	if days <= 0 {
		return 0, nil
	}
	today := cal.DayOf(now)
	first := today.AddDays(-(days - 1))

	existing, err := st.ListLogsBetween(ctx, first.Start, today.End)
	if err != nil {
		return 0, fmt.Errorf("backfill %q: %w", task.Key, err)
	}
	have := make(map[string]bool)
	for _, e := range existing {
		if e.TaskKey == task.Key {
			have[cal.DateOf(e.Timestamp)] = true
		}
	}

	created := 0
	for i := 0; i < days; i++ {
		day := today.AddDays(-i)
		if have[day.Date()] {
			continue
		}
		ts := day.Start.Add(12 * time.Hour)
		if i == 0 && now.Before(ts) {
			ts = now
		}
		if _, err := st.CreateLog(ctx, model.BehaviorLog{
			Timestamp: ts,
			EntryType: task.Label,
			TaskKey:   task.Key,
		}); err != nil {
			return created, fmt.Errorf("backfill %q: %w", task.Key, err)
		}
		created++
	}
	return created, nil
}
