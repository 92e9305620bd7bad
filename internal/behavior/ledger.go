package behavior

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/dukerupert/behaviorchart/internal/calendar"
	"github.com/dukerupert/behaviorchart/internal/model"
	"github.com/dukerupert/behaviorchart/internal/store"
)

// Effect describes what an applied action changed.
type Effect string

const (
	EffectNone      Effect = "none"
	EffectLogged    Effect = "logged"
	EffectUnlogged  Effect = "unlogged"
	EffectPenalized Effect = "penalized"
	EffectRedeemed  Effect = "redeemed"
	EffectDeclined  Effect = "declined"
)

// Result is the outcome of one ledger operation. Points is the total after
// the operation; it is only meaningful when Effect is not EffectNone.
type Result struct {
	Effect Effect
	Points int
}

// Changed reports whether the points total or the log was modified.
func (r Result) Changed() bool {
	return r.Effect != EffectNone && r.Effect != EffectDeclined
}

// Ledger applies dashboard actions to the log and the points total. Every
// read-modify-write runs inside a single store transaction.
type Ledger struct {
	store   store.Store
	catalog *Catalog
	cal     calendar.Calendar
	now     func() time.Time
	logger  *slog.Logger
}

func NewLedger(s store.Store, catalog *Catalog, cal calendar.Calendar, logger *slog.Logger) *Ledger {
	return &Ledger{
		store:   s,
		catalog: catalog,
		cal:     cal,
		now:     time.Now,
		logger:  logger,
	}
}

// SetClock replaces the time source. Intended for tests and seeding.
func (l *Ledger) SetClock(now func() time.Time) {
	l.now = now
}

func (l *Ledger) Now() time.Time {
	return l.now().In(l.cal.Location())
}

func (l *Ledger) Catalog() *Catalog {
	return l.catalog
}

func (l *Ledger) Calendar() calendar.Calendar {
	return l.cal
}

// Apply dispatches a parsed action.
func (l *Ledger) Apply(ctx context.Context, a Action) (Result, error) {
	switch a.Kind {
	case ActionToggleTask:
		return l.ToggleTask(ctx, a.TaskKey)
	case ActionPenalty:
		return l.Penalize(ctx)
	case ActionRedeem:
		return l.Redeem(ctx, a.RewardID)
	default:
		return Result{Effect: EffectNone}, nil
	}
}

// ToggleTask marks key done for today, or un-marks it if an entry for key
// already exists today. Unknown keys are ignored.
func (l *Ledger) ToggleTask(ctx context.Context, key string) (Result, error) {
	task, ok := l.catalog.Lookup(key)
	if !ok {
		return Result{Effect: EffectNone}, nil
	}

	now := l.Now()
	today := l.cal.DayOf(now)

	var res Result
	err := l.store.WithTx(ctx, func(tx store.Tx) error {
		total, err := tx.Points(ctx)
		if err != nil {
			return err
		}
		existing, err := tx.FindTaskLog(ctx, key, today.Start, today.End)
		if err != nil {
			return err
		}

		if existing != nil {
			if err := tx.DeleteLog(ctx, existing.ID); err != nil {
				return err
			}
			res = Result{Effect: EffectUnlogged, Points: floor(total - 1)}
		} else {
			if _, err := tx.CreateLog(ctx, model.BehaviorLog{
				Timestamp: now,
				EntryType: task.Label,
				TaskKey:   task.Key,
			}); err != nil {
				return err
			}
			res = Result{Effect: EffectLogged, Points: total + 1}
		}
		return tx.SetPoints(ctx, res.Points)
	})
	if err != nil {
		return Result{}, fmt.Errorf("toggle task %q: %w", key, err)
	}

	l.logger.Debug("task toggled", "task", key, "effect", res.Effect, "points", res.Points)
	return res, nil
}

// Penalize records a "needs improvement" entry and takes a point away.
func (l *Ledger) Penalize(ctx context.Context) (Result, error) {
	now := l.Now()

	var res Result
	err := l.store.WithTx(ctx, func(tx store.Tx) error {
		total, err := tx.Points(ctx)
		if err != nil {
			return err
		}
		if _, err := tx.CreateLog(ctx, model.BehaviorLog{
			Timestamp: now,
			EntryType: model.PenaltyLabel,
		}); err != nil {
			return err
		}
		res = Result{Effect: EffectPenalized, Points: floor(total - 1)}
		return tx.SetPoints(ctx, res.Points)
	})
	if err != nil {
		return Result{}, fmt.Errorf("penalize: %w", err)
	}

	l.logger.Debug("penalty recorded", "points", res.Points)
	return res, nil
}

// Redeem exchanges points for a reward. A missing reward is a no-op and an
// unaffordable one is declined; neither is an error.
func (l *Ledger) Redeem(ctx context.Context, rewardID string) (Result, error) {
	now := l.Now()

	var res Result
	err := l.store.WithTx(ctx, func(tx store.Tx) error {
		reward, err := tx.GetReward(ctx, rewardID)
		if err != nil {
			return err
		}
		if reward == nil {
			res = Result{Effect: EffectNone}
			return nil
		}
		total, err := tx.Points(ctx)
		if err != nil {
			return err
		}
		if total < reward.Cost {
			res = Result{Effect: EffectDeclined, Points: total}
			return nil
		}

		if _, err := tx.CreateRedemption(ctx, model.Redemption{
			RewardID:   reward.ID,
			RewardName: reward.Name,
			Cost:       reward.Cost,
			RedeemedAt: now,
		}); err != nil {
			return err
		}
		res = Result{Effect: EffectRedeemed, Points: total - reward.Cost}
		return tx.SetPoints(ctx, res.Points)
	})
	if err != nil {
		return Result{}, fmt.Errorf("redeem %q: %w", rewardID, err)
	}

	l.logger.Debug("redeem", "reward_id", rewardID, "effect", res.Effect, "points", res.Points)
	return res, nil
}

// SetTotal overwrites the points total from raw form input.
func (l *Ledger) SetTotal(ctx context.Context, input string) (int, error) {
	total := ParseCount(input)
	if err := l.store.SetPoints(ctx, total); err != nil {
		return 0, fmt.Errorf("set total: %w", err)
	}
	return total, nil
}

// ParseCount parses a non-negative integer from form input. Unparseable
// input yields 0 and negative values are floored at 0.
func ParseCount(input string) int {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0
	}
	return floor(n)
}

func floor(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
