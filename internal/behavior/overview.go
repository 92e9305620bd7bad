package behavior

import (
	"context"
	"fmt"
	"time"

	"github.com/dukerupert/behaviorchart/internal/model"
	"github.com/dukerupert/behaviorchart/internal/streak"
)

// TaskStatus is a catalog task as shown on the dashboard.
type TaskStatus struct {
	Task
	DoneToday bool
	Streak    int
}

// Overview is everything the dashboard renders. It is rebuilt from the
// store on every request.
type Overview struct {
	Now         time.Time
	Points      int
	Tasks       []TaskStatus
	History     streak.History
	Logs        []model.BehaviorLog
	Rewards     []model.Reward
	Redemptions []model.Redemption
}

// Overview reads the current state. "Today" is fixed once at the start of
// the call so every derived view agrees on the date.
func (l *Ledger) Overview(ctx context.Context) (*Overview, error) {
	now := l.Now()
	today := l.cal.DayOf(now)

	points, err := l.store.Points(ctx)
	if err != nil {
		return nil, fmt.Errorf("overview: %w", err)
	}

	windowLogs, err := l.store.ListLogsBetween(ctx, streak.Window(today).Start, today.End)
	if err != nil {
		return nil, fmt.Errorf("overview: %w", err)
	}
	history := streak.Compute(windowLogs, today, l.cal, l.catalog.Keys())

	logs, err := l.store.ListLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("overview: %w", err)
	}
	rewards, err := l.store.ListRewards(ctx)
	if err != nil {
		return nil, fmt.Errorf("overview: %w", err)
	}
	redemptions, err := l.store.ListRedemptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("overview: %w", err)
	}

	done := history.Today()
	tasks := make([]TaskStatus, 0, len(l.catalog.tasks))
	for _, t := range l.catalog.tasks {
		tasks = append(tasks, TaskStatus{
			Task:      t,
			DoneToday: done[t.Key],
			Streak:    history.Streaks[t.Key],
		})
	}

	return &Overview{
		Now:         now,
		Points:      points,
		Tasks:       tasks,
		History:     history,
		Logs:        logs,
		Rewards:     rewards,
		Redemptions: redemptions,
	}, nil
}
