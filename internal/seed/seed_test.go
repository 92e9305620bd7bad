package seed

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/dukerupert/behaviorchart/internal/auth"
	"github.com/dukerupert/behaviorchart/internal/behavior"
	"github.com/dukerupert/behaviorchart/internal/calendar"
	"github.com/dukerupert/behaviorchart/internal/database"
	"github.com/dukerupert/behaviorchart/internal/model"
	"github.com/dukerupert/behaviorchart/internal/store"
	"github.com/dukerupert/behaviorchart/internal/streak"
)

func setupTestStore(t *testing.T) *store.SQLStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return store.NewSQLStore(db)
}

var testPINs = PINs{User: "1234", Admin: "9999"}

func TestSetupFreshStore(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	if err := Setup(ctx, st, testPINs, slog.Default()); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if got, _ := st.Points(ctx); got != 0 {
		t.Errorf("points = %d, want 0", got)
	}
	rewards, _ := st.ListRewards(ctx)
	if len(rewards) != len(DefaultRewards) {
		t.Fatalf("rewards = %d, want %d", len(rewards), len(DefaultRewards))
	}

	userHash, _ := st.PINHash(ctx, model.RoleUser)
	if !auth.VerifyPIN(userHash, "1234") {
		t.Error("user pin 1234 should verify")
	}
	adminHash, _ := st.PINHash(ctx, model.RoleAdmin)
	if !auth.VerifyPIN(adminHash, "9999") {
		t.Error("admin pin 9999 should verify")
	}
	if auth.VerifyPIN(adminHash, "1234") {
		t.Error("user pin must not open admin")
	}
}

func TestSetupIsIdempotent(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()

	Setup(ctx, st, testPINs, slog.Default())
	st.SetPoints(ctx, 17)
	if err := SetPIN(ctx, st, model.RoleUser, "4321"); err != nil {
		t.Fatalf("set pin: %v", err)
	}

	if err := Setup(ctx, st, testPINs, slog.Default()); err != nil {
		t.Fatalf("second setup: %v", err)
	}

	if got, _ := st.Points(ctx); got != 17 {
		t.Errorf("points = %d, want 17", got)
	}
	if rewards, _ := st.ListRewards(ctx); len(rewards) != len(DefaultRewards) {
		t.Errorf("rewards = %d, want %d", len(rewards), len(DefaultRewards))
	}
	hash, _ := st.PINHash(ctx, model.RoleUser)
	if !auth.VerifyPIN(hash, "4321") {
		t.Error("rotated pin should survive setup")
	}
}

func TestSetupKeepsCustomRewards(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()
	st.CreateReward(ctx, "Trip to the zoo", 200)

	Setup(ctx, st, testPINs, slog.Default())

	rewards, _ := st.ListRewards(ctx)
	if len(rewards) != 1 || rewards[0].Name != "Trip to the zoo" {
		t.Errorf("rewards = %+v, want only the custom reward", rewards)
	}
}

func TestSetPINEmpty(t *testing.T) {
	st := setupTestStore(t)
	if err := SetPIN(context.Background(), st, model.RoleAdmin, ""); err == nil {
		t.Error("expected error for empty pin")
	}
}

func TestBackfillStreak(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()
	cal, _ := calendar.Load("America/New_York")
	now := time.Date(2026, 10, 16, 18, 0, 0, 0, time.UTC)
	task, _ := behavior.NewCatalog(behavior.DefaultTasks).Lookup("made_bed")

	n, err := BackfillStreak(ctx, st, cal, now, task, 120)
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if n != 120 {
		t.Errorf("created = %d, want 120", n)
	}

	// A second run fills nothing.
	n, _ = BackfillStreak(ctx, st, cal, now, task, 120)
	if n != 0 {
		t.Errorf("second run created = %d, want 0", n)
	}

	today := cal.DayOf(now)
	logs, _ := st.ListLogsBetween(ctx, streak.Window(today).Start, today.End)
	h := streak.Compute(logs, today, cal, []string{"made_bed"})
	if h.Streaks["made_bed"] != 120 {
		t.Errorf("streak = %d, want 120", h.Streaks["made_bed"])
	}
	if got, _ := st.Points(ctx); got != 0 {
		t.Errorf("points = %d, backfill must not award points", got)
	}
}

func TestBackfillSkipsExistingDays(t *testing.T) {
	st := setupTestStore(t)
	ctx := context.Background()
	cal, _ := calendar.Load("America/New_York")
	now := time.Date(2026, 10, 16, 18, 0, 0, 0, time.UTC)
	task, _ := behavior.NewCatalog(behavior.DefaultTasks).Lookup("listened")

	st.CreateLog(ctx, model.BehaviorLog{Timestamp: now.Add(-24 * time.Hour), EntryType: task.Label, TaskKey: task.Key})

	n, _ := BackfillStreak(ctx, st, cal, now, task, 5)
	if n != 4 {
		t.Errorf("created = %d, want 4", n)
	}
}

func TestBackfillZeroDays(t *testing.T) {
	st := setupTestStore(t)
	cal := calendar.New(time.UTC)
	n, err := BackfillStreak(context.Background(), st, cal, time.Now(), behavior.DefaultTasks[0], 0)
	if err != nil || n != 0 {
		t.Errorf("n = %d, err = %v", n, err)
	}
}
