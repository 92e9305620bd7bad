package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dukerupert/behaviorchart/internal/behavior"
	"github.com/dukerupert/behaviorchart/internal/calendar"
	"github.com/dukerupert/behaviorchart/internal/seed"
	"github.com/dukerupert/behaviorchart/internal/streak"
)

type seedStreakOptions struct {
	*rootOptions
	Task string
	Days int
}

func newSeedStreakCommand(rootOpts *rootOptions) *cobra.Command {
	opts := &seedStreakOptions{rootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed-streak",
		Short: "Backfill a task for the last N days",
		Long: `Backfill a task once per day for the last N days ending today, so the
dashboard shows a streak. Days that already have the task are skipped and
the points total is left alone.`,
		Example:       `  behaviorchart seed-streak --task made_bed --days 120`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := behavior.NewCatalog(behavior.DefaultTasks)
			task, ok := catalog.Lookup(opts.Task)
			if !ok {
				return fmt.Errorf("unknown task %q (valid: %v)", opts.Task, catalog.Keys())
			}
			if opts.Days < 1 || opts.Days > streak.WindowDays {
				return fmt.Errorf("--days must be between 1 and %d", streak.WindowDays)
			}

			e, err := opts.load(cmd.Context())
			if err != nil {
				return err
			}
			defer e.store.Close()

			cal, err := calendar.Load(e.cfg.Timezone)
			if err != nil {
				return err
			}
			n, err := seed.BackfillStreak(cmd.Context(), e.store, cal, time.Now(), task, opts.Days)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %d %q entries\n", n, task.Key)
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Task, "task", "made_bed", "task key to backfill")
	cmd.Flags().IntVar(&opts.Days, "days", 120, "number of days ending today")

	return cmd
}
