// Package streak derives the day-by-day task history and per-task streaks
// from raw behavior log entries.
package streak

import (
	"github.com/dukerupert/behaviorchart/internal/calendar"
	"github.com/dukerupert/behaviorchart/internal/model"
)

// WindowDays is the number of trailing days, today included, in a History.
const WindowDays = 365

// Day is one entry of a History. Offset 0 is today.
type Day struct {
	Date   string
	Offset int
	Tasks  map[string]bool
}

// History is the trailing window of completed tasks plus the streak for each
// known task. It is always recomputed from the log, never cached.
type History struct {
	Days    []Day
	Streaks map[string]int
	byDate  map[string]int
}

// Window returns the first day of the trailing window ending on today.
func Window(today calendar.Day) calendar.Day {
	return today.AddDays(-(WindowDays - 1))
}

// Compute buckets entries by local date and counts, for every task key,
// how many consecutive days ending today include that task. Entries without
// a task key and entries outside the window are ignored.
func Compute(entries []model.BehaviorLog, today calendar.Day, cal calendar.Calendar, taskKeys []string) History {
	first := Window(today)

	completed := make(map[string]map[string]bool)
	for _, e := range entries {
		if !e.IsTask() {
			continue
		}
		if e.Timestamp.Before(first.Start) || !e.Timestamp.Before(today.End) {
			continue
		}
		date := cal.DateOf(e.Timestamp)
		set, ok := completed[date]
		if !ok {
			set = make(map[string]bool)
			completed[date] = set
		}
		set[e.TaskKey] = true
	}

	h := History{
		Days:    make([]Day, WindowDays),
		Streaks: make(map[string]int, len(taskKeys)),
		byDate:  make(map[string]int, WindowDays),
	}
	for i := 0; i < WindowDays; i++ {
		date := today.AddDays(-i).Date()
		tasks := completed[date]
		if tasks == nil {
			tasks = map[string]bool{}
		}
		h.Days[i] = Day{Date: date, Offset: i, Tasks: tasks}
		h.byDate[date] = i
	}

	for _, key := range taskKeys {
		n := 0
		for _, d := range h.Days {
			if !d.Tasks[key] {
				break
			}
			n++
		}
		h.Streaks[key] = n
	}

	return h
}

// Completed reports whether key was done on the given YYYY-MM-DD date.
// Dates outside the window report false.
func (h History) Completed(date, key string) bool {
	i, ok := h.byDate[date]
	if !ok {
		return false
	}
	return h.Days[i].Tasks[key]
}

// Today returns the set of task keys completed today.
func (h History) Today() map[string]bool {
	if len(h.Days) == 0 {
		return map[string]bool{}
	}
	return h.Days[0].Tasks
}
