// Package calendar maps instants onto local calendar days in one fixed zone.
package calendar

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// Calendar buckets timestamps by local date in a single, process-wide zone.
type Calendar struct {
	loc *time.Location
}

func New(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.UTC
	}
	return Calendar{loc: loc}
}

// Load returns a Calendar for an IANA zone name such as "America/New_York".
func Load(name string) (Calendar, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Calendar{}, fmt.Errorf("load location %q: %w", name, err)
	}
	return New(loc), nil
}

func (c Calendar) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// Day is one local calendar date, [Start, End).
type Day struct {
	Start time.Time
	End   time.Time
}

// DayOf returns the local day containing t.
func (c Calendar) DayOf(t time.Time) Day {
	return c.dayAt(t.In(c.Location()), 0)
}

// AddDays returns the day n days after d (n may be negative). Day lengths
// follow the zone, so DST transitions yield 23h or 25h days.
func (d Day) AddDays(n int) Day {
	return dayFrom(d.Start, n)
}

// Date formats the day as YYYY-MM-DD.
func (d Day) Date() string {
	return d.Start.Format(dateLayout)
}

// Contains reports whether t falls within the day.
func (d Day) Contains(t time.Time) bool {
	return !t.Before(d.Start) && t.Before(d.End)
}

// DateOf formats the local date of t as YYYY-MM-DD.
func (c Calendar) DateOf(t time.Time) string {
	return t.In(c.Location()).Format(dateLayout)
}

func (c Calendar) dayAt(t time.Time, offset int) Day {
	return dayFrom(startOfDay(t), offset)
}

func dayFrom(start time.Time, offset int) Day {
	s := time.Date(start.Year(), start.Month(), start.Day()+offset, 0, 0, 0, 0, start.Location())
	e := time.Date(s.Year(), s.Month(), s.Day()+1, 0, 0, 0, 0, s.Location())
	return Day{Start: s, End: e}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
