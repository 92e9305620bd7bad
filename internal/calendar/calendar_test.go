package calendar

import (
	"testing"
	"time"
)

func mustLoad(t *testing.T, name string) Calendar {
	t.Helper()
	c, err := Load(name)
	if err != nil {
		t.Fatalf("load %s: %v", name, err)
	}
	return c
}

func TestDayOfUsesLocalDate(t *testing.T) {
	c := mustLoad(t, "America/New_York")

	// 02:30 UTC on Feb 6 is still Feb 5 in New York.
	instant := time.Date(2026, 2, 6, 2, 30, 0, 0, time.UTC)
	d := c.DayOf(instant)

	if d.Date() != "2026-02-05" {
		t.Errorf("date = %q, want %q", d.Date(), "2026-02-05")
	}
	if !d.Contains(instant) {
		t.Error("day should contain the instant it was built from")
	}
	if got := d.End.Sub(d.Start); got != 24*time.Hour {
		t.Errorf("day length = %v, want 24h", got)
	}
}

func TestAddDaysAcrossDST(t *testing.T) {
	c := mustLoad(t, "America/New_York")

	// Clocks spring forward on 2026-03-08.
	d := c.DayOf(time.Date(2026, 3, 9, 12, 0, 0, 0, c.Location()))
	prev := d.AddDays(-1)

	if prev.Date() != "2026-03-08" {
		t.Errorf("date = %q, want %q", prev.Date(), "2026-03-08")
	}
	if got := prev.End.Sub(prev.Start); got != 23*time.Hour {
		t.Errorf("DST day length = %v, want 23h", got)
	}
	if !prev.End.Equal(d.Start) {
		t.Errorf("prev.End = %v, want %v", prev.End, d.Start)
	}
}

func TestContainsBoundaries(t *testing.T) {
	c := New(time.UTC)
	d := c.DayOf(time.Date(2026, 10, 16, 15, 0, 0, 0, time.UTC))

	if !d.Contains(d.Start) {
		t.Error("start should be inside the day")
	}
	if d.Contains(d.End) {
		t.Error("end should be outside the day")
	}
	if d.Contains(d.Start.Add(-time.Nanosecond)) {
		t.Error("instant before start should be outside the day")
	}
}

func TestNewNilLocation(t *testing.T) {
	c := New(nil)
	if c.Location() != time.UTC {
		t.Errorf("location = %v, want UTC", c.Location())
	}
}

func TestLoadInvalid(t *testing.T) {
	if _, err := Load("Not/AZone"); err == nil {
		t.Error("expected error for unknown zone")
	}
}
