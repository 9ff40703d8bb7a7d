package utils

import (
	"testing"
	"time"
)

func TestDateRange_Contains(t *testing.T) {
	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 23, 59, 59, 0, time.UTC)
	r := NewDateRange(from, to)

	cases := []struct {
		name string
		t    time.Time
		want bool
	}{
		{"lower bound", from, true},
		{"upper bound", to, true},
		{"inside", from.AddDate(0, 0, 15), true},
		{"before", from.Add(-time.Second), false},
		{"after", to.Add(time.Second), false},
	}
	for _, c := range cases {
		if got := r.Contains(c.t); got != c.want {
			t.Errorf("%s: Contains(%s) = %v, want %v", c.name, c.t, got, c.want)
		}
	}

	if !(DateRange{}).Contains(time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("zero range must contain everything")
	}
}

func TestWindowDateRange(t *testing.T) {
	// A Wednesday mid-month.
	now := time.Date(2026, 3, 18, 14, 30, 0, 0, time.UTC)

	month := WindowDateRange(WindowMonth, now)
	if month.From.Day() != 1 || month.From.Month() != time.March {
		t.Fatalf("month start = %s, want 2026-03-01", month.From)
	}
	if month.To.Day() != 31 || month.To.Hour() != 23 || month.To.Second() != 59 {
		t.Fatalf("month end = %s, want end of 2026-03-31", month.To)
	}

	today := WindowDateRange(WindowToday, now)
	if !today.Contains(now) {
		t.Fatalf("today window %s..%s does not contain now", today.From, today.To)
	}
	if today.Contains(now.AddDate(0, 0, 1)) {
		t.Fatal("today window contains tomorrow")
	}

	week := WindowDateRange(WindowWeek, now)
	if week.From.Weekday() != time.Sunday {
		t.Fatalf("week starts on %s, want Sunday", week.From.Weekday())
	}
	if !week.Contains(now) {
		t.Fatal("week window does not contain now")
	}

	if !WindowDateRange("bogus", now).IsUnbounded() {
		t.Fatal("unknown window must resolve to all time")
	}
	if !WindowDateRange(WindowAll, now).IsUnbounded() {
		t.Fatal("all window must be unbounded")
	}
}

func TestDateRange_CacheKey(t *testing.T) {
	if got := (DateRange{}).CacheKey(); got != "min-max" {
		t.Fatalf("unbounded cache key = %q, want min-max", got)
	}
	r := NewDateRange(
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 31, 23, 59, 59, 0, time.UTC),
	)
	if got := r.CacheKey(); got != "20260101T000000-20260131T235959" {
		t.Fatalf("cache key = %q", got)
	}
}

func TestUniqueSlice(t *testing.T) {
	got := UniqueSlice([]int{3, 1, 3, 2, 1})
	want := []int{3, 1, 2}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v (first occurrence order kept)", got, want)
		}
	}
}
