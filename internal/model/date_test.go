package model

import (
	"testing"
	"time"
)

func TestParseDateKey(t *testing.T) {
	got, err := ParseDateKey("2026-01-05")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != DateKey("2026-01-05") {
		t.Errorf("expected 2026-01-05, got %s", got)
	}

	for _, raw := range []string{"", "garbage", "2026-13-01", "2026-02-30", "05-01-2026"} {
		if _, err := ParseDateKey(raw); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestWeekStartIsMonday(t *testing.T) {
	cases := []struct {
		date DateKey
		want DateKey
	}{
		{"2026-01-05", "2026-01-05"}, // Monday maps to itself
		{"2026-01-07", "2026-01-05"}, // Wednesday
		{"2026-01-10", "2026-01-05"}, // Saturday
		{"2026-01-11", "2026-01-05"}, // Sunday belongs to the week before
		{"2026-01-12", "2026-01-12"}, // next Monday starts a new week
	}
	for _, tc := range cases {
		if got := tc.date.WeekStart(); got != tc.want {
			t.Errorf("WeekStart(%s) = %s, want %s", tc.date, got, tc.want)
		}
	}
}

func TestAddDaysCrossesBoundaries(t *testing.T) {
	if got := DateKey("2026-01-31").AddDays(1); got != DateKey("2026-02-01") {
		t.Errorf("month boundary: got %s", got)
	}
	if got := DateKey("2026-01-01").AddDays(-1); got != DateKey("2025-12-31") {
		t.Errorf("year boundary: got %s", got)
	}
	if got := DateKey("2024-02-28").AddDays(1); got != DateKey("2024-02-29") {
		t.Errorf("leap day: got %s", got)
	}
}

func TestStartOfDay(t *testing.T) {
	loc := time.FixedZone("TST", 3*3600)
	got := DateKey("2026-01-05").StartOfDay(loc)
	want := time.Date(2026, time.January, 5, 0, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Errorf("StartOfDay = %v, want %v", got, want)
	}
}

func TestNewDateKeyUsesLocalCivilDate(t *testing.T) {
	loc := time.FixedZone("TST", -5*3600)
	// 02:00 UTC on Jan 6 is still Jan 5 at UTC-5.
	instant := time.Date(2026, time.January, 6, 2, 0, 0, 0, time.UTC).In(loc)
	if got := NewDateKey(instant); got != DateKey("2026-01-05") {
		t.Errorf("NewDateKey = %s, want 2026-01-05", got)
	}
}
