package remind

import (
	"testing"
	"time"
)

var testLoc = time.FixedZone("TEST", 5*3600+45*60)

func tp(t time.Time) *time.Time { return &t }

func TestIsDueBeforeScheduledTime(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 10, 20, 0, 0, 0, testLoc)
	tod := TimeOfDay{Hour: 21}

	// Regardless of how stale lastReminded is, nothing fires before today's
	// scheduled instant.
	if IsDue(tod, FrequencyDaily, nil, now) {
		t.Fatal("daily due before scheduled time")
	}
	old := tp(now.AddDate(0, 0, -30))
	if IsDue(tod, FrequencyWeekly, old, now) {
		t.Fatal("weekly due before scheduled time")
	}
}

func TestIsDueDaily(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 10, 21, 5, 0, 0, testLoc)
	tod := TimeOfDay{Hour: 21}

	tests := []struct {
		name string
		last *time.Time
		want bool
	}{
		{name: "never fired", last: nil, want: true},
		{name: "fired earlier today", last: tp(time.Date(2024, 3, 10, 21, 1, 0, 0, testLoc)), want: false},
		{name: "fired yesterday", last: tp(time.Date(2024, 3, 9, 21, 1, 0, 0, testLoc)), want: true},
		{name: "fired yesterday just before midnight", last: tp(time.Date(2024, 3, 9, 23, 59, 0, 0, testLoc)), want: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsDue(tod, FrequencyDaily, tt.last, now); got != tt.want {
				t.Fatalf("IsDue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDueDailyNormalizesUTCStamp(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 10, 21, 5, 0, 0, testLoc)
	tod := TimeOfDay{Hour: 21}

	// 18:30 UTC on the 9th is already the 10th in the operating zone (+05:45
	// puts it at 00:15 local). Same-calendar-date suppression must apply.
	last := tp(time.Date(2024, 3, 9, 18, 30, 0, 0, time.UTC))
	if IsDue(tod, FrequencyDaily, last, now) {
		t.Fatal("UTC stamp not normalized into operating zone")
	}

	// Half an hour earlier the same UTC instant is still the 9th locally
	// (23:45), so the reminder is due again.
	last = tp(time.Date(2024, 3, 9, 18, 0, 0, 0, time.UTC))
	if !IsDue(tod, FrequencyDaily, last, now) {
		t.Fatal("pre-midnight UTC stamp suppressed today's reminder")
	}
}

func TestIsDueWeekly(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 10, 21, 5, 0, 0, testLoc)
	tod := TimeOfDay{Hour: 21}

	tests := []struct {
		name string
		last *time.Time
		want bool
	}{
		{name: "6 days ago", last: tp(now.AddDate(0, 0, -6)), want: false},
		{name: "7 days ago", last: tp(now.AddDate(0, 0, -7)), want: true},
		{name: "8 days ago", last: tp(now.AddDate(0, 0, -8)), want: true},
		{name: "never fired", last: nil, want: false}, // 24h fallback < 7 days
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsDue(tod, FrequencyWeekly, tt.last, now); got != tt.want {
				t.Fatalf("IsDue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDueUnknownFrequency(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 3, 10, 21, 5, 0, 0, testLoc)
	tod := TimeOfDay{Hour: 21}

	for _, f := range []Frequency{"", "monthly", "DAILY", "hourly"} {
		if IsDue(tod, f, nil, now) {
			t.Fatalf("frequency %q fired; unknown frequencies must never fire", f)
		}
	}
}
