package remind

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimeOfDayVariants(t *testing.T) {
	t.Parallel()
	tests := []struct {
		raw    string
		hour   int
		minute int
	}{
		{raw: "9pm", hour: 21, minute: 0},
		{raw: "9am", hour: 9, minute: 0},
		{raw: "10:15am", hour: 10, minute: 15},
		{raw: "12:30PM", hour: 12, minute: 30},
		{raw: "12am", hour: 0, minute: 0},
		{raw: "23:30", hour: 23, minute: 30},
		{raw: "00:00", hour: 0, minute: 0},
		{raw: "9", hour: 9, minute: 0},
		{raw: " 7:45pm ", hour: 19, minute: 45},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			got, err := ParseTimeOfDay(tt.raw)
			if err != nil {
				t.Fatalf("ParseTimeOfDay(%q) error: %v", tt.raw, err)
			}
			if got.Hour != tt.hour || got.Minute != tt.minute {
				t.Fatalf("ParseTimeOfDay(%q) = %s, want %02d:%02d", tt.raw, got, tt.hour, tt.minute)
			}
		})
	}
}

func TestParseTimeOfDayMalformed(t *testing.T) {
	t.Parallel()
	for _, raw := range []string{"", "noon", "25:00", "9:60", "pm", "ten"} {
		_, err := ParseTimeOfDay(raw)
		if err == nil {
			t.Fatalf("ParseTimeOfDay(%q): expected error", raw)
		}
		if !errors.Is(err, ErrMalformedTime) {
			t.Fatalf("ParseTimeOfDay(%q): error %v does not wrap ErrMalformedTime", raw, err)
		}
	}
}

func TestTimeOfDayOn(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("TEST", 5*3600+45*60)
	ref := time.Date(2024, 3, 10, 18, 2, 33, 0, loc)

	got := TimeOfDay{Hour: 21, Minute: 0}.On(ref, loc)
	want := time.Date(2024, 3, 10, 21, 0, 0, 0, loc)
	if !got.Equal(want) {
		t.Fatalf("On = %v, want %v", got, want)
	}
}

func TestStampRoundTrip(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("TEST", 5*3600+45*60)

	at := time.Date(2024, 3, 10, 21, 0, 5, 0, loc)
	s := FormatStamp(at, loc)
	if s != "2024-03-10 21:00:05" {
		t.Fatalf("FormatStamp = %q", s)
	}

	back, err := ParseStamp(s, loc)
	if err != nil {
		t.Fatalf("ParseStamp: %v", err)
	}
	if back == nil || !back.Equal(at) {
		t.Fatalf("ParseStamp = %v, want %v", back, at)
	}

	none, err := ParseStamp("", loc)
	if err != nil || none != nil {
		t.Fatalf("ParseStamp(\"\") = (%v, %v), want (nil, nil)", none, err)
	}
}

func TestFormatStampConvertsZone(t *testing.T) {
	t.Parallel()
	loc := time.FixedZone("TEST", 2*3600)

	// A UTC-stamped instant must convert into the operating location before
	// formatting, symmetric with how ParseStamp reads it back.
	at := time.Date(2024, 3, 10, 22, 30, 0, 0, time.UTC)
	if got := FormatStamp(at, loc); got != "2024-03-11 00:30:00" {
		t.Fatalf("FormatStamp = %q", got)
	}
}
