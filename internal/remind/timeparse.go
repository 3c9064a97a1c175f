package remind

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMalformedTime marks a time-of-day string that matches no accepted shape.
var ErrMalformedTime = errors.New("malformed time of day")

// TimeOfDay is a wall-clock time with no date attached.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay normalizes a human-entered time-of-day string.
//
// Accepted shapes (case-insensitive):
//   - "9pm", "10:15am"  (12-hour; missing minutes become :00)
//   - "23:30"           (24-hour)
//   - "9"               (24-hour; minutes default to :00)
//
// Anything else fails with an error wrapping ErrMalformedTime. Callers must
// treat that as a hard failure for the record, never as a default.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return TimeOfDay{}, fmt.Errorf("%w: empty string", ErrMalformedTime)
	}

	if strings.HasSuffix(s, "am") || strings.HasSuffix(s, "pm") {
		if !strings.Contains(s, ":") {
			// "9pm" -> "9:00pm"
			s = s[:len(s)-2] + ":00" + s[len(s)-2:]
		}
		t, err := time.Parse("3:04pm", s)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("%w: %q", ErrMalformedTime, raw)
		}
		return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
	}

	if !strings.Contains(s, ":") {
		s += ":00"
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrMalformedTime, raw)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// On combines the time of day with ref's calendar date in loc, producing the
// concrete scheduled instant for that day.
func (t TimeOfDay) On(ref time.Time, loc *time.Location) time.Time {
	y, m, d := ref.In(loc).Date()
	return time.Date(y, m, d, t.Hour, t.Minute, 0, 0, loc)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
