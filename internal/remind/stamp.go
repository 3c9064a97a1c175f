package remind

import "time"

// StampLayout is the wall-clock format last-reminded stamps use on the wire.
// No zone marker: stamps are always read and written in the operating
// location, through the two functions below and nowhere else.
const StampLayout = "2006-01-02 15:04:05"

// ParseStamp reads a last-reminded stamp in the operating location.
// An empty string means "never reminded" and yields nil.
func ParseStamp(s string, loc *time.Location) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(StampLayout, s, loc)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// FormatStamp writes t as a stamp in the operating location. This is the exact
// inverse of ParseStamp so evaluation and write-back can never disagree on the
// zone.
func FormatStamp(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(StampLayout)
}
