package remind

import "time"

// IsDue decides whether a reminder must fire now.
//
// now must already carry the operating location; lastReminded is normalized
// into it before any comparison so the calendar-date checks line up with how
// stamps are written back (see ParseStamp/FormatStamp).
//
// The daily and weekly rules are deliberately asymmetric: daily resets at the
// calendar-day boundary ("once per day"), weekly is a rolling 7-full-day
// window ("once per week"). Unknown frequencies never fire.
func IsDue(tod TimeOfDay, freq Frequency, lastReminded *time.Time, now time.Time) bool {
	scheduled := tod.On(now, now.Location())
	if now.Before(scheduled) {
		return false
	}

	var last time.Time
	if lastReminded == nil {
		// Never fired: immediately eligible once today's time has passed.
		last = now.Add(-24 * time.Hour)
	} else {
		last = lastReminded.In(now.Location())
	}

	switch freq {
	case FrequencyDaily:
		return !sameDate(last, now)
	case FrequencyWeekly:
		return fullDaysBetween(last, now) >= 7
	default:
		return false
	}
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// fullDaysBetween counts whole 24h periods elapsed from a to b.
func fullDaysBetween(a, b time.Time) int {
	if b.Before(a) {
		return 0
	}
	return int(b.Sub(a) / (24 * time.Hour))
}
