package remind

import "time"

// Frequency describes how often a reminder may fire. Stored as a free-form
// string in the backend, so unknown values must be tolerated (they never fire,
// see IsDue).
type Frequency string

const (
	FrequencyDaily  Frequency = "daily"
	FrequencyWeekly Frequency = "weekly"
)

// Known reports whether f is a frequency the evaluator understands.
func (f Frequency) Known() bool {
	return f == FrequencyDaily || f == FrequencyWeekly
}

// Reminder is one scheduled nudge for one recipient, owned by the backend
// store. The bot only ever mutates LastReminded, and only after a confirmed
// delivery.
type Reminder struct {
	ID     int64
	Handle string

	// TimeSpec is the human-entered time of day ("9pm", "10:15am", "23:30").
	// Parsed fresh every cycle; a record with a bad spec is skipped, not fatal.
	TimeSpec string

	Frequency Frequency

	// LastReminded is nil for a reminder that has never fired.
	LastReminded *time.Time

	ProjectID int64
}

// Project is the farmable project a reminder points at. Everything past Name
// is optional and consumed verbatim by the payload builder.
type Project struct {
	ID   int64
	Name string

	Tier          string
	CostToFarm    string
	AirdropStatus string
	Priority      string
	Funding       string
	Stage         string
	Type          string
	Chain         string
	Tasks         string
	TwitterGuide  string
	DiscordLink   string
	TwitterLink   string
	ImageLink     string
}
