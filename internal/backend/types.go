package backend

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound is returned when the backend reports 404 for a record.
var ErrNotFound = errors.New("record not found")

// StatusError is a non-success backend response that isn't a plain 404.
type StatusError struct {
	Op     string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Op, e.Status)
}

// Reminder is the wire shape of a reminder record. LastReminded stays a raw
// stamp string here; the checker owns the timezone normalization (see
// remind.ParseStamp / remind.FormatStamp) so read and write-back can't drift.
type Reminder struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	ReminderTime string `json:"reminder_time"`
	Frequency    string `json:"frequency"`
	LastReminded string `json:"last_reminded,omitempty"`
	Project      int64  `json:"project"`
}

// project is the wire shape of a project record. Numeric fields arrive as JSON
// numbers and are rendered to strings for the payload builder.
type project struct {
	ID            int64       `json:"id"`
	ProjectName   string      `json:"project_name"`
	Tier          string      `json:"tier,omitempty"`
	CostToFarm    json.Number `json:"cost_to_farm,omitempty"`
	AirdropStatus string      `json:"airdrop_status,omitempty"`
	Priority      string      `json:"priority,omitempty"`
	Funding       json.Number `json:"funding,omitempty"`
	Stage         string      `json:"stage,omitempty"`
	Type          string      `json:"type,omitempty"`
	Chain         string      `json:"chain,omitempty"`
	Tasks         string      `json:"tasks,omitempty"`
	TwitterGuide  string      `json:"twitter_guide,omitempty"`
	DiscordLink   string      `json:"discord_link,omitempty"`
	TwitterLink   string      `json:"twitter_link,omitempty"`
	ImageLink     string      `json:"image_link,omitempty"`
}
