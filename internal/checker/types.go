package checker

import (
	"context"
	"time"

	"farmbot/internal/backend"
	"farmbot/internal/remind"
	kit "farmbot/internal/transport"
)

// Config controls the reminder cycle runner.
//
// Defaults (applied in New/Apply):
//   - Interval: 60s
//   - Timezone: "Asia/Kathmandu"
//   - Concurrency: 4
//   - CallTimeout: 10s
//   - SendRatePerSec: 3
type Config struct {
	Interval time.Duration

	// Timezone is the operating timezone: every schedule and last-reminded
	// stamp is interpreted in it, never in the recipient's.
	Timezone string

	// Concurrency bounds how many reminders are processed at once within a
	// cycle. Reminders are independent; there is no ordering guarantee.
	Concurrency int

	// CallTimeout bounds every external call (fetch, resolve, deliver,
	// persist). A timeout is that call's failure, nothing more.
	CallTimeout time.Duration

	// SendRatePerSec throttles deliveries so a large due batch doesn't trip
	// platform flood limits.
	SendRatePerSec int
}

// Backend is the slice of the store client the runner needs.
type Backend interface {
	ListReminders(ctx context.Context) ([]backend.Reminder, error)
	GetProject(ctx context.Context, id int64) (remind.Project, error)
	UpdateReminder(ctx context.Context, r backend.Reminder) error
}

// Messenger is the slice of the transport adapter the runner needs.
type Messenger interface {
	ResolveRecipient(ctx context.Context, handle string) (kit.ChatTarget, error)
	SendPayload(ctx context.Context, to kit.ChatTarget, p kit.Payload) (kit.MessageRef, error)
}

// outcome classifies what happened to one reminder within one cycle.
type outcome int

const (
	outcomeNotDue outcome = iota
	outcomeSent
	outcomeSkipped // bad record (unparseable time/stamp, unknown frequency)
	outcomeFailed  // resolution, delivery, or persist failure; retried next cycle
)

// CycleStats is one entry of the bounded in-memory cycle history.
type CycleStats struct {
	Started  time.Time
	Duration time.Duration

	Total   int
	Due     int
	Sent    int
	Skipped int
	Failed  int

	// FetchError is set when the whole cycle aborted before evaluation.
	FetchError string
}

const historyMax = 200
