package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures storage.
//
// Driver values:
//   - "file": dependency-free JSON snapshot backend
//   - "sqlite": SQLite database file (optional build tag)
//
// If Driver is empty or "none", storage is disabled and the registry is
// memory-only (subscribers are lost on restart).
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// Subscriber is one registered recipient. Handle is stored normalized
// (lowercase, no leading '@').
type Subscriber struct {
	Handle string
	ChatID int64
	SeenAt time.Time
}
