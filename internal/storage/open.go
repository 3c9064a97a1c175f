package storage

import (
	"context"
	"errors"
	"strings"

	logx "farmbot/pkg/logx"
)

// Store is the minimal persistence API the transport adapter needs.
type Store interface {
	PutSubscriber(ctx context.Context, s Subscriber) error
	GetSubscriber(ctx context.Context, handle string) (Subscriber, bool, error)
	ListSubscribers(ctx context.Context) ([]Subscriber, error)
	Close() error
}

// Open initializes the configured store.
// It returns (nil, nil) if storage is disabled.
func Open(cfg Config, log logx.Logger) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == "" || driver == "none" {
		return nil, nil
	}
	if log.IsZero() {
		log = logx.Nop()
	}

	switch driver {
	case "file":
		return openFile(cfg, log)
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown storage driver: " + driver)
	}
}

// NormalizeHandle canonicalizes a recipient handle for storage and lookup.
func NormalizeHandle(h string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(h), "@"))
}
