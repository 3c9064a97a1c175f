//go:build sqlite
// +build sqlite

package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	logx "farmbot/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type sqliteStore struct {
	db  *sql.DB
	log logx.Logger
}

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	path := cfg.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	st := &sqliteStore{db: db, log: log}

	if cfg.BusyTimeout > 0 {
		ms := cfg.BusyTimeout.Milliseconds()
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", ms))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) PutSubscriber(ctx context.Context, sub Subscriber) error {
	if s == nil || s.db == nil {
		return ErrDisabled
	}
	handle := NormalizeHandle(sub.Handle)
	if handle == "" {
		return errors.New("empty handle")
	}
	at := sub.SeenAt
	if at.IsZero() {
		at = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscribers(handle, chat_id, seen_at) VALUES(?,?,?)
		 ON CONFLICT(handle) DO UPDATE SET chat_id=excluded.chat_id, seen_at=excluded.seen_at`,
		handle, sub.ChatID, at.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *sqliteStore) GetSubscriber(ctx context.Context, handle string) (Subscriber, bool, error) {
	if s == nil || s.db == nil {
		return Subscriber{}, false, ErrDisabled
	}
	var (
		sub Subscriber
		at  string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT handle, chat_id, seen_at FROM subscribers WHERE handle = ?`,
		NormalizeHandle(handle),
	).Scan(&sub.Handle, &sub.ChatID, &at)
	if errors.Is(err, sql.ErrNoRows) {
		return Subscriber{}, false, nil
	}
	if err != nil {
		return Subscriber{}, false, err
	}
	sub.SeenAt, _ = time.Parse(time.RFC3339, at)
	return sub, true, nil
}

func (s *sqliteStore) ListSubscribers(ctx context.Context) ([]Subscriber, error) {
	if s == nil || s.db == nil {
		return nil, ErrDisabled
	}
	rows, err := s.db.QueryContext(ctx, `SELECT handle, chat_id, seen_at FROM subscribers ORDER BY handle`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Subscriber
	for rows.Next() {
		var (
			sub Subscriber
			at  string
		)
		if err := rows.Scan(&sub.Handle, &sub.ChatID, &at); err != nil {
			return nil, err
		}
		sub.SeenAt, _ = time.Parse(time.RFC3339, at)
		out = append(out, sub)
	}
	return out, rows.Err()
}
