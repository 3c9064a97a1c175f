package storage

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	logx "farmbot/pkg/logx"
)

// fileStore is a dependency-free persistence backend.
//
// The whole registry lives in <path>.subscribers.json, rewritten atomically
// (temp file + rename) on every put. The registry is small (one record per
// user who ever talked to the bot), so snapshot-on-write is fine.
type fileStore struct {
	log logx.Logger

	mu   sync.Mutex
	path string
	subs map[string]subscriberRecord
}

type subscriberRecord struct {
	Handle string `json:"handle"`
	ChatID int64  `json:"chat_id"`
	SeenAt string `json:"seen_at"` // RFC3339
}

func openFile(cfg Config, log logx.Logger) (Store, error) {
	prefix := strings.TrimSpace(cfg.Path)
	if prefix == "" {
		return nil, errors.New("file storage path is required")
	}
	if dir := filepath.Dir(prefix); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}

	fs := &fileStore{
		log:  log,
		path: prefix + ".subscribers.json",
		subs: map[string]subscriberRecord{},
	}
	if err := fs.loadSnapshot(); err != nil {
		return nil, err
	}
	return fs, nil
}

func (fs *fileStore) loadSnapshot() error {
	b, err := os.ReadFile(fs.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	var recs []subscriberRecord
	if err := json.Unmarshal(b, &recs); err != nil {
		// A corrupt snapshot should not brick the bot; start fresh and keep
		// the broken file aside for inspection.
		fs.log.Warn("subscriber snapshot corrupt; starting empty", logx.String("path", fs.path), logx.Err(err))
		_ = os.Rename(fs.path, fs.path+".corrupt")
		return nil
	}
	for _, r := range recs {
		fs.subs[r.Handle] = r
	}
	return nil
}

func (fs *fileStore) writeSnapshotLocked() error {
	recs := make([]subscriberRecord, 0, len(fs.subs))
	for _, r := range fs.subs {
		recs = append(recs, r)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].Handle < recs[j].Handle })

	b, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return err
	}
	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, fs.path)
}

func (fs *fileStore) PutSubscriber(ctx context.Context, s Subscriber) error {
	handle := NormalizeHandle(s.Handle)
	if handle == "" {
		return errors.New("empty handle")
	}
	at := s.SeenAt
	if at.IsZero() {
		at = time.Now()
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.subs[handle] = subscriberRecord{
		Handle: handle,
		ChatID: s.ChatID,
		SeenAt: at.UTC().Format(time.RFC3339),
	}
	return fs.writeSnapshotLocked()
}

func (fs *fileStore) GetSubscriber(ctx context.Context, handle string) (Subscriber, bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	r, ok := fs.subs[NormalizeHandle(handle)]
	if !ok {
		return Subscriber{}, false, nil
	}
	return r.toSubscriber(), true, nil
}

func (fs *fileStore) ListSubscribers(ctx context.Context) ([]Subscriber, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	out := make([]Subscriber, 0, len(fs.subs))
	for _, r := range fs.subs {
		out = append(out, r.toSubscriber())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Handle < out[j].Handle })
	return out, nil
}

func (fs *fileStore) Close() error { return nil }

func (r subscriberRecord) toSubscriber() Subscriber {
	at, _ := time.Parse(time.RFC3339, r.SeenAt)
	return Subscriber{Handle: r.Handle, ChatID: r.ChatID, SeenAt: at}
}
