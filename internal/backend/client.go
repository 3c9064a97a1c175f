// Package backend is the HTTP client for the external reminder and project
// stores. It only knows the REST contract; due evaluation and timezone
// handling live in the checker.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"farmbot/internal/remind"
	logx "farmbot/pkg/logx"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	base string
	http *http.Client
	log  logx.Logger
}

func New(cfg Config, log logx.Logger) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("backend base_url is empty")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Client{
		base: base,
		http: &http.Client{Timeout: timeout},
		log:  log,
	}, nil
}

// ListReminders fetches the full reminder set. Any failure here aborts the
// whole cycle, so errors carry the operation for the cycle log line.
func (c *Client) ListReminders(ctx context.Context) ([]Reminder, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/api/users/", nil)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Op: "list reminders", Status: resp.StatusCode}
	}

	var out []Reminder
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("list reminders: decode: %w", err)
	}
	return out, nil
}

// GetProject fetches one project record. Returns ErrNotFound on 404.
func (c *Client) GetProject(ctx context.Context, id int64) (remind.Project, error) {
	url := fmt.Sprintf("%s/api/projects/%d", c.base, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return remind.Project{}, fmt.Errorf("get project %d: %w", id, err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return remind.Project{}, fmt.Errorf("get project %d: %w", id, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return remind.Project{}, fmt.Errorf("get project %d: %w", id, ErrNotFound)
	case resp.StatusCode != http.StatusOK:
		return remind.Project{}, &StatusError{Op: fmt.Sprintf("get project %d", id), Status: resp.StatusCode}
	}

	var p project
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return remind.Project{}, fmt.Errorf("get project %d: decode: %w", id, err)
	}
	return p.toDomain(), nil
}

// UpdateReminder writes back a reminder record (in practice: a new
// last_reminded stamp). Idempotent on the backend side.
func (c *Client) UpdateReminder(ctx context.Context, r Reminder) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("update reminder %d: %w", r.ID, err)
	}
	url := fmt.Sprintf("%s/api/users/%s/%d/", c.base, r.Username, r.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("update reminder %d: %w", r.ID, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("update reminder %d: %w", r.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Op: fmt.Sprintf("update reminder %d", r.ID), Status: resp.StatusCode}
	}
	return nil
}

func (p project) toDomain() remind.Project {
	return remind.Project{
		ID:            p.ID,
		Name:          p.ProjectName,
		Tier:          p.Tier,
		CostToFarm:    numberToString(p.CostToFarm),
		AirdropStatus: p.AirdropStatus,
		Priority:      p.Priority,
		Funding:       numberToString(p.Funding),
		Stage:         p.Stage,
		Type:          p.Type,
		Chain:         p.Chain,
		Tasks:         p.Tasks,
		TwitterGuide:  p.TwitterGuide,
		DiscordLink:   p.DiscordLink,
		TwitterLink:   p.TwitterLink,
		ImageLink:     p.ImageLink,
	}
}

// numberToString renders optional numeric fields for display. Zero means
// "unset" for these fields and renders as empty so the payload skips them.
func numberToString(n json.Number) string {
	s := n.String()
	if s == "" {
		return ""
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
