package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	logx "farmbot/pkg/logx"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(Config{BaseURL: srv.URL}, logx.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestListReminders(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/users/" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[
			{"id": 1, "username": "alice", "reminder_time": "9pm", "frequency": "daily", "last_reminded": "2024-03-09 21:00:05", "project": 7},
			{"id": 2, "username": "bob", "reminder_time": "10:15am", "frequency": "weekly", "project": 8}
		]`))
	}))

	got, err := c.ListReminders(context.Background())
	if err != nil {
		t.Fatalf("ListReminders: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d reminders", len(got))
	}
	if got[0].Username != "alice" || got[0].LastReminded != "2024-03-09 21:00:05" {
		t.Fatalf("unexpected first reminder: %+v", got[0])
	}
	if got[1].LastReminded != "" {
		t.Fatalf("expected empty last_reminded, got %q", got[1].LastReminded)
	}
}

func TestListRemindersStatusError(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := c.ListReminders(context.Background())
	var se *StatusError
	if !errors.As(err, &se) || se.Status != http.StatusInternalServerError {
		t.Fatalf("expected StatusError 500, got %v", err)
	}
}

func TestGetProject(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/projects/7" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{
			"id": 7, "project_name": "ZetaChain", "tier": "S",
			"cost_to_farm": 50.0, "funding": 0.0, "image_link": " https://x/logo.png "
		}`))
	}))

	p, err := c.GetProject(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetProject: %v", err)
	}
	if p.Name != "ZetaChain" || p.Tier != "S" {
		t.Fatalf("unexpected project: %+v", p)
	}
	if p.CostToFarm != "50" {
		t.Fatalf("CostToFarm = %q", p.CostToFarm)
	}
	// Zero numbers mean "unset" and must render empty so the payload skips them.
	if p.Funding != "" {
		t.Fatalf("Funding = %q, want empty", p.Funding)
	}
}

func TestGetProjectNotFound(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, http.NotFoundHandler())

	_, err := c.GetProject(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateReminder(t *testing.T) {
	t.Parallel()
	var gotPath string
	var gotBody Reminder
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.Method != http.MethodPut {
			t.Errorf("method = %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
	}))

	rec := Reminder{ID: 1, Username: "alice", ReminderTime: "9pm", Frequency: "daily", LastReminded: "2024-03-10 21:00:05", Project: 7}
	if err := c.UpdateReminder(context.Background(), rec); err != nil {
		t.Fatalf("UpdateReminder: %v", err)
	}
	if gotPath != "/api/users/alice/1/" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotBody.LastReminded != "2024-03-10 21:00:05" {
		t.Fatalf("body last_reminded = %q", gotBody.LastReminded)
	}
}
