package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadJSON(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "config.json", `{
		"telegram": {"token": "t"},
		"logging": {"level": "INFO", "console": true, "file": {"enabled": false}, "telegram": {"enabled": false}},
		"checker": {"interval": "30s", "timezone": "Asia/Kathmandu"},
		"backend": {"base_url": "http://localhost:8000"}
	}`)

	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Checker.Interval != "30s" || cfg.Checker.Timezone != "Asia/Kathmandu" {
		t.Fatalf("unexpected checker config: %+v", cfg.Checker)
	}
	if cfg.Backend.BaseURL != "http://localhost:8000" {
		t.Fatalf("unexpected backend config: %+v", cfg.Backend)
	}
}

func TestLoadYAML(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "config.yaml", `
telegram:
  token: t
logging:
  level: DEBUG
  console: true
  file:
    enabled: false
  telegram:
    enabled: false
checker:
  interval: 1m
backend:
  base_url: http://localhost:8000
storage:
  driver: file
  path: ./store
`)

	cfg, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "DEBUG" {
		t.Fatalf("Logging.Level = %q", cfg.Logging.Level)
	}
	if cfg.Storage == nil || cfg.Storage.Driver != "file" {
		t.Fatalf("unexpected storage config: %+v", cfg.Storage)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "config.json", `{"telegram": {"token": "t"}, "nonsense": 1}`)
	if _, err := NewManager(path).Load(); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestParseDurationOrDefault(t *testing.T) {
	t.Parallel()
	d, err := ParseDurationOrDefault("checker.interval", "", 60e9)
	if err != nil || d != 60e9 {
		t.Fatalf("got (%v, %v)", d, err)
	}
	if _, err := ParseDurationField("checker.interval", "banana"); err == nil {
		t.Fatal("expected error for invalid duration")
	}
	if _, err := ParseDurationField("checker.interval", "-5s"); err == nil {
		t.Fatal("expected error for negative duration")
	}
}
