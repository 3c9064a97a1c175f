package app

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"farmbot/internal/backend"
	"farmbot/internal/checker"
	"farmbot/internal/config"
	"farmbot/internal/storage"
	logx "farmbot/pkg/logx"
)

// The config file speaks strings (durations, chat IDs); services speak typed
// values. Mapping lives here so the validator and the apply path share it.

func mapLoggingConfig(cfg *config.Config) logx.Config {
	return logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
		Telegram: logx.TelegramConfig{
			Enabled:    cfg.Logging.Telegram.Enabled,
			ThreadID:   cfg.Logging.Telegram.ThreadID,
			MinLevel:   cfg.Logging.Telegram.MinLevel,
			RatePerSec: cfg.Logging.Telegram.RatePerSec,
		},
	}
}

func mapCheckerConfig(cfg *config.Config) (checker.Config, error) {
	interval, err := config.ParseDurationOrDefault("checker.interval", cfg.Checker.Interval, 60*time.Second)
	if err != nil {
		return checker.Config{}, err
	}
	callTimeout, err := config.ParseDurationOrDefault("checker.call_timeout", cfg.Checker.CallTimeout, 10*time.Second)
	if err != nil {
		return checker.Config{}, err
	}
	if cfg.Checker.Concurrency < 0 {
		return checker.Config{}, fmt.Errorf("checker.concurrency must be >= 0")
	}
	if cfg.Checker.SendRatePerSec < 0 {
		return checker.Config{}, fmt.Errorf("checker.send_rate_per_sec must be >= 0")
	}
	if tz := strings.TrimSpace(cfg.Checker.Timezone); tz != "" {
		if _, err := time.LoadLocation(tz); err != nil {
			return checker.Config{}, fmt.Errorf("checker.timezone: invalid %q: %w", tz, err)
		}
	}
	return checker.Config{
		Interval:       interval,
		Timezone:       cfg.Checker.Timezone,
		Concurrency:    cfg.Checker.Concurrency,
		CallTimeout:    callTimeout,
		SendRatePerSec: cfg.Checker.SendRatePerSec,
	}, nil
}

func mapBackendConfig(cfg *config.Config) (backend.Config, error) {
	timeout, err := config.ParseDurationOrDefault("backend.timeout", cfg.Backend.Timeout, 8*time.Second)
	if err != nil {
		return backend.Config{}, err
	}
	return backend.Config{BaseURL: cfg.Backend.BaseURL, Timeout: timeout}, nil
}

// mapStorageConfig returns (config, enabled, error). Storage is optional;
// without it the subscriber registry is memory-only.
func mapStorageConfig(cfg *config.Config) (storage.Config, bool, error) {
	if cfg.Storage == nil {
		return storage.Config{}, false, nil
	}
	driver := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))
	if driver == "" || driver == "none" {
		return storage.Config{}, false, nil
	}
	busy, err := config.ParseDurationOrDefault("storage.busy_timeout", cfg.Storage.BusyTimeout, 0)
	if err != nil {
		return storage.Config{}, false, err
	}
	return storage.Config{
		Driver:      driver,
		Path:        cfg.Storage.Path,
		BusyTimeout: busy,
	}, true, nil
}

// parseLogTarget parses telegram.group_log into a chat ID; "" means no
// operator chat.
func parseLogTarget(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}
