package config

type Config struct {
	Telegram TelegramConfig `json:"telegram"`
	Logging  LoggingConfig  `json:"logging"`

	// Checker drives the reminder evaluation cycle.
	Checker CheckerConfig `json:"checker"`

	// Backend locates the external reminder/project stores.
	Backend BackendConfig `json:"backend"`

	// Storage persists the subscriber registry (who /start-ed the bot).
	Storage *StorageConfig `json:"storage,omitempty"`
}

type TelegramConfig struct {
	Token string `json:"token"`

	// GroupLog is the operator chat ID that receives log alerts (optional).
	GroupLog string `json:"group_log,omitempty"`

	// PollTimeout is a Go duration string (default "10s").
	PollTimeout string `json:"poll_timeout,omitempty"`
}

type LoggingConfig struct {
	Level    string            `json:"level"`
	Console  bool              `json:"console"`
	File     LogFileConfig     `json:"file"`
	Telegram LogTelegramConfig `json:"telegram"`
}

type LogFileConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

type LogTelegramConfig struct {
	Enabled    bool   `json:"enabled"`
	ThreadID   int    `json:"thread_id,omitempty"`
	MinLevel   string `json:"min_level,omitempty"`
	RatePerSec int    `json:"rate_per_sec,omitempty"`
}

// CheckerConfig controls the reminder cycle runner.
//
// All durations are Go duration strings (e.g. "500ms", "10s", "1m").
//
// Defaults (when fields are omitted/zero):
//   - interval: "60s"
//   - timezone: "Asia/Kathmandu"
//   - concurrency: 4
//   - call_timeout: "10s"
//   - send_rate_per_sec: 3
type CheckerConfig struct {
	Interval string `json:"interval,omitempty"`

	// Timezone is the single operating timezone every schedule and
	// last-reminded stamp is interpreted in. Never the recipient's.
	Timezone string `json:"timezone,omitempty"`

	Concurrency int `json:"concurrency,omitempty"`

	// CallTimeout bounds every external call made during a cycle.
	CallTimeout string `json:"call_timeout,omitempty"`

	SendRatePerSec int `json:"send_rate_per_sec,omitempty"`
}

type BackendConfig struct {
	BaseURL string `json:"base_url"`

	// Timeout is the HTTP client timeout, a Go duration string (default "8s").
	Timeout string `json:"timeout,omitempty"`
}

// StorageConfig selects the subscriber registry backend.
//
// Example:
//
//	"storage": { "driver": "file", "path": "./farmbot_store" }
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}
