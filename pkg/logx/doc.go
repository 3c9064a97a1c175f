// Package logx configures farmbot's structured logging.
//
// It is a small wrapper (logx.Logger) on top of zerolog that keeps:
//   - Console output readable (short timestamps, key=value fields)
//   - File output JSON-structured
//   - Optional Telegram sink for operator alerts (min-level + rate limiting)
//
// The Service owns the sinks and can hot-swap them on config reload without
// invalidating loggers already handed out.
package logx
