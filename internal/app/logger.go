package app

import (
	"log/slog"
	"os"
)

// NewLogger builds the process-wide structured logger. Deployments set
// LOG_FORMAT=json for log shipping; anything else falls back to the readable
// text handler for local runs.
func NewLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{AddSource: true}
	if cfg != nil && cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
