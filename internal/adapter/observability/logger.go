// Package observability provides logging, metrics, and tracing.
package observability

import (
	"io"
	"log/slog"
	"os"

	"github.com/jobdeck/jobdeck/internal/config"
)

// SetupLogger builds the process-wide JSON logger. Debug level and source
// positions are enabled in dev; tests get a silent logger so assertion output
// stays readable.
func SetupLogger(cfg config.Config) *slog.Logger {
	var out io.Writer = os.Stdout
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	switch {
	case cfg.IsDev():
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	case cfg.IsTest():
		out = io.Discard
	}
	return slog.New(slog.NewJSONHandler(out, opts)).With(
		slog.String("service", cfg.OTELServiceName),
		slog.String("env", cfg.AppEnv),
	)
}
