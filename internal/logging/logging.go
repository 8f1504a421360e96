// Package logging carries small helpers shared by every component that logs
// through log/slog.
package logging

import (
	"io"
	"log/slog"
	"os"

	"cohort.regsund.org/internal/appconf"
)

// NewLogger builds the application logger. Development and test environments
// log at Debug when verbose is set; production always logs at Info.
func NewLogger(env appconf.Environment, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose && env != appconf.Production {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// SafeCloseWithLogging closes the closer and logs a warning instead of
// returning the error. For use in defers where the close error cannot change
// the outcome.
func SafeCloseWithLogging(c io.Closer, logger *slog.Logger, name string) {
	if err := c.Close(); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Warn("failed to close resource",
			slog.String("resource", name),
			slog.String("error", err.Error()))
	}
}
