package scheduler

import (
	"log/slog"

	"github.com/T-Man-05/diacare-sub000/internal/logger"
)

// slogAdapter satisfies gocron.Logger on top of the application logger.
type slogAdapter struct {
	log *slog.Logger
}

func newLogger() *slogAdapter {
	return &slogAdapter{log: logger.WithFields("component", "scheduler")}
}

func (l *slogAdapter) Debug(msg string, args ...any) {
	l.log.Debug(msg, args...)
}

func (l *slogAdapter) Error(msg string, args ...any) {
	l.log.Error(msg, args...)
}

func (l *slogAdapter) Info(msg string, args ...any) {
	l.log.Info(msg, args...)
}

func (l *slogAdapter) Warn(msg string, args ...any) {
	l.log.Warn(msg, args...)
}
