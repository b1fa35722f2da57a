// Package progress logs the numbered steps of a long-running build so
// a first run, which can spend minutes downloading and compiling, is
// never silent.
package progress

import (
	"fmt"
	"log/slog"
	"time"
)

// Tracker numbers build steps and reports per-step and total elapsed
// time through a slog.Logger.
type Tracker struct {
	log       *slog.Logger
	total     int
	current   int
	startedAt time.Time
}

// New returns a Tracker for a build of total steps.
func New(log *slog.Logger, total int) *Tracker {
	return &Tracker{log: log, total: total, startedAt: time.Now()}
}

// Start begins the next step and returns its start time for Done.
func (t *Tracker) Start(title string, detail string) time.Time {
	t.current++
	attrs := []any{slog.String("step", fmt.Sprintf("%d/%d", t.current, t.total))}
	if detail != "" {
		attrs = append(attrs, slog.String("detail", detail))
	}
	t.log.Info(title, attrs...)
	return time.Now()
}

// Info logs a message inside the current step.
func (t *Tracker) Info(message string) {
	t.log.Info(message, slog.String("step", fmt.Sprintf("%d/%d", t.current, t.total)))
}

// Done reports a finished step with its elapsed time.
func (t *Tracker) Done(startedAt time.Time, detail string) {
	attrs := []any{
		slog.String("step", fmt.Sprintf("%d/%d", t.current, t.total)),
		slog.Duration("elapsed", time.Since(startedAt).Round(100*time.Millisecond)),
	}
	if detail != "" {
		attrs = append(attrs, slog.String("detail", detail))
	}
	t.log.Info("done", attrs...)
}

// Summary reports total elapsed time for the whole build.
func (t *Tracker) Summary() {
	t.log.Info("dictionary build finished",
		slog.Duration("elapsed", time.Since(t.startedAt).Round(100*time.Millisecond)))
}
