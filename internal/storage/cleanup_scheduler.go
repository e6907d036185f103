package storage

import (
	"context"
	"log/slog"
	"time"
)

// CleanupScheduler runs a Cleaner once immediately and then every Interval
// until its context is cancelled.
type CleanupScheduler struct {
	Cleaner   *Cleaner
	ExcludeID string
	// Interval <= 0 disables the recurring runs.
	Interval time.Duration
	// Logger receives cleanup results. Nil discards them.
	Logger *slog.Logger

	// NewTicker defaults to time.NewTicker.
	NewTicker func(d time.Duration) (tick <-chan time.Time, stop func())
}

// Run blocks until ctx is done.
func (s *CleanupScheduler) Run(ctx context.Context) {
	s.runOnce()

	if s.Interval <= 0 {
		<-ctx.Done()
		return
	}

	newTicker := s.NewTicker
	if newTicker == nil {
		newTicker = defaultNewTicker
	}
	ch, stop := newTicker(s.Interval)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ch:
			s.runOnce()
		}
	}
}

func (s *CleanupScheduler) runOnce() {
	report, err := s.Cleaner.ExecuteCleanup(s.ExcludeID)
	if s.Logger == nil {
		return
	}
	if err != nil {
		s.Logger.Warn("session cleanup failed", "error", err)
		return
	}
	if len(report.Removed) > 0 {
		s.Logger.Info("session cleanup", "removed", len(report.Removed), "skipped", len(report.Skipped))
	}
}

func defaultNewTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}
