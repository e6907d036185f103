package command

import (
	"context"
	"log/slog"
	"time"

	"github.com/joeycumines/super-document/internal/config"
	"github.com/joeycumines/super-document/internal/storage"
)

// maybeStartCleanupScheduler starts background session cleanup when the
// config enables it. excludeID is never removed. The returned stop function
// cancels the scheduler and waits for it to return; it is a no-op when
// nothing was started.
func maybeStartCleanupScheduler(ctx context.Context, cfg *config.Config, excludeID string, log *slog.Logger) (stop func()) {
	if cfg == nil || !cfg.Sessions.AutoCleanupEnabled {
		return func() {}
	}

	scheduler := &storage.CleanupScheduler{
		Cleaner: &storage.Cleaner{
			MaxAgeDays: cfg.Sessions.MaxAgeDays,
			MaxCount:   cfg.Sessions.MaxCount,
			MaxSizeMB:  cfg.Sessions.MaxSizeMB,
		},
		ExcludeID: excludeID,
		Interval:  time.Duration(cfg.Sessions.CleanupIntervalHours) * time.Hour,
		Logger:    log,
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		scheduler.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}
