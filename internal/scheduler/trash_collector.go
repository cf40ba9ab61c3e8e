package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/store"
)

// TrashCollector periodically erases trashed bookmarks whose retention
// window has elapsed.
type TrashCollector struct {
	records  *store.RecordStore
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewTrashCollector creates a trash collector.
func NewTrashCollector(records *store.RecordStore, log logger.Logger, interval time.Duration) *TrashCollector {
	return &TrashCollector{
		records:  records,
		logger:   log,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start runs a sweep immediately, then periodically until Stop or context
// cancellation.
func (tc *TrashCollector) Start(ctx context.Context) error {
	tc.Sweep()

	ticker := time.NewTicker(tc.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				tc.Sweep()
			case <-tc.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the collector.
func (tc *TrashCollector) Stop() {
	close(tc.stopCh)
}

// Sweep erases expired trash entries and reports how many were removed.
func (tc *TrashCollector) Sweep() int {
	purged := tc.records.PurgeExpired()
	if purged > 0 {
		tc.logger.Info("trash sweep completed",
			logger.Int("purged", purged))
	} else {
		tc.logger.Debug("no expired trash to purge")
	}
	return purged
}
