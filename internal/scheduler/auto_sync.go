package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/syncguard"
)

// AutoSyncer periodically offers a daily_auto trigger to the sync guard,
// standing in for the app-foreground event of a desktop or mobile client.
// The guard does all the gating: this scheduler may check every hour, but
// at most one sync a day actually runs, and never while another is in
// flight. An explicit user sync goes through the guard directly, not
// through here.
type AutoSyncer struct {
	guard         *syncguard.Guard
	engine        syncguard.Engine
	logger        logger.Logger
	checkInterval time.Duration
	syncTimeout   time.Duration
	checkOnStart  bool
	stopCh        chan struct{}
}

// NewAutoSyncer creates the periodic sync checker. checkOnStart controls
// whether a first attempt fires immediately at Start (the sync-on-launch
// setting). syncTimeout bounds each attempt; <= 0 means no deadline.
func NewAutoSyncer(
	guard *syncguard.Guard,
	engine syncguard.Engine,
	log logger.Logger,
	checkInterval time.Duration,
	syncTimeout time.Duration,
	checkOnStart bool,
) *AutoSyncer {
	return &AutoSyncer{
		guard:         guard,
		engine:        engine,
		logger:        log,
		checkInterval: checkInterval,
		syncTimeout:   syncTimeout,
		checkOnStart:  checkOnStart,
		stopCh:        make(chan struct{}),
	}
}

// Start offers a first trigger immediately (the "app came to foreground"
// moment) when configured to, then keeps checking periodically.
func (as *AutoSyncer) Start(ctx context.Context) error {
	if as.checkOnStart {
		as.Check(ctx)
	}

	ticker := time.NewTicker(as.checkInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				as.Check(ctx)
			case <-as.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the checker.
func (as *AutoSyncer) Stop() {
	close(as.stopCh)
}

// Check runs one guarded daily_auto attempt. A blocked attempt is normal
// and stays at debug level; a failed sync is logged but never retried
// here.
func (as *AutoSyncer) Check(ctx context.Context) syncguard.RunResult {
	if as.syncTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, as.syncTimeout)
		defer cancel()
	}

	res := as.guard.Run(ctx, syncguard.TriggerDailyAuto, as.engine)
	switch res.Outcome {
	case syncguard.OutcomeFailed:
		as.logger.Warn("auto sync failed", logger.Error(res.Result.Err))
	case syncguard.OutcomeSynced:
		as.logger.Info("auto sync completed",
			logger.Int("uploaded", res.Result.Uploaded),
			logger.Int("downloaded", res.Result.Downloaded))
	}
	return res
}
