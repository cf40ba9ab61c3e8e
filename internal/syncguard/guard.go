package syncguard

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/stash/internal/cloudsync"
	"github.com/MrSnakeDoc/stash/internal/domain"
	"github.com/MrSnakeDoc/stash/internal/logger"
	"github.com/MrSnakeDoc/stash/internal/repository"
)

// State is the guard's position in the sync lifecycle.
type State int

const (
	StateIdle State = iota
	StateSyncing
	StateCoolingDown
)

func (s State) String() string {
	switch s {
	case StateSyncing:
		return "syncing"
	case StateCoolingDown:
		return "cooling_down"
	default:
		return "idle"
	}
}

// Trigger identifies who is asking for a sync. These are the only two
// accepted trigger kinds; local mutations never reach the guard.
type Trigger string

const (
	// TriggerExplicit is a user-initiated sync. Bypasses the daily gate.
	TriggerExplicit Trigger = "explicit"
	// TriggerDailyAuto is the app-foreground check, permitted at most once
	// per AutoInterval.
	TriggerDailyAuto Trigger = "daily_auto"
)

// RefusalReason explains why the guard did not grant a sync. A refusal is
// "blocked", distinct from a failed sync, so callers can keep it quiet.
type RefusalReason string

const (
	ReasonNone           RefusalReason = ""
	ReasonSyncInFlight   RefusalReason = "sync already in flight"
	ReasonCoolingDown    RefusalReason = "within minimum sync interval"
	ReasonUnknownTrigger RefusalReason = "unknown trigger"
)

// DefaultAutoInterval is the minimum spacing between daily_auto syncs.
const DefaultAutoInterval = 24 * time.Hour

// Outcome classifies a Run call.
type Outcome string

const (
	OutcomeSynced  Outcome = "synced"
	OutcomeFailed  Outcome = "failed"
	OutcomeBlocked Outcome = "blocked"
)

// RunResult is what a Run call produced.
type RunResult struct {
	Outcome Outcome
	Reason  RefusalReason
	Result  cloudsync.Result
}

// Engine is the slice of the sync engine the guard drives.
type Engine interface {
	SyncAll(ctx context.Context) cloudsync.Result
}

// Guard decides when a sync may run. It exists specifically to keep sync
// intentional and bounded: explicit triggers and a once-daily foreground
// check are the only ways in, and never two at once. The in-flight flag is
// flipped inside the mutex before any awaited call starts, closing the
// check-then-act window.
type Guard struct {
	mu      sync.Mutex
	syncing bool

	status       repository.SyncStatusRepository
	autoInterval time.Duration
	logger       logger.Logger
	now          func() time.Time
}

// NewGuard creates a guard persisting its status through the given
// repository. autoInterval <= 0 selects DefaultAutoInterval.
func NewGuard(status repository.SyncStatusRepository, autoInterval time.Duration, log logger.Logger) *Guard {
	if autoInterval <= 0 {
		autoInterval = DefaultAutoInterval
	}
	return &Guard{
		status:       status,
		autoInterval: autoInterval,
		logger:       log,
		now:          time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (g *Guard) SetClock(now func() time.Time) {
	g.now = now
}

// Status returns the persisted outcome of the last completed sync.
func (g *Guard) Status() *domain.SyncStatus {
	return g.status.LoadStatus()
}

// State reports the guard's current logical state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.syncing {
		return StateSyncing
	}
	if last := g.status.LoadStatus().LastSyncAt; last != nil && g.now().Sub(*last) < g.autoInterval {
		return StateCoolingDown
	}
	return StateIdle
}

// TryEnter asks for permission to start a sync. On a grant the guard moves
// to Syncing and the caller must call Finish exactly once.
func (g *Guard) TryEnter(trigger Trigger) (bool, RefusalReason) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.syncing {
		return false, ReasonSyncInFlight
	}

	switch trigger {
	case TriggerExplicit:
		// Explicit triggers bypass the daily gate.
	case TriggerDailyAuto:
		if last := g.status.LoadStatus().LastSyncAt; last != nil && g.now().Sub(*last) < g.autoInterval {
			return false, ReasonCoolingDown
		}
	default:
		return false, ReasonUnknownTrigger
	}

	g.syncing = true
	return true, ReasonNone
}

// Finish completes the lifecycle started by a granted TryEnter. LastSyncAt
// is recorded only on success, and only from the engine's reported
// completion time.
func (g *Guard) Finish(res cloudsync.Result) {
	g.mu.Lock()
	g.syncing = false
	g.mu.Unlock()

	if !res.Success {
		return
	}

	completedAt := res.CompletedAt
	status := &domain.SyncStatus{
		LastSyncAt:     &completedAt,
		LastUploaded:   res.Uploaded,
		LastDownloaded: res.Downloaded,
	}
	if err := g.status.SaveStatus(status); err != nil {
		g.logger.Error("failed to persist sync status", logger.Error(err))
	}
}

// Run is the single path from a trigger to the engine: TryEnter, SyncAll,
// Finish. A refusal comes back as OutcomeBlocked without touching the
// engine.
func (g *Guard) Run(ctx context.Context, trigger Trigger, engine Engine) RunResult {
	granted, reason := g.TryEnter(trigger)
	if !granted {
		g.logger.Debug("sync blocked",
			logger.String("trigger", string(trigger)),
			logger.String("reason", string(reason)))
		return RunResult{Outcome: OutcomeBlocked, Reason: reason}
	}

	g.logger.Info("sync started", logger.String("trigger", string(trigger)))
	res := engine.SyncAll(ctx)
	g.Finish(res)

	if !res.Success {
		return RunResult{Outcome: OutcomeFailed, Result: res}
	}
	return RunResult{Outcome: OutcomeSynced, Result: res}
}
