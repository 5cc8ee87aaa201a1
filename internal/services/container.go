package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/questforge/backend/domain"
	"github.com/questforge/backend/repository"
	"github.com/questforge/backend/usecase/engine"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// ContainerConfig controls the synchronizer's write behavior.
type ContainerConfig struct {
	// Debounce is the quiet window that must elapse after the last state
	// change before the snapshot is written out.
	Debounce time.Duration
	// OfflineMode forces every write to the local store, skipping the
	// remote store entirely.
	OfflineMode bool
}

type cell struct {
	state     domain.Snapshot
	timer     *time.Timer
	lastSaved string
}

// StateContainer owns the in-memory state cell for every loaded user. It is
// the single writer of application state: actions go through Dispatch, which
// runs the reducer and schedules a debounced full-snapshot write. Rapid
// successive actions coalesce into one write holding only the final state.
type StateContainer struct {
	remote  repository.SnapshotRepository
	local   repository.SnapshotRepository
	monitor ConnectionHealth
	logger  *zap.Logger
	cfg     ContainerConfig

	mu    sync.Mutex
	cells map[string]*cell
}

func NewStateContainer(
	remote repository.SnapshotRepository,
	local repository.SnapshotRepository,
	monitor ConnectionHealth,
	logger *zap.Logger,
	cfg ContainerConfig,
) *StateContainer {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 500 * time.Millisecond
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StateContainer{
		remote:  remote,
		local:   local,
		monitor: monitor,
		logger:  logger,
		cfg:     cfg,
		cells:   make(map[string]*cell),
	}
}

// Load fetches the user's snapshot (remote first, local fallback, defaults
// last), repairs it through the bulk-load action, applies the once-per-session
// stale-streak reset, and installs the state cell. A reload cancels any write
// still pending for that user; the incoming snapshot wins.
func (sc *StateContainer) Load(ctx context.Context, userID string) (domain.Snapshot, error) {
	raw, fromLocal := sc.fetch(ctx, userID)

	merged := engine.Reduce(domain.DefaultSnapshot(userID), engine.SetAllData{Snapshot: raw})

	// session-start maintenance applied on top of the sanitized snapshot
	now := time.Now()
	state := merged
	if state.Streak.IsStale(now) {
		state = engine.Reduce(state, engine.UpdateStreak{Streak: state.Streak.Reset()})
	}
	if len(state.DailyChallenges) == 0 || domain.ChallengesExpired(state.DailyChallenges, now) {
		state = engine.Reduce(state, engine.SetDailyChallenges{Challenges: domain.RollDailyChallenges(now, nil)})
	}

	sc.mu.Lock()
	if prev, ok := sc.cells[userID]; ok && prev.timer != nil {
		prev.timer.Stop()
	}
	c := &cell{state: state}
	if !fromLocal {
		// the remote row reflects the merged snapshot; only the
		// maintenance delta is dirty
		c.lastSaved = serialize(merged)
	}
	sc.cells[userID] = c
	sc.scheduleLocked(userID, c)
	sc.mu.Unlock()

	return state, nil
}

// Dispatch applies one action to the user's state cell and returns the new
// state. The cell is loaded on demand. Every dispatch resets the debounce
// timer, so only the last state of a burst is persisted.
func (sc *StateContainer) Dispatch(ctx context.Context, userID string, action engine.Action) (domain.Snapshot, error) {
	sc.mu.Lock()
	c, ok := sc.cells[userID]
	sc.mu.Unlock()
	if !ok {
		if _, err := sc.Load(ctx, userID); err != nil {
			return domain.Snapshot{}, err
		}
		sc.mu.Lock()
		c = sc.cells[userID]
		sc.mu.Unlock()
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	next := engine.Reduce(c.state, action)
	// secondary safeguard: a snapshot must never circulate with an empty
	// or broken achievement catalog
	next.AvailableAchievements = domain.RepairCatalog(next.AvailableAchievements)
	c.state = next
	sc.scheduleLocked(userID, c)
	return next, nil
}

// State returns the current in-memory snapshot without touching storage.
func (sc *StateContainer) State(userID string) (domain.Snapshot, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	c, ok := sc.cells[userID]
	if !ok {
		return domain.Snapshot{}, false
	}
	return c.state, true
}

// Unload flushes and drops the user's cell, used on sign-out and shutdown.
func (sc *StateContainer) Unload(ctx context.Context, userID string) {
	sc.mu.Lock()
	c, ok := sc.cells[userID]
	if ok {
		if c.timer != nil {
			c.timer.Stop()
		}
		delete(sc.cells, userID)
	}
	sc.mu.Unlock()
	if ok {
		sc.flush(ctx, userID, c)
	}
}

// FlushAll writes out every dirty cell immediately, bypassing the debounce.
// Registered as a shutdown hook.
func (sc *StateContainer) FlushAll(ctx context.Context) error {
	sc.mu.Lock()
	pending := make(map[string]*cell, len(sc.cells))
	for id, c := range sc.cells {
		if c.timer != nil {
			c.timer.Stop()
		}
		pending[id] = c
	}
	sc.mu.Unlock()

	for id, c := range pending {
		sc.flush(ctx, id, c)
	}
	return nil
}

// RefreshChallenges regenerates the daily-challenge set for every loaded cell
// whose challenges have expired. Invoked hourly by the refresher job; day
// granularity makes anything finer unnecessary.
func (sc *StateContainer) RefreshChallenges(now time.Time) {
	sc.mu.Lock()
	var stale []string
	for id, c := range sc.cells {
		if len(c.state.DailyChallenges) == 0 || domain.ChallengesExpired(c.state.DailyChallenges, now) {
			stale = append(stale, id)
		}
	}
	sc.mu.Unlock()

	for _, id := range stale {
		if _, err := sc.Dispatch(context.Background(), id, engine.SetDailyChallenges{
			Challenges: domain.RollDailyChallenges(now, nil),
		}); err != nil {
			sc.logger.Warn("challenge refresh failed", zap.String("user_id", id), zap.Error(err))
		}
	}
}

// scheduleLocked resets the debounce timer for the cell. Callers hold sc.mu.
func (sc *StateContainer) scheduleLocked(userID string, c *cell) {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(sc.cfg.Debounce, func() {
		sc.mu.Lock()
		current, ok := sc.cells[userID]
		sc.mu.Unlock()
		if !ok || current != c {
			return
		}
		sc.flush(context.Background(), userID, c)
	})
}

// flush serializes the state and writes it out once. Identical back-to-back
// states are skipped via string comparison. The achievement catalog is
// validated right before the write so a corrupted empty catalog is never
// persisted. Remote failure degrades silently to the local store, which
// counts as saved for dirty-check purposes.
func (sc *StateContainer) flush(ctx context.Context, userID string, c *cell) {
	sc.mu.Lock()
	state := c.state
	state.AvailableAchievements = domain.RepairCatalog(state.AvailableAchievements)
	c.state = state
	encoded := serialize(state)
	if encoded == c.lastSaved {
		sc.mu.Unlock()
		return
	}
	sc.mu.Unlock()

	if sc.writeOut(ctx, &state) {
		sc.mu.Lock()
		c.lastSaved = encoded
		sc.mu.Unlock()
	}
}

func (sc *StateContainer) writeOut(ctx context.Context, state *domain.Snapshot) bool {
	if !sc.cfg.OfflineMode && (sc.monitor == nil || sc.monitor.IsOnline()) {
		if err := sc.remote.Save(ctx, state); err == nil {
			// remote copy is now authoritative, drop any stale buffer
			_ = sc.local.Delete(ctx, state.UserID)
			return true
		} else {
			sc.logger.Warn("remote snapshot write failed, buffering locally",
				zap.String("user_id", state.UserID), zap.Error(err))
		}
	}

	if err := sc.local.Save(ctx, state); err != nil {
		sc.logger.Error("local snapshot write failed",
			zap.String("user_id", state.UserID), zap.Error(err))
		return false
	}
	return true
}

// fetch tries remote then local storage, reporting whether the result still
// lives only in the local buffer. A brand new user gets defaults persisted
// locally right away.
func (sc *StateContainer) fetch(ctx context.Context, userID string) (domain.Snapshot, bool) {
	if !sc.cfg.OfflineMode {
		if snap, err := sc.remote.Get(ctx, userID); err == nil {
			return *snap, false
		} else if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
			sc.logger.Warn("remote snapshot load failed, trying local store",
				zap.String("user_id", userID), zap.Error(err))
		}
	}

	if snap, err := sc.local.Get(ctx, userID); err == nil {
		return *snap, true
	}

	fresh := domain.DefaultSnapshot(userID)
	if err := sc.local.Save(ctx, &fresh); err != nil {
		sc.logger.Warn("failed to persist fresh snapshot locally",
			zap.String("user_id", userID), zap.Error(err))
	}
	return fresh, true
}

func serialize(s domain.Snapshot) string {
	s.LastUpdated = time.Time{}
	out, err := json.Marshal(s)
	if err != nil {
		return ""
	}
	return string(out)
}
