package services

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/questforge/backend/domain"
	"github.com/questforge/backend/internal/infrastructure/localstore"
	"github.com/questforge/backend/repository"
	"github.com/questforge/backend/repository/local"
)

// RefresherConfig controls the background maintenance schedule.
type RefresherConfig struct {
	// ChallengeSchedule is a cron expression for the daily-challenge expiry
	// sweep. Hourly by default; challenges expire at midnight so finer
	// granularity buys nothing.
	ChallengeSchedule string
	// DrainInterval is how often locally buffered snapshots are pushed back
	// to the remote store.
	DrainInterval time.Duration
}

// Refresher runs the scheduled maintenance jobs: rotating expired daily
// challenges and draining locally buffered snapshots once the remote store is
// reachable again.
type Refresher struct {
	container *StateContainer
	store     *localstore.Store
	remote    repository.SnapshotRepository
	localRepo repository.SnapshotRepository
	monitor   ConnectionHealth
	logger    *zap.Logger
	cron      *cron.Cron
}

func NewRefresher(
	container *StateContainer,
	store *localstore.Store,
	remote repository.SnapshotRepository,
	localRepo repository.SnapshotRepository,
	monitor ConnectionHealth,
	logger *zap.Logger,
	cfg RefresherConfig,
) *Refresher {
	if cfg.ChallengeSchedule == "" {
		cfg.ChallengeSchedule = "@hourly"
	}
	if cfg.DrainInterval <= 0 {
		cfg.DrainInterval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Refresher{
		container: container,
		store:     store,
		remote:    remote,
		localRepo: localRepo,
		monitor:   monitor,
		logger:    logger,
		cron:      cron.New(),
	}

	_, _ = r.cron.AddFunc(cfg.ChallengeSchedule, func() {
		r.container.RefreshChallenges(time.Now())
	})
	_, _ = r.cron.AddFunc(everySchedule(cfg.DrainInterval), func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.DrainInterval)
		defer cancel()
		if err := r.Drain(ctx); err != nil {
			r.logger.Error("snapshot drain failed", zap.Error(err))
		}
	})

	return r
}

// Start launches the cron scheduler and runs an immediate challenge sweep so
// freshly restarted servers don't serve yesterday's challenges for an hour.
func (r *Refresher) Start() {
	if r == nil || r.cron == nil {
		return
	}
	r.container.RefreshChallenges(time.Now())
	r.cron.Start()
	r.logger.Info("refresher started")
}

// Stop gracefully stops the scheduler.
func (r *Refresher) Stop(ctx context.Context) {
	if r == nil || r.cron == nil {
		return
	}
	stopCtx := r.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	r.logger.Info("refresher stopped")
}

// Drain pushes every locally buffered snapshot to the remote store. Snapshots
// that belong to a currently loaded cell are skipped; the container's own
// debounced write owns those.
func (r *Refresher) Drain(ctx context.Context) error {
	if r.monitor != nil && !r.monitor.IsOnline() {
		r.logger.Debug("skipping snapshot drain (offline)")
		return nil
	}

	ids, err := local.BufferedUserIDs(r.store)
	if err != nil {
		return err
	}

	for _, id := range ids {
		if _, loaded := r.container.State(id); loaded {
			continue
		}
		snap, err := r.localRepo.Get(ctx, id)
		if err != nil {
			if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
				r.logger.Warn("failed to read buffered snapshot", zap.String("user_id", id), zap.Error(err))
			}
			continue
		}
		if err := r.remote.Save(ctx, snap); err != nil {
			r.logger.Warn("failed to push buffered snapshot", zap.String("user_id", id), zap.Error(err))
			continue
		}
		if err := r.localRepo.Delete(ctx, id); err != nil {
			r.logger.Warn("failed to purge drained snapshot", zap.String("user_id", id), zap.Error(err))
		}
	}
	return nil
}

func everySchedule(interval time.Duration) string {
	if interval < time.Second {
		interval = time.Second
	}
	return "@every " + interval.String()
}
