package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/donaldgifford/device-compare/internal/metrics"
	"github.com/donaldgifford/device-compare/internal/store"
)

const (
	defaultLockTTL    = 10 * time.Minute
	staleRunThreshold = time.Hour
)

// Refresher reloads the directory.
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// Scheduler reloads the directory on a fixed interval. When a store is
// configured, a scheduler lock keeps replicas from refreshing at the same
// time.
type Scheduler struct {
	cron      *cron.Cron
	refresher Refresher
	store     store.Store
	holder    string
	lockTTL   time.Duration
	log       *slog.Logger

	refreshEntryID cron.EntryID
}

// NewScheduler creates a Scheduler that calls r.Refresh every interval.
// The store may be nil.
func NewScheduler(
	r Refresher,
	s store.Store,
	interval time.Duration,
	log *slog.Logger,
) (*Scheduler, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("refresh interval must be positive, got %s", interval)
	}

	sched := &Scheduler{
		cron:      cron.New(),
		refresher: r,
		store:     s,
		holder:    uuid.NewString(),
		lockTTL:   max(defaultLockTTL, interval),
		log:       log,
	}

	id, err := sched.cron.AddFunc("@every "+interval.String(), sched.runRefresh)
	if err != nil {
		return nil, fmt.Errorf("scheduling catalog refresh: %w", err)
	}
	sched.refreshEntryID = id

	return sched, nil
}

// Start marks refreshes orphaned by a previous crash and begins running
// scheduled tasks.
func (s *Scheduler) Start(ctx context.Context) {
	if s.store != nil {
		n, err := s.store.RecoverStaleJobRuns(ctx, staleRunThreshold)
		switch {
		case err != nil:
			s.log.Warn("recovering stale job runs", "error", err)
		case n > 0:
			s.log.Warn("marked stale job runs as crashed", "count", n)
		}
	}

	s.log.Info("scheduler started")
	s.cron.Start()
	s.SyncNextRunTimestamp()
}

// Stop gracefully stops the scheduler, waiting for running jobs to finish.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

// Entries returns the registered cron entries for inspection.
func (s *Scheduler) Entries() []cron.Entry {
	return s.cron.Entries()
}

// SyncNextRunTimestamp publishes the next refresh time as a gauge.
func (s *Scheduler) SyncNextRunTimestamp() {
	next := s.cron.Entry(s.refreshEntryID).Next
	if next.IsZero() {
		return
	}
	metrics.SchedulerNextRefreshTimestamp.Set(float64(next.Unix()))
}

// RunRefresh performs one locked refresh. It reports whether the refresh
// ran; false means another holder owns the lock.
func (s *Scheduler) RunRefresh(ctx context.Context) (bool, error) {
	if s.store != nil {
		ok, err := s.store.AcquireSchedulerLock(ctx, JobRefresh, s.holder, s.lockTTL)
		if err != nil {
			return false, fmt.Errorf("acquiring refresh lock: %w", err)
		}
		if !ok {
			return false, nil
		}
		defer func() {
			if err := s.store.ReleaseSchedulerLock(context.WithoutCancel(ctx), JobRefresh, s.holder); err != nil {
				s.log.Warn("releasing refresh lock", "error", err)
			}
		}()
	}

	n, err := s.refresher.Refresh(ctx)
	if err != nil && !errors.Is(err, ErrStale) {
		return true, err
	}
	if err != nil {
		s.log.Warn("scheduled refresh served stored catalog", "error", err)
	}
	s.log.Info("scheduled catalog refresh complete", "products", n)
	return true, nil
}

func (s *Scheduler) runRefresh() {
	defer s.SyncNextRunTimestamp()

	ran, err := s.RunRefresh(context.Background())
	switch {
	case err != nil:
		s.log.Error("scheduled catalog refresh failed", "error", err)
	case !ran:
		s.log.Debug("catalog refresh skipped, lock held elsewhere")
	}
}
