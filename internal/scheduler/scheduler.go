package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fleetrate/fleetrate/internal/clock"
	obsmetrics "github.com/fleetrate/fleetrate/internal/observability/metrics"

	demanddomain "github.com/fleetrate/fleetrate/internal/demand/domain"
	snapshotdomain "github.com/fleetrate/fleetrate/internal/snapshot/domain"
	utilizationdomain "github.com/fleetrate/fleetrate/internal/utilization/domain"
)

const (
	JobDemandRefresh      = "demand_refresh"
	JobUtilizationRefresh = "utilization_refresh"
	JobSnapshotRetention  = "snapshot_retention"
)

var (
	ErrInvalidConfig = errors.New("scheduler: missing required dependency")
	ErrUnknownJob    = errors.New("scheduler: unknown job")
)

type Params struct {
	fx.In

	DB             *gorm.DB
	Log            *zap.Logger
	GenID          *snowflake.Node
	Clock          clock.Clock
	DemandSvc      demanddomain.Service
	UtilizationSvc utilizationdomain.Service
	SnapshotRepo   snapshotdomain.Repository
	Locker         *Locker `optional:"true"`
	Config         Config  `optional:"true"`
}

type Scheduler struct {
	db             *gorm.DB
	log            *zap.Logger
	cfg            Config
	genID          *snowflake.Node
	clock          clock.Clock
	demandSvc      demanddomain.Service
	utilizationSvc utilizationdomain.Service
	snapshotRepo   snapshotdomain.Repository
	locker         *Locker

	mu      sync.Mutex
	lastRun map[string]time.Time
}

func New(p Params) (*Scheduler, error) {
	if p.DB == nil || p.Log == nil || p.GenID == nil || p.Clock == nil || p.DemandSvc == nil || p.UtilizationSvc == nil || p.SnapshotRepo == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		db:             p.DB,
		log:            p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:            p.Config.withDefaults(),
		genID:          p.GenID,
		clock:          p.Clock,
		demandSvc:      p.DemandSvc,
		utilizationSvc: p.UtilizationSvc,
		snapshotRepo:   p.SnapshotRepo,
		locker:         p.Locker,
		lastRun:        make(map[string]time.Time),
	}, nil
}

func (s *Scheduler) runJob(
	parent context.Context,
	name string,
	timeout time.Duration,
	fn func(ctx context.Context) error,
) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	if s.locker != nil {
		key := "fleetrate:scheduler:" + name
		token, ok, err := s.locker.TryLock(ctx, key, s.cfg.LockTTL)
		if err != nil {
			s.log.Warn("job lock unavailable, running unguarded",
				zap.String("job", name),
				zap.Error(err),
			)
		} else if !ok {
			s.log.Debug("job held by another instance", zap.String("job", name))
			return nil
		} else {
			defer func() {
				if rerr := s.locker.Release(context.WithoutCancel(ctx), key, token); rerr != nil {
					s.log.Warn("failed to release job lock",
						zap.String("job", name),
						zap.Error(rerr),
					)
				}
			}()
		}
	}

	ctx, run, owner := s.ensureJobRun(ctx, name, s.cfg.BatchSize)
	if owner {
		s.logJobStart(run)
	}
	schedMetrics := obsmetrics.Scheduler()
	schedMetrics.IncJobRun(name)

	err := fn(ctx)
	schedMetrics.ObserveJobDuration(name, time.Since(start))
	if owner {
		if err != nil && run.errorCount == 0 {
			run.IncError()
		}
		s.logJobFinish(run)
	}
	if err == nil {
		return nil
	}

	schedMetrics.IncJobError(name)
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.log.Warn("job timed out",
			zap.String("job", name),
			zap.Duration("timeout", timeout),
			zap.Error(err),
		)
		return nil
	}
	return fmt.Errorf("%s: %w", name, err)
}

// RunOnce runs every enabled job whose cadence has elapsed.
func (s *Scheduler) RunOnce(parent context.Context) error {
	var err error

	jobs := []struct {
		Name     string
		Interval time.Duration
		Timeout  time.Duration
		Run      func(context.Context) error
	}{
		{JobDemandRefresh, s.cfg.DemandInterval, s.cfg.JobTimeout, s.DemandRefreshJob},
		{JobUtilizationRefresh, s.cfg.UtilizationInterval, 5 * time.Minute, s.UtilizationRefreshJob},
		{JobSnapshotRetention, s.cfg.RetentionInterval, s.cfg.JobTimeout, s.SnapshotRetentionJob},
	}

	for _, job := range jobs {
		if !s.isJobEnabled(job.Name) || !s.due(job.Name, job.Interval) {
			continue
		}
		if jerr := s.runJob(parent, job.Name, job.Timeout, job.Run); jerr != nil {
			err = errors.Join(err, jerr)
		}
	}
	return err
}

// RunJob triggers one job by name immediately, ignoring its cadence.
func (s *Scheduler) RunJob(ctx context.Context, name string) error {
	switch name {
	case JobDemandRefresh:
		return s.runJob(ctx, name, s.cfg.JobTimeout, s.DemandRefreshJob)
	case JobUtilizationRefresh:
		return s.runJob(ctx, name, 5*time.Minute, s.UtilizationRefreshJob)
	case JobSnapshotRetention:
		return s.runJob(ctx, name, s.cfg.JobTimeout, s.SnapshotRetentionJob)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()
	nextRun := s.clock.Now().Add(s.cfg.RunInterval)
	schedMetrics := obsmetrics.Scheduler()

	for {
		runLag := time.Since(nextRun)
		if runLag > 0 {
			schedMetrics.ObserveRunLoopLag(runLag)
		}
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}
		nextRun = nextRun.Add(s.cfg.RunInterval)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) isJobEnabled(jobName string) bool {
	// An empty EnabledJobs list enables everything.
	if len(s.cfg.EnabledJobs) == 0 {
		return true
	}
	for _, enabled := range s.cfg.EnabledJobs {
		if strings.EqualFold(enabled, jobName) {
			return true
		}
	}
	return false
}

func (s *Scheduler) due(name string, interval time.Duration) bool {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.lastRun[name]
	if ok && now.Sub(last) < interval {
		return false
	}
	s.lastRun[name] = now
	return true
}

// DemandRefreshJob recomputes the demand metrics row for every city.
func (s *Scheduler) DemandRefreshJob(ctx context.Context) error {
	ctx, run, owner := s.ensureJobRun(ctx, JobDemandRefresh, s.cfg.BatchSize)
	if owner {
		s.logJobStart(run)
		defer s.logJobFinish(run)
	}

	refreshed, err := s.demandSvc.RefreshAll(ctx)
	run.AddProcessed(refreshed)
	obsmetrics.Scheduler().AddItemsProcessed(JobDemandRefresh, refreshed)
	if err != nil {
		run.IncError()
		return err
	}
	return nil
}

// UtilizationRefreshJob recomputes utilization for every eligible vehicle.
func (s *Scheduler) UtilizationRefreshJob(ctx context.Context) error {
	ctx, run, owner := s.ensureJobRun(ctx, JobUtilizationRefresh, s.cfg.BatchSize)
	if owner {
		s.logJobStart(run)
		defer s.logJobFinish(run)
	}

	updated, err := s.utilizationSvc.RecomputeAll(ctx)
	run.AddProcessed(updated)
	obsmetrics.Scheduler().AddItemsProcessed(JobUtilizationRefresh, updated)
	if err != nil {
		run.IncError()
		return err
	}
	return nil
}

// SnapshotRetentionJob deletes pricing snapshots past the retention window.
func (s *Scheduler) SnapshotRetentionJob(ctx context.Context) error {
	ctx, run, owner := s.ensureJobRun(ctx, JobSnapshotRetention, s.cfg.BatchSize)
	if owner {
		s.logJobStart(run)
		defer s.logJobFinish(run)
	}

	cutoff := s.clock.Now().Add(-s.cfg.SnapshotRetention)
	deleted, err := s.snapshotRepo.DeleteOlderThan(ctx, s.db, cutoff)
	run.AddProcessed(int(deleted))
	obsmetrics.Scheduler().AddItemsProcessed(JobSnapshotRetention, int(deleted))
	if err != nil {
		run.IncError()
		return err
	}
	if deleted > 0 {
		s.log.Info("pruned expired pricing snapshots",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
	return nil
}
