package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/barbackhq/pos-backend/pkg/config"
	"github.com/barbackhq/pos-backend/pkg/logger"
	"github.com/barbackhq/pos-backend/pkg/metrics"
)

// Job is a unit of scheduled work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Locker serializes runs across worker replicas.
type Locker interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Del(ctx context.Context, keys ...string) error
	LockKey(name string) string
}

// Runner executes the registered jobs on an interval, holding a distributed
// lock so only one replica runs a cycle.
type Runner struct {
	jobs    []Job
	locker  Locker
	metrics *metrics.CronJobMetrics
	log     *logger.Logger
	cfg     config.CronConfig
	now     func() time.Time
}

// NewRunner builds a cron runner.
func NewRunner(cfg config.CronConfig, locker Locker, jobMetrics *metrics.CronJobMetrics, logg *logger.Logger, jobs ...Job) (*Runner, error) {
	if locker == nil {
		return nil, fmt.Errorf("locker required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("at least one job required")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = cfg.Interval + 5*time.Minute
	}
	if cfg.LockKey == "" {
		cfg.LockKey = "cron-worker"
	}
	return &Runner{
		jobs:    jobs,
		locker:  locker,
		metrics: jobMetrics,
		log:     logg,
		cfg:     cfg,
		now:     time.Now,
	}, nil
}

// Start blocks, running a cycle immediately and then on every interval tick
// until the context is cancelled.
func (r *Runner) Start(ctx context.Context) error {
	r.RunCycle(ctx)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.RunCycle(ctx)
		}
	}
}

// RunCycle runs every job once if the distributed lock is free. A replica
// that loses the race skips the cycle.
func (r *Runner) RunCycle(ctx context.Context) {
	lockKey := r.locker.LockKey(r.cfg.LockKey)
	acquired, err := r.locker.SetNX(ctx, lockKey, r.now().Format(time.RFC3339), r.cfg.LockTTL)
	if err != nil {
		r.log.Error(ctx, "acquiring cron lock", err)
		return
	}
	if !acquired {
		r.log.Info(ctx, "cron lock held elsewhere, skipping cycle")
		return
	}
	defer func() {
		if err := r.locker.Del(ctx, lockKey); err != nil {
			r.log.Error(ctx, "releasing cron lock", err)
		}
	}()

	for _, job := range r.jobs {
		r.runJob(ctx, job)
	}
}

func (r *Runner) runJob(ctx context.Context, job Job) {
	jobCtx := r.log.WithField(ctx, "job", job.Name())
	started := r.now()

	err := job.Run(jobCtx)
	r.metrics.ObserveDuration(job.Name(), r.now().Sub(started))
	if err != nil {
		r.metrics.IncFailure(job.Name())
		r.log.Error(jobCtx, "cron job failed", err)
		return
	}
	r.metrics.IncSuccess(job.Name())
	r.log.Info(jobCtx, "cron job completed")
}
