// Package maintenance runs background housekeeping on a cron schedule:
// vector snapshot autosave and response cache sweeps.
package maintenance

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Snapshotter persists dirty state. *rag.Service implements it.
type Snapshotter interface {
	SaveIfDirty() error
}

// Sweeper removes expired entries. *cache.Store implements it.
type Sweeper interface {
	Sweep(ctx context.Context) (int64, error)
}

// Runner schedules and runs maintenance jobs.
type Runner struct {
	cron   *cron.Cron
	logger *log.Logger
}

// New creates a stopped runner.
func New(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		cron:   cron.New(),
		logger: logger,
	}
}

// ScheduleSnapshot registers a snapshot autosave job. spec is a cron
// expression or descriptor like "@every 5m".
func (r *Runner) ScheduleSnapshot(spec string, s Snapshotter) error {
	_, err := r.cron.AddFunc(spec, func() {
		if err := s.SaveIfDirty(); err != nil {
			r.logger.Printf("[Maintenance] snapshot autosave failed: %v", err)
		}
	})
	return err
}

// ScheduleCacheSweep registers a cache sweep job.
func (r *Runner) ScheduleCacheSweep(spec string, s Sweeper) error {
	_, err := r.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if n, err := s.Sweep(ctx); err != nil {
			r.logger.Printf("[Maintenance] cache sweep failed: %v", err)
		} else if n > 0 {
			r.logger.Printf("[Maintenance] cache sweep removed %d entries", n)
		}
	})
	return err
}

// Start begins running scheduled jobs.
func (r *Runner) Start() {
	r.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (r *Runner) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}
