package sweeper

import (
	"context"
	"fmt"
	"time"

	"github.com/GoSim-25-26J-441/impact-analysis-backend/internal/platform/logger"
	"github.com/robfig/cron/v3"
)

// DefaultSchedule runs every five minutes (with seconds field).
const DefaultSchedule = "0 */5 * * * *"

// Reclaimer is anything that drops expired cache entries.
type Reclaimer interface {
	Reclaim(ctx context.Context) (int64, error)
}

// Scheduler periodically reclaims expired impact analysis cache entries.
type Scheduler struct {
	cron      *cron.Cron
	reclaimer Reclaimer
	log       *logger.Logger
	timeout   time.Duration
}

func NewScheduler(r Reclaimer, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		reclaimer: r,
		log:       log.With("component", "cache_sweeper"),
		timeout:   30 * time.Second,
	}
}

// Start registers the sweep on schedule and starts the cron runner.
func (s *Scheduler) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if _, err := s.cron.AddFunc(schedule, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("schedule cache sweep %q: %w", schedule, err)
	}
	s.log.Info("cache sweeper started", "schedule", schedule)
	s.cron.Start()
	return nil
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// RunOnce performs a single sweep.
func (s *Scheduler) RunOnce(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	n, err := s.reclaimer.Reclaim(ctx)
	if err != nil {
		s.log.Error("cache sweep failed", "error", err)
		return 0
	}
	if n > 0 {
		s.log.Info("cache sweep reclaimed expired entries", "count", n)
	}
	return n
}
