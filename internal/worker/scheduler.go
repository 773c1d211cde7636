package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	apperrors "github.com/complaintdesk/complaint-api/pkg/errors"
	"github.com/complaintdesk/complaint-api/pkg/logger"
	"github.com/complaintdesk/complaint-api/pkg/metrics"
)

// TickFunc is the work executed on each scheduler firing.
type TickFunc func(ctx context.Context)

// Scheduler drives the recurring monitor tick. It owns its cron runner
// (no process-wide state), fires one immediate tick on start so a
// restarted process self-heals without waiting for the first
// recurrence, and guarantees at most one tick runs at a time: a firing
// that overlaps an in-flight tick is skipped and counted.
type Scheduler struct {
	tick    TickFunc
	logger  *logger.Logger
	metrics *metrics.Metrics

	mu      sync.Mutex
	cron    *cron.Cron
	running bool

	inFlight int32
}

func NewScheduler(tick TickFunc, logger *logger.Logger, metrics *metrics.Metrics) *Scheduler {
	return &Scheduler{
		tick:    tick,
		logger:  logger,
		metrics: metrics,
	}
}

// Start validates spec and registers the recurring trigger. A malformed
// spec is a configuration error; callers treat it as fatal. Starting an
// already-running scheduler is a no-op.
func (s *Scheduler) Start(spec string) error {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return apperrors.NewConfiguration("invalid schedule spec", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.logger.Warn("scheduler already running, ignoring start")
		return nil
	}

	c := cron.New()
	c.Schedule(schedule, cron.FuncJob(s.fire))
	c.Start()

	s.cron = c
	s.running = true

	s.logger.Info("scheduler started", "schedule", spec)

	// Immediate first tick, off this goroutine.
	go s.fire()

	return nil
}

// Stop cancels the recurring trigger. An in-flight tick runs to
// completion. The scheduler can be started again afterwards. Stopping a
// stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cron.Stop()
	s.cron = nil
	s.running = false

	s.logger.Info("scheduler stopped")
}

// Running reports whether the recurring trigger is registered.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) fire() {
	if !atomic.CompareAndSwapInt32(&s.inFlight, 0, 1) {
		s.metrics.TicksSkippedOverlap.Inc()
		s.logger.Warn("previous tick still in flight, skipping firing")
		return
	}
	defer atomic.StoreInt32(&s.inFlight, 0)

	s.tick(context.Background())
}
