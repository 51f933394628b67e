package job

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/dmitrymomot/lingo/pkg/logger"
)

// Scheduler runs registered tasks on their cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
	tasks  map[string]scheduledHandler
	ctx    context.Context
	cancel context.CancelFunc

	timeout time.Duration
	mu      sync.Mutex
	started bool
}

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// NewScheduler creates a Scheduler. Every schedule is parsed up front.
func NewScheduler(opts ...Option) (*Scheduler, error) {
	cfg := &config{location: time.UTC}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = logger.NewNope()
	}

	s := &Scheduler{
		logger:  cfg.logger.With(slog.String("component", "job")),
		tasks:   make(map[string]scheduledHandler, len(cfg.schedules)),
		timeout: cfg.timeout,
		cancel:  func() {},
		cron: cron.New(
			cron.WithLocation(cfg.location),
			cron.WithParser(parser),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}

	for _, sched := range cfg.schedules {
		schedule, err := parser.Parse(sched.schedule)
		if err != nil {
			return nil, fmt.Errorf("%w: %q for %s: %v", ErrInvalidSchedule, sched.schedule, sched.name, err)
		}
		s.tasks[sched.name] = sched.handler
		s.cron.Schedule(schedule, s.wrap(sched.name, sched.handler))
	}
	return s, nil
}

// Start begins running schedules. Runs receive a context derived from ctx.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return ErrAlreadyStarted
	}

	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron.Start()
	s.started = true
	s.logger.InfoContext(s.ctx, "scheduler started", slog.Int("tasks", len(s.tasks)))
	return nil
}

// Stop cancels in-flight runs and waits for them until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return ErrNotStarted
	}
	s.started = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RunNow executes the named task synchronously, outside its schedule.
func (s *Scheduler) RunNow(ctx context.Context, name string) error {
	h, ok := s.tasks[name]
	if !ok {
		return fmt.Errorf("job: unknown task %q", name)
	}
	return h(ctx)
}

func (s *Scheduler) runContext() context.Context {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		return context.Background()
	}
	return s.ctx
}

func (s *Scheduler) wrap(name string, h scheduledHandler) cron.FuncJob {
	return func() {
		ctx := s.runContext()
		if s.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, s.timeout)
			defer cancel()
		}

		start := time.Now()
		if err := h(ctx); err != nil {
			s.logger.ErrorContext(ctx, "scheduled task failed",
				slog.String("task", name), slog.Duration("duration", time.Since(start)), slog.Any("error", err))
			return
		}
		s.logger.DebugContext(ctx, "scheduled task completed",
			slog.String("task", name), slog.Duration("duration", time.Since(start)))
	}
}
