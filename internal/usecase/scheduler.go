package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	drepo "GoldPulse/internal/domain/repository"
	applogger "GoldPulse/pkg/logger"
)

var ErrUnknownTask = errors.New("unknown task")

// Task is one unit of periodic work.
type Task interface {
	Name() string
	Run(ctx context.Context) error
}

type entry struct {
	task     Task
	interval time.Duration
	busy     sync.Mutex
}

// Scheduler runs tasks on fixed intervals. A task never overlaps itself and
// ticks that land while it is still running collapse into one.
type Scheduler struct {
	logger  *applogger.Logger
	metrics drepo.Metrics
	entries []*entry

	mu      sync.Mutex
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	started bool
}

func NewScheduler(metrics drepo.Metrics) *Scheduler {
	return &Scheduler{logger: applogger.Nop(), metrics: metrics}
}

func (s *Scheduler) SetLogger(l *applogger.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Every registers t. Intervals <= 0 disable the task.
func (s *Scheduler) Every(interval time.Duration, t Task) {
	if interval <= 0 || t == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, &entry{task: t, interval: interval})
}

// Tasks lists registered task names.
func (s *Scheduler) Tasks() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.entries))
	for i, e := range s.entries {
		out[i] = e.task.Name()
	}
	return out
}

// Start launches one loop per task. Each task runs once immediately.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	ctx, s.cancel = context.WithCancel(ctx)
	for _, e := range s.entries {
		s.wg.Add(1)
		go s.loop(ctx, e)
	}
	s.logger.Info("scheduler started", applogger.Int("tasks", len(s.entries)))
}

func (s *Scheduler) loop(ctx context.Context, e *entry) {
	defer s.wg.Done()
	s.runEntry(ctx, e)

	// time.Ticker drops ticks the receiver is too slow for, which is the
	// coalescing behaviour we want.
	ticker := time.NewTicker(e.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runEntry(ctx, e)
		}
	}
}

// RunNow executes a registered task out of band unless it is already running.
// It reports whether the task ran.
func (s *Scheduler) RunNow(ctx context.Context, name string) (bool, error) {
	s.mu.Lock()
	var target *entry
	for _, e := range s.entries {
		if e.task.Name() == name {
			target = e
			break
		}
	}
	s.mu.Unlock()
	if target == nil {
		return false, ErrUnknownTask
	}
	return s.runEntry(ctx, target)
}

func (s *Scheduler) runEntry(ctx context.Context, e *entry) (bool, error) {
	if !e.busy.TryLock() {
		s.logger.Debug("task still running, tick skipped", applogger.String("task", e.task.Name()))
		return false, nil
	}
	defer e.busy.Unlock()

	start := time.Now()
	err := s.safeRun(ctx, e.task)
	s.metrics.RecordJob(e.task.Name(), time.Since(start).Seconds(), err)
	if err != nil && ctx.Err() == nil {
		s.logger.Error("task failed", applogger.String("task", e.task.Name()), applogger.Error(err))
	}
	return true, err
}

func (s *Scheduler) safeRun(ctx context.Context, t Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("task panicked", applogger.String("task", t.Name()), applogger.Any("panic", r))
			err = errPanic
		}
	}()
	return t.Run(ctx)
}

// Stop cancels every loop and waits for in-flight runs until ctx expires.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
