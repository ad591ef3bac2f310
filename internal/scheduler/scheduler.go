package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Task is a unit of periodic work.
type Task struct {
	// Name identifies the task in logs.
	Name string

	// Interval is the time between runs. Must be positive.
	Interval time.Duration

	// Run performs one iteration. The context carries the values of the
	// scheduler's parent context but is never cancelled by Stop.
	Run func(ctx context.Context)
}

// Scheduler owns the timers for a set of [Task] values.
//
// All lifecycle methods (Start, Stop) are safe for concurrent use.
type Scheduler struct {
	tasks  []Task
	logger *slog.Logger

	mu      sync.Mutex
	started bool
	stopped bool
	cancel  context.CancelFunc

	loops    sync.WaitGroup
	inflight sync.WaitGroup
}

// New creates a [Scheduler] for tasks. Tasks with a non-positive interval
// run once on start and are never repeated.
func New(tasks []Task, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		tasks:  tasks,
		logger: logger,
	}
}

// Start runs every task immediately, then on its interval, until Stop is
// called or ctx is cancelled.
//
// Start is non-blocking and idempotent. If Stop was called before Start,
// Start is a no-op. A nil ctx is treated as context.Background().
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started || s.stopped {
		return
	}
	s.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	// runs must outlive the mount; only the timers stop
	runCtx := context.WithoutCancel(ctx)

	for _, task := range s.tasks {
		s.loops.Add(1)
		go s.loop(loopCtx, runCtx, task)
	}
}

// Stop halts all timers and blocks until no new run can start. Runs already
// in flight are left to finish on their own; use [Scheduler.Wait] to wait
// for them.
//
// Stop is idempotent and safe to call before Start.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		if s.cancel != nil {
			s.cancel()
		}
	}
	s.mu.Unlock()

	s.loops.Wait()
}

// Wait blocks until every in-flight run has returned or ctx is done,
// returning ctx.Err() in the latter case. Call it after Stop.
func (s *Scheduler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// loop fires task immediately and then on every tick until loopCtx is done.
func (s *Scheduler) loop(loopCtx, runCtx context.Context, task Task) {
	defer s.loops.Done()

	s.fire(runCtx, task)

	if task.Interval <= 0 {
		return
	}

	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-loopCtx.Done():
			return
		case <-ticker.C:
			// a stop racing with a tick must not start a new run
			if loopCtx.Err() != nil {
				return
			}
			s.fire(runCtx, task)
		}
	}
}

// fire starts one run of task without waiting for earlier runs.
func (s *Scheduler) fire(ctx context.Context, task Task) {
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.safeRun(ctx, task)
	}()
}

// safeRun calls task.Run with panic recovery. Panics are logged with a
// correlation ID and the full stack trace.
func (s *Scheduler) safeRun(ctx context.Context, task Task) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("scheduled task panicked",
				"task", task.Name,
				"correlation_id", uuid.NewString(),
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
		}
	}()
	task.Run(ctx)
}
