package gocsp

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Scheduler owns the dispatch queue that resumes suspended continuations.
// Continuations are executed one at a time by a single worker, in the order
// they were registered; routines spawned with [Scheduler.Go] run on their
// own goroutines and park at channel operations until the worker resumes
// them. Channels are bound to a scheduler at construction.
type Scheduler struct {
	name          string
	logger        Logger
	recoverPanics bool

	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	queue  []func()
	closed bool

	wake       chan struct{}
	workerDone chan struct{}

	wg sync.WaitGroup
}

// NewScheduler creates a scheduler and starts its dispatch worker.
// Call [Scheduler.Close] to release it.
func NewScheduler(opts ...SchedulerOption) *Scheduler {
	cfg := parseSchedulerOptions(opts)
	ctx, cancel := context.WithCancel(context.Background())
	s := &Scheduler{
		name:          cfg.name,
		logger:        cfg.logger,
		recoverPanics: cfg.recover,
		ctx:           ctx,
		cancel:        cancel,
		wake:          make(chan struct{}, 1),
		workerDone:    make(chan struct{}),
	}
	go s.run()
	return s
}

// Go spawns a routine. The routine's context is canceled when the scheduler
// closes; bodies should pass it to Put/Take/Alts so teardown unparks them.
func (s *Scheduler) Go(fn func(ctx context.Context)) {
	id := uuid.NewString()
	s.wg.Add(1)
	s.logger.Debug("GOCSP: Routine started", "scheduler", s.name, "routine", id)
	go func() {
		defer s.wg.Done()
		defer s.logger.Debug("GOCSP: Routine finished", "scheduler", s.name, "routine", id)
		if s.recoverPanics {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error("GOCSP: Routine panicked",
						"scheduler", s.name, "routine", id, "panic", r)
				}
			}()
		}
		fn(s.ctx)
	}()
}

// Wait blocks until every routine spawned with Go has finished, or until
// ctx expires.
func (s *Scheduler) Wait(ctx context.Context) error {
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

// Close cancels the routine context, drains the dispatch queue and stops
// the worker. It blocks until the worker has exited, so it must not be
// called from a dispatched continuation. Close is idempotent; it does not
// wait for routines — use [Scheduler.Wait] for that.
func (s *Scheduler) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		<-s.workerDone
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.cancel()
	select {
	case s.wake <- struct{}{}:
	default:
	}
	<-s.workerDone
	s.logger.Debug("GOCSP: Scheduler closed", "scheduler", s.name)
}

// dispatch registers a continuation for execution in FIFO order. After the
// scheduler has closed, continuations run on their own goroutine instead so
// wakeups are never lost during teardown.
func (s *Scheduler) dispatch(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		go fn()
		return
	}
	s.queue = append(s.queue, fn)
	s.mu.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) run() {
	defer close(s.workerDone)
	for {
		s.mu.Lock()
		for len(s.queue) > 0 {
			fn := s.queue[0]
			s.queue = s.queue[1:]
			s.mu.Unlock()
			fn()
			s.mu.Lock()
		}
		closed := s.closed
		s.mu.Unlock()
		if closed {
			return
		}
		<-s.wake
	}
}
