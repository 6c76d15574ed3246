package gocsp

import (
	"context"
	"sync"
	"sync/atomic"
)

type opStatus uint8

const (
	// opDone means the operation completed synchronously and the caller's
	// flag was committed.
	opDone opStatus = iota
	// opParked means the operation registered a waiter; the callback fires
	// when a counterpart arrives or the channel closes.
	opParked
	// opFired means the caller's flag was already committed through another
	// registration; nothing was done.
	opFired
)

// taker is a parked take continuation.
type taker[T any] struct {
	fl    *flag
	fired atomic.Bool
	cb    func(T, error)
}

func (t *taker[T]) resume(s *Scheduler, v T, err error) {
	if t.fired.Swap(true) {
		panic("gocsp: continuation resumed twice")
	}
	s.dispatch(func() { t.cb(v, err) })
}

// putter is a parked put continuation. Its value has not yet passed the
// transform pipeline; stages run when the value actually enters the buffer.
type putter[T any] struct {
	fl    *flag
	fired atomic.Bool
	val   T
	cb    func(error)
}

func (p *putter[T]) resume(s *Scheduler, err error) {
	if p.fired.Swap(true) {
		panic("gocsp: continuation resumed twice")
	}
	s.dispatch(func() { p.cb(err) })
}

// Chan is a capacity-bounded conduit for handing values between routines.
// Capacity 0 makes it a rendezvous channel: a put completes only when a
// matching take is present, and vice versa. Pending putters and takers are
// served in strict FIFO order. All methods are safe for concurrent use.
type Chan[T any] struct {
	sched  *Scheduler
	stages []Stage[T]

	mu      sync.Mutex
	buf     *ring[T] // nil for rendezvous channels
	takers  []*taker[T]
	putters []*putter[T]
	closed  bool
}

// New creates an open channel with the given capacity, bound to s for
// continuation dispatch. A transform pipeline ([WithStages]) requires
// capacity of at least 1: values on a rendezvous channel are handed
// directly between routines and never enter a buffer.
func New[T any](s *Scheduler, capacity int, opts ...Option[T]) *Chan[T] {
	if s == nil {
		panic("gocsp: nil scheduler")
	}
	if capacity < 0 {
		panic("gocsp: negative capacity")
	}
	cfg := parseOptions(opts)
	if capacity == 0 && len(cfg.stages) > 0 {
		panic("gocsp: transform pipeline requires capacity > 0")
	}
	c := &Chan[T]{sched: s, stages: cfg.stages}
	if capacity > 0 {
		c.buf = newRing[T](capacity)
	}
	return c
}

// Cap returns the channel's buffer capacity.
func (c *Chan[T]) Cap() int {
	if c.buf == nil {
		return 0
	}
	return len(c.buf.items)
}

// Len returns the number of buffered values.
func (c *Chan[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buf == nil {
		return 0
	}
	return c.buf.len()
}

// Put delivers v to the channel, suspending the calling routine while the
// buffer is full (or, on a rendezvous channel, until a taker arrives).
// It returns ErrClosed if the channel is closed, a PipelineError if a
// pipeline stage failed, or the context error if ctx expired first. A put
// retracted by ctx leaves no waiter entry behind.
func (c *Chan[T]) Put(ctx context.Context, v T) error {
	fl := newFlag()
	res := make(chan error, 1)
	st, err := c.put(v, fl, true, func(e error) { res <- e })
	if st == opDone {
		return err
	}
	select {
	case e := <-res:
		return e
	case <-ctx.Done():
		if fl.tryCommit() {
			c.retract(fl)
			return ctx.Err()
		}
		// Lost the race: the put completed while ctx was expiring.
		return <-res
	}
}

// TryPut attempts a put without suspending. It reports whether the
// operation completed; a closed channel counts as completed with ErrClosed.
func (c *Chan[T]) TryPut(v T) (bool, error) {
	st, err := c.put(v, newFlag(), false, nil)
	return st == opDone, err
}

// PutAsync delivers v and invokes cb with the outcome on the scheduler's
// dispatch queue, in registration order relative to other continuations.
// cb must not block; use [Scheduler.Go] with [Chan.Put] for blocking logic.
func (c *Chan[T]) PutAsync(v T, cb func(error)) {
	st, err := c.put(v, newFlag(), true, cb)
	if st == opDone {
		c.sched.dispatch(func() { cb(err) })
	}
}

// Take returns the next value, suspending the calling routine while the
// channel is empty. Once the channel is closed and drained it returns
// ErrClosed without suspending. A take retracted by ctx leaves no waiter
// entry behind.
func (c *Chan[T]) Take(ctx context.Context) (T, error) {
	type outcome struct {
		v   T
		err error
	}
	fl := newFlag()
	res := make(chan outcome, 1)
	v, st, err := c.take(fl, true, func(v T, e error) { res <- outcome{v, e} })
	if st == opDone {
		return v, err
	}
	select {
	case out := <-res:
		return out.v, out.err
	case <-ctx.Done():
		if fl.tryCommit() {
			c.retract(fl)
			var zero T
			return zero, ctx.Err()
		}
		out := <-res
		return out.v, out.err
	}
}

// TryTake attempts a take without suspending. It reports whether the
// operation completed; observing a closed, drained channel counts as
// completed with ErrClosed.
func (c *Chan[T]) TryTake() (T, bool, error) {
	v, st, err := c.take(newFlag(), false, nil)
	return v, st == opDone, err
}

// TakeAsync invokes cb with the next value (or ErrClosed) on the
// scheduler's dispatch queue, in registration order relative to other
// continuations. cb must not block.
func (c *Chan[T]) TakeAsync(cb func(T, error)) {
	v, st, err := c.take(newFlag(), true, cb)
	if st == opDone {
		c.sched.dispatch(func() { cb(v, err) })
	}
}

// Close closes the channel. Pending putters fail with ErrClosed; pending
// takers receive ErrClosed since a channel with waiting takers holds no
// buffered values. Already-buffered values remain takeable. Close is
// idempotent.
func (c *Chan[T]) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

// put attempts to complete a put for the continuation guarded by fl.
// If block is false the operation never parks.
func (c *Chan[T]) put(v T, fl *flag, block bool, cb func(error)) (opStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		if !fl.tryCommit() {
			return opFired, nil
		}
		return opDone, ErrClosed
	}

	if c.buf != nil && !c.buf.full() {
		if !fl.tryCommit() {
			return opFired, nil
		}
		out, deliver, halt, err := applyStages(c.stages, v)
		if err != nil {
			c.closeLocked()
			return opDone, newPipelineError(err)
		}
		if deliver {
			c.buf.push(out)
		}
		c.serveTakersLocked()
		if halt {
			c.closeLocked()
		}
		return opDone, nil
	}

	if c.buf == nil {
		// Rendezvous: hand v directly to the oldest active taker.
		for i := 0; i < len(c.takers); {
			t := c.takers[i]
			if t.fl == fl {
				// A take candidate of the same Alts call; it cannot
				// pair with its own put.
				i++
				continue
			}
			if commitPair(fl, t.fl) {
				c.takers = append(c.takers[:i], c.takers[i+1:]...)
				t.resume(c.sched, v, nil)
				return opDone, nil
			}
			if !fl.isActive() {
				return opFired, nil
			}
			// Stale registration, sweep it.
			c.takers = append(c.takers[:i], c.takers[i+1:]...)
		}
	}

	if !block {
		return opParked, nil
	}
	c.putters = append(c.putters, &putter[T]{fl: fl, val: v, cb: cb})
	return opParked, nil
}

// take attempts to complete a take for the continuation guarded by fl.
// If block is false the operation never parks.
func (c *Chan[T]) take(fl *flag, block bool, cb func(T, error)) (T, opStatus, error) {
	var zero T
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.buf != nil && c.buf.len() > 0 {
		if !fl.tryCommit() {
			return zero, opFired, nil
		}
		v := c.buf.pop()
		c.fillFromPuttersLocked()
		return v, opDone, nil
	}

	if c.buf == nil {
		// Rendezvous: pair with the oldest active putter.
		for i := 0; i < len(c.putters); {
			p := c.putters[i]
			if p.fl == fl {
				i++
				continue
			}
			if commitPair(fl, p.fl) {
				c.putters = append(c.putters[:i], c.putters[i+1:]...)
				p.resume(c.sched, nil)
				return p.val, opDone, nil
			}
			if !fl.isActive() {
				return zero, opFired, nil
			}
			c.putters = append(c.putters[:i], c.putters[i+1:]...)
		}
	}

	if c.closed {
		if !fl.tryCommit() {
			return zero, opFired, nil
		}
		return zero, opDone, ErrClosed
	}

	if !block {
		return zero, opParked, nil
	}
	c.takers = append(c.takers, &taker[T]{fl: fl, cb: cb})
	return zero, opParked, nil
}

// serveTakersLocked hands buffered values to waiting takers in FIFO order.
func (c *Chan[T]) serveTakersLocked() {
	for len(c.takers) > 0 && c.buf.len() > 0 {
		t := c.takers[0]
		c.takers = c.takers[1:]
		if !t.fl.tryCommit() {
			continue
		}
		t.resume(c.sched, c.buf.pop(), nil)
		c.fillFromPuttersLocked()
	}
}

// fillFromPuttersLocked releases parked putters into freed buffer slots.
// Stages run here, at the moment a parked value actually enters the buffer;
// a suppressed value frees the putter without consuming the slot, so the
// next putter in line is tried.
func (c *Chan[T]) fillFromPuttersLocked() {
	for !c.closed && c.buf != nil && !c.buf.full() && len(c.putters) > 0 {
		p := c.putters[0]
		c.putters = c.putters[1:]
		if !p.fl.tryCommit() {
			continue
		}
		out, deliver, halt, err := applyStages(c.stages, p.val)
		if err != nil {
			p.resume(c.sched, newPipelineError(err))
			c.closeLocked()
			return
		}
		if deliver {
			c.buf.push(out)
		}
		p.resume(c.sched, nil)
		if halt {
			c.closeLocked()
			return
		}
	}
}

func (c *Chan[T]) closeLocked() {
	if c.closed {
		return
	}
	c.closed = true
	for _, p := range c.putters {
		if p.fl.tryCommit() {
			p.resume(c.sched, ErrClosed)
		}
	}
	c.putters = nil
	for _, t := range c.takers {
		if t.fl.tryCommit() {
			var zero T
			t.resume(c.sched, zero, ErrClosed)
		}
	}
	c.takers = nil
}

// retract removes waiter entries registered under fl. Called after a
// deadline or cancellation committed fl, so no stale entries linger.
func (c *Chan[T]) retract(fl *flag) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.takers = sweepTakers(c.takers, fl)
	c.putters = sweepPutters(c.putters, fl)
}

func sweepTakers[T any](ts []*taker[T], fl *flag) []*taker[T] {
	kept := ts[:0]
	for _, t := range ts {
		if t.fl != fl {
			kept = append(kept, t)
		}
	}
	return kept
}

func sweepPutters[T any](ps []*putter[T], fl *flag) []*putter[T] {
	kept := ps[:0]
	for _, p := range ps {
		if p.fl != fl {
			kept = append(kept, p)
		}
	}
	return kept
}
