package gocsp

import (
	"context"
	"math/rand/v2"
)

// Op describes one candidate operation for [Alts] and [TryAlts]. Build ops
// with [TakeOp] and [PutOp]; an Op is transient and must not be reused
// across calls.
type Op struct {
	ch      any
	attempt func(fl *flag, cb func(any, error)) (any, opStatus, error)
	tryNow  func() (any, bool, error)
	retract func(fl *flag)
}

// TakeOp makes a take on c a candidate operation.
func TakeOp[T any](c *Chan[T]) Op {
	return Op{
		ch: c,
		attempt: func(fl *flag, cb func(any, error)) (any, opStatus, error) {
			v, st, err := c.take(fl, true, func(v T, e error) { cb(v, e) })
			return v, st, err
		},
		tryNow: func() (any, bool, error) {
			v, ok, err := c.TryTake()
			return v, ok, err
		},
		retract: func(fl *flag) { c.retract(fl) },
	}
}

// PutOp makes a put of v on c a candidate operation.
func PutOp[T any](c *Chan[T], v T) Op {
	return Op{
		ch: c,
		attempt: func(fl *flag, cb func(any, error)) (any, opStatus, error) {
			st, err := c.put(v, fl, true, func(e error) { cb(nil, e) })
			return nil, st, err
		},
		tryNow: func() (any, bool, error) {
			ok, err := c.TryPut(v)
			return nil, ok, err
		},
		retract: func(fl *flag) { c.retract(fl) },
	}
}

// Result reports the outcome of an Alts call.
type Result struct {
	// Value is the value received by a completed take; nil for puts.
	Value any
	// Chan identifies the channel whose operation completed; compare it
	// against the *Chan[T] candidates with ==. Nil when no operation
	// completed (context expiry).
	Chan any
	// Err is ErrClosed or a PipelineError for the completed operation, or
	// the context error when the call expired.
	Err error
}

// Alts blocks until exactly one of the candidate operations completes and
// returns its outcome. Candidates that are simultaneously ready are chosen
// among uniformly at random. If none is ready the caller is registered on
// every candidate channel under one shared commit flag, so that exactly one
// registration fires and the rest become stale; no two channels ever
// observe a completed candidate for a single call. If ctx expires first,
// every registration is retracted and Result.Err is the context error.
func Alts(ctx context.Context, ops ...Op) Result {
	if len(ops) == 0 {
		panic("gocsp: Alts requires at least one operation")
	}
	fl := newFlag()
	res := make(chan Result, 1)

	var registered []Op
	finish := func(r Result) Result {
		for _, op := range registered {
			op.retract(fl)
		}
		return r
	}

	for _, idx := range rand.Perm(len(ops)) {
		op := ops[idx]
		cb := func(v any, err error) {
			res <- Result{Value: v, Chan: op.ch, Err: err}
		}
		v, st, err := op.attempt(fl, cb)
		switch st {
		case opDone:
			return finish(Result{Value: v, Chan: op.ch, Err: err})
		case opFired:
			// A registration on an earlier channel completed while this
			// one was being attempted; its callback delivers the result.
			return finish(<-res)
		case opParked:
			registered = append(registered, op)
		}
	}

	select {
	case r := <-res:
		return finish(r)
	case <-ctx.Done():
		if fl.tryCommit() {
			return finish(Result{Err: ctx.Err()})
		}
		return finish(<-res)
	}
}

// TryAlts attempts the candidate operations without suspending, choosing
// uniformly at random among the ready ones. It reports false if none could
// complete immediately.
func TryAlts(ops ...Op) (Result, bool) {
	for _, idx := range rand.Perm(len(ops)) {
		op := ops[idx]
		if v, ok, err := op.tryNow(); ok {
			return Result{Value: v, Chan: op.ch, Err: err}, true
		}
	}
	return Result{}, false
}
