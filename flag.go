package gocsp

import (
	"sync"
	"sync/atomic"
)

var flagSeq atomic.Uint64

// flag guards a continuation so it is committed at most once. A bare put or
// take owns a private flag; an Alts call shares one flag across all of its
// registrations, which is what makes "fire one, retract the rest" atomic:
// whichever registration commits the flag first wins, and every other
// registration becomes stale and is swept from its waiter queue lazily.
type flag struct {
	id uint64

	mu     sync.Mutex
	active bool
}

func newFlag() *flag {
	return &flag{id: flagSeq.Add(1), active: true}
}

func (f *flag) isActive() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}

// tryCommit claims the flag, reporting whether the caller won. Exactly one
// tryCommit (or commitPair involving f) ever returns true.
func (f *flag) tryCommit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.active {
		return false
	}
	f.active = false
	return true
}

// commitPair claims both flags or neither. Pairing a putter with a taker
// must be atomic so that no third party can complete either side in
// between. Locks are taken in id order to avoid deadlock between two
// concurrent pairings. Both flags must be distinct.
func commitPair(a, b *flag) bool {
	first, second := a, b
	if second.id < first.id {
		first, second = second, first
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if !a.active || !b.active {
		return false
	}
	a.active = false
	b.active = false
	return true
}
