package gocsp

import "time"

// Timeout returns a channel that closes after d. Takes on it report
// ErrClosed once the deadline has passed, which makes it a natural
// deadline candidate for [Alts].
func Timeout(s *Scheduler, d time.Duration) *Chan[struct{}] {
	c := New[struct{}](s, 0)
	time.AfterFunc(d, c.Close)
	return c
}
