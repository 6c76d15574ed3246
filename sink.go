package gocsp

import "context"

// Sink consumes every value from in with handle, in the order taken. The
// returned channel closes once in has closed and been drained.
func Sink[T any](s *Scheduler, in *Chan[T], handle func(T)) *Chan[struct{}] {
	done := New[struct{}](s, 0)
	s.Go(func(ctx context.Context) {
		defer done.Close()
		for {
			v, err := in.Take(ctx)
			if err != nil {
				return
			}
			handle(v)
		}
	})
	return done
}

// ToSlice takes values from c until it closes and returns them in order.
// If ctx expires first, the values collected so far are returned with the
// context error.
func ToSlice[T any](ctx context.Context, c *Chan[T]) ([]T, error) {
	var out []T
	for {
		v, err := c.Take(ctx)
		if err == ErrClosed {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, v)
	}
}

// Drain discards values from in until it closes, keeping upstream putters
// unblocked.
func Drain[T any](s *Scheduler, in *Chan[T]) {
	s.Go(func(ctx context.Context) {
		for {
			if _, err := in.Take(ctx); err != nil {
				return
			}
		}
	})
}
