package gocsp

import "context"

// FromSlice creates a channel delivering the values of vals in order,
// closed after the last value.
func FromSlice[T any](s *Scheduler, vals []T) *Chan[T] {
	out := New[T](s, 0)
	s.Go(func(ctx context.Context) {
		defer out.Close()
		for _, v := range vals {
			if err := out.Put(ctx, v); err != nil {
				return
			}
		}
	})
	return out
}

// FromFunc creates a channel fed by repeated calls to next. The channel is
// closed when next reports false.
func FromFunc[T any](s *Scheduler, next func() (T, bool)) *Chan[T] {
	out := New[T](s, 0)
	s.Go(func(ctx context.Context) {
		defer out.Close()
		for {
			v, ok := next()
			if !ok {
				return
			}
			if err := out.Put(ctx, v); err != nil {
				return
			}
		}
	})
	return out
}
