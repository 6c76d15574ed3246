package gocsp

import "context"

// Pipe forwards values from one channel into another until the source
// closes or the destination rejects a value. The destination is closed
// afterwards.
func Pipe[T any](s *Scheduler, from, to *Chan[T]) {
	s.Go(func(ctx context.Context) {
		defer to.Close()
		for {
			v, err := from.Take(ctx)
			if err != nil {
				return
			}
			if err := to.Put(ctx, v); err != nil {
				return
			}
		}
	})
}
