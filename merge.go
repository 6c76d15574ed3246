package gocsp

import (
	"context"
	"sync"
)

// Merge combines multiple source channels into a single output channel.
// One forwarding routine per source takes values and puts them to the
// output, so each source's order is preserved; no order is imposed across
// sources. The output is closed only after every source has closed and
// been drained.
func Merge[T any](s *Scheduler, ins ...*Chan[T]) *Chan[T] {
	out := New[T](s, 0)
	var wg sync.WaitGroup
	wg.Add(len(ins))

	for _, in := range ins {
		s.Go(func(ctx context.Context) {
			defer wg.Done()
			for {
				v, err := in.Take(ctx)
				if err != nil {
					return
				}
				if err := out.Put(ctx, v); err != nil {
					return
				}
			}
		})
	}

	s.Go(func(ctx context.Context) {
		wg.Wait()
		out.Close()
	})

	return out
}
