package gocsp

import "context"

// Broadcast sends every value from the input channel to each of n returned
// output channels, each with the given buffer capacity. Delivery to one
// output applies backpressure to the rest. All outputs are closed after the
// input closes.
func Broadcast[T any](s *Scheduler, n, buffer int, in *Chan[T]) []*Chan[T] {
	outs := make([]*Chan[T], n)
	for i := range outs {
		outs[i] = New[T](s, buffer)
	}

	s.Go(func(ctx context.Context) {
		defer func() {
			for _, out := range outs {
				out.Close()
			}
		}()
		for {
			v, err := in.Take(ctx)
			if err != nil {
				return
			}
			for _, out := range outs {
				if err := out.Put(ctx, v); err != nil && err != ErrClosed {
					return
				}
			}
		}
	})

	return outs
}
