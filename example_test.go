package gocsp_test

import (
	"context"
	"fmt"

	"github.com/fxsml/gocsp"
)

func Example() {
	s := gocsp.NewScheduler()
	defer s.Close()

	ch := gocsp.New[string](s, 0)
	s.Go(func(ctx context.Context) {
		ch.Put(ctx, "hello")
		ch.Close()
	})

	v, _ := ch.Take(context.Background())
	fmt.Println(v)
	// Output: hello
}

func ExampleAlts() {
	s := gocsp.NewScheduler()
	defer s.Close()

	a := gocsp.New[string](s, 1)
	b := gocsp.New[string](s, 1)
	b.TryPut("from b")

	res := gocsp.Alts(context.Background(), gocsp.TakeOp(a), gocsp.TakeOp(b))
	fmt.Println(res.Value, res.Chan == b)
	// Output: from b true
}

func ExampleMerge() {
	s := gocsp.NewScheduler()
	defer s.Close()

	clicks := gocsp.FromSlice(s, []string{"click", "click"})
	keys := gocsp.FromSlice(s, []string{"enter"})
	events := gocsp.Merge(s, clicks, keys)

	got, _ := gocsp.ToSlice(context.Background(), events)
	fmt.Println(len(got))
	// Output: 3
}

func ExampleWithStages() {
	s := gocsp.NewScheduler()
	defer s.Close()

	even := gocsp.New[int](s, 4, gocsp.WithStages(
		gocsp.Filter[int](func(v int) bool { return v%2 == 0 }),
	))
	for v := 1; v <= 4; v++ {
		even.TryPut(v)
	}
	even.Close()

	got, _ := gocsp.ToSlice(context.Background(), even)
	fmt.Println(got)
	// Output: [2 4]
}
