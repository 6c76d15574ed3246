// Package gocsp provides CSP-style coordination primitives: channels with
// cooperative blocking put/take, transform pipelines applied on entry,
// select-style multiplexing, and stream merging, driven by an explicit
// cooperative scheduler.
//
// # Quick Start
//
//	s := gocsp.NewScheduler()
//	defer s.Close()
//
//	ch := gocsp.New[int](s, 0)
//	s.Go(func(ctx context.Context) {
//		ch.Put(ctx, 42)
//	})
//	v, err := ch.Take(context.Background())
//
// # Categories
//
// Channels: [New], [Chan.Put], [Chan.Take], [Chan.Close], [Timeout]
//
// Pipelines: [Map], [Filter], [TakeWhile], [Dedupe], [Take], [Drop]
//
// Multiplexing: [Alts], [TryAlts], [TakeOp], [PutOp]
//
// Fan-in/fan-out: [Merge], [Broadcast], [Pipe]
//
// Sources: [FromSlice], [FromFunc]
//
// Sinks: [ToSlice], [Sink], [Drain]
//
// Every put and take is a suspension point: a routine spawned with
// [Scheduler.Go] parks there without consuming the host thread, and resumes
// when the operation completes. Channels are the only shared state between
// routines; all waiter bookkeeping is protected per channel.
package gocsp
