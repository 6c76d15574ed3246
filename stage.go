package gocsp

type stageAction uint8

const (
	stagePass stageAction = iota
	// stageSkip suppresses the value. The put still succeeds; no buffer
	// slot is consumed and no taker is woken.
	stageSkip
	// stageHalt suppresses the value and closes the channel.
	stageHalt
	// stagePassClose delivers the value, then closes the channel.
	stagePassClose
)

// Stage is one step of a channel's transform pipeline. Stages are applied in
// declaration order to every value offered to the channel, inside put,
// before any taker is notified. A stage may carry per-channel state
// ([Dedupe], [Take], [Drop]); do not share a Stage value between channels.
type Stage[T any] struct {
	apply func(T) (T, stageAction, error)
}

// Map transforms each value entering the channel. An error from handle is
// fatal for the channel: it closes and the triggering put reports a
// [PipelineError].
func Map[T any](handle func(T) (T, error)) Stage[T] {
	return Stage[T]{apply: func(v T) (T, stageAction, error) {
		out, err := handle(v)
		if err != nil {
			return out, stageHalt, err
		}
		return out, stagePass, nil
	}}
}

// Filter suppresses values for which handle returns false.
func Filter[T any](handle func(T) bool) Stage[T] {
	return Stage[T]{apply: func(v T) (T, stageAction, error) {
		if !handle(v) {
			return v, stageSkip, nil
		}
		return v, stagePass, nil
	}}
}

// TakeWhile passes values while handle returns true. The first failing
// value is suppressed and the channel closes for future puts.
func TakeWhile[T any](handle func(T) bool) Stage[T] {
	done := false
	return Stage[T]{apply: func(v T) (T, stageAction, error) {
		if done || !handle(v) {
			done = true
			return v, stageHalt, nil
		}
		return v, stagePass, nil
	}}
}

// Dedupe suppresses consecutive duplicate values.
func Dedupe[T comparable]() Stage[T] {
	var prev T
	first := true
	return Stage[T]{apply: func(v T) (T, stageAction, error) {
		if !first && v == prev {
			return v, stageSkip, nil
		}
		first = false
		prev = v
		return v, stagePass, nil
	}}
}

// Take passes the first n values, closing the channel after the nth is
// delivered.
func Take[T any](n int) Stage[T] {
	seen := 0
	return Stage[T]{apply: func(v T) (T, stageAction, error) {
		if seen >= n {
			return v, stageHalt, nil
		}
		seen++
		if seen == n {
			return v, stagePassClose, nil
		}
		return v, stagePass, nil
	}}
}

// Drop suppresses the first n values.
func Drop[T any](n int) Stage[T] {
	seen := 0
	return Stage[T]{apply: func(v T) (T, stageAction, error) {
		if seen < n {
			seen++
			return v, stageSkip, nil
		}
		return v, stagePass, nil
	}}
}

// applyStages runs v through the pipeline. deliver reports whether the value
// reaches the buffer; halt reports whether the channel must close. An error
// implies halt and no delivery.
func applyStages[T any](stages []Stage[T], v T) (out T, deliver, halt bool, err error) {
	out = v
	for _, s := range stages {
		var action stageAction
		out, action, err = s.apply(out)
		if err != nil {
			return out, false, true, err
		}
		switch action {
		case stageSkip:
			return out, false, false, nil
		case stageHalt:
			return out, false, true, nil
		case stagePassClose:
			halt = true
		}
	}
	return out, true, halt, nil
}
