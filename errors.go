package gocsp

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed indicates an operation observed a closed channel.
	// It is an expected outcome callers must branch on, not a failure.
	ErrClosed = errors.New("gocsp: channel closed")
	// ErrPipeline indicates a pipeline stage failed while transforming a
	// value. The channel is closed and the triggering put reports the
	// failure wrapped in a [PipelineError].
	ErrPipeline = errors.New("gocsp: pipeline stage failed")
)

// PipelineError reports a stage failure during a put. It wraps the cause
// returned by the stage and matches [ErrPipeline] with errors.Is.
type PipelineError struct {
	cause error
}

func (e *PipelineError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s", ErrPipeline.Error(), e.cause.Error())
	}
	return ErrPipeline.Error()
}

func (e *PipelineError) Unwrap() error {
	return fmt.Errorf("%w: %w", ErrPipeline, e.cause)
}

// Cause returns the error reported by the failing stage.
func (e *PipelineError) Cause() error {
	return e.cause
}

func newPipelineError(err error) error {
	return &PipelineError{cause: err}
}
