package gocsp

// Option configures a channel created with [New].
type Option[T any] func(*config[T])

type config[T any] struct {
	stages []Stage[T]
}

func parseOptions[T any](opts []Option[T]) config[T] {
	var c config[T]
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithStages attaches a transform pipeline to the channel. Stages run in
// the given order on every value offered to the channel, before any taker
// observes it. The stages are owned by the channel; do not reuse them.
func WithStages[T any](stages ...Stage[T]) Option[T] {
	return func(c *config[T]) {
		c.stages = append(c.stages, stages...)
	}
}

// SchedulerOption configures a scheduler created with [NewScheduler].
type SchedulerOption func(*schedulerConfig)

type schedulerConfig struct {
	name    string
	logger  Logger
	recover bool
}

func parseSchedulerOptions(opts []SchedulerOption) schedulerConfig {
	c := schedulerConfig{name: "gocsp"}
	for _, opt := range opts {
		opt(&c)
	}
	if c.logger == nil {
		c.logger = logger
	}
	return c
}

// WithName sets the scheduler name included in log messages.
func WithName(name string) SchedulerOption {
	return func(c *schedulerConfig) {
		c.name = name
	}
}

// WithLogger overrides the default logger for the scheduler.
func WithLogger(l Logger) SchedulerOption {
	return func(c *schedulerConfig) {
		c.logger = l
	}
}

// WithRecover makes routines recover from panics instead of crashing the
// process. A recovered panic is logged at error level and ends the routine.
func WithRecover() SchedulerOption {
	return func(c *schedulerConfig) {
		c.recover = true
	}
}
