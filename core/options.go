package core

import (
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// options are shared by every core service.
type options struct {
	clock  clockwork.Clock
	logger zerolog.Logger
}

// Option configures a core service.
type Option func(*options)

// WithClock replaces the wall clock, which decides the current season.
func WithClock(c clockwork.Clock) Option {
	return func(o *options) { o.clock = c }
}

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

func buildOptions(opts []Option) options {
	o := options{clock: clockwork.NewRealClock(), logger: zerolog.Nop()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
