package bootstrap

import (
	"time"

	"github.com/kbukum/wirekit/appcontext"
	"github.com/kbukum/wirekit/logger"
)

// Option configures the App during creation.
// Options are non-generic so they can be used with any config type.
type Option func(*appOptions)

type appOptions struct {
	logger          *logger.Logger
	gracefulTimeout *time.Duration
	definition      *appcontext.Definition
}

func resolveOptions(opts []Option) *appOptions {
	o := &appOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets a custom logger for the application.
// If not set, the logger is initialized from the config's Logging field.
func WithLogger(l *logger.Logger) Option {
	return func(o *appOptions) {
		o.logger = l
	}
}

// WithGracefulTimeout sets the maximum duration for graceful shutdown.
func WithGracefulTimeout(d time.Duration) Option {
	return func(o *appOptions) {
		o.gracefulTimeout = &d
	}
}

// WithRootDefinition pre-wires keys on the root context. The keys "config"
// and "logger" are reserved and always wired by the app.
func WithRootDefinition(def appcontext.Definition) Option {
	return func(o *appOptions) {
		o.definition = &def
	}
}
