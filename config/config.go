// Package config builds the zerolog logger shared by the clock updaters,
// mirroring go-seald-sdk's InitializeOptions/Initialize pattern. Nothing in
// this module needs it for correctness: advancing a chain is a pure
// function of (seed, lifetime, t), so logging is opt-in, never required.
package config

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// OwnerOptions configures the logger a clock owner attaches to its
// updaters via hashclock.WithLogger / pointclock.WithLogger.
type OwnerOptions struct {
	// LogLevel is the minimum level of logs to emit.
	LogLevel zerolog.Level
	// LogNoColor disables ANSI colors in the console output.
	LogNoColor bool
	// InstanceName is added to every log line, useful when more than one
	// clock owner runs in the same process.
	InstanceName string
	// LogWriter is the destination for log output. Defaults to os.Stdout.
	LogWriter io.Writer
}

// NewLogger builds a zerolog.Logger from the options, in the same
// ConsoleWriter-backed shape go-seald-sdk's Initialize builds its instance
// logger.
func (o OwnerOptions) NewLogger() zerolog.Logger {
	writer := o.LogWriter
	if writer == nil {
		writer = os.Stdout
	}

	logger := zerolog.New(zerolog.ConsoleWriter{Out: writer, TimeFormat: time.StampMilli, NoColor: o.LogNoColor}).
		With().Timestamp().Logger().Level(o.LogLevel)
	if o.InstanceName != "" {
		logger = logger.With().Str("instance", o.InstanceName).Logger()
	}
	return logger
}
