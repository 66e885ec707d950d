package sqlite

import (
	"log/slog"
	"time"

	"github.com/GintGld/sqlguard/internal/engine"
	"github.com/GintGld/sqlguard/internal/engine/native"
)

// DefaultBusyTimeout is how long a connection waits on a locked database
// before reporting SQLITE_BUSY.
const DefaultBusyTimeout = 60 * time.Second

// Options configures a connection. All fields are optional.
type Options struct {
	// Driver opens native connections. Nil uses the built-in SQLite engine.
	Driver engine.Driver

	// BusyTimeout is applied on every successful Open.
	BusyTimeout time.Duration

	// Verbose enables logging of every executed statement.
	Verbose bool

	// ErrorHandler overrides the process-wide default error handler.
	ErrorHandler ErrorHandler

	// LogHandler overrides the process-wide default log handler.
	LogHandler LogHandler

	// Logger routes diagnostics to slog when LogHandler is nil.
	Logger *slog.Logger
}

func defaultOptions(opts ...Options) Options {
	d := defaults()

	options := Options{
		Driver:       native.New(nil),
		BusyTimeout:  DefaultBusyTimeout,
		ErrorHandler: d.onError,
		LogHandler:   d.onLog,
	}

	if len(opts) > 0 {
		userOpts := opts[0]

		if userOpts.Driver != nil {
			options.Driver = userOpts.Driver
		}
		if userOpts.BusyTimeout > 0 {
			options.BusyTimeout = userOpts.BusyTimeout
		}
		if userOpts.ErrorHandler != nil {
			options.ErrorHandler = userOpts.ErrorHandler
		}

		switch {
		case userOpts.LogHandler != nil:
			options.LogHandler = userOpts.LogHandler
		case userOpts.Logger != nil:
			options.LogHandler = SlogHandler(userOpts.Logger)
		}

		options.Verbose = userOpts.Verbose
		options.Logger = userOpts.Logger
	}

	return options
}
