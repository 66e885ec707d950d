package sqlite

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
	"unicode/utf8"

	"github.com/GintGld/sqlguard/internal/engine"
)

// LogLevel is the severity of a diagnostic message.
type LogLevel int

const (
	LevelVerbose LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
)

func (l LogLevel) String() string {
	switch l {
	case LevelVerbose:
		return "Verbose"
	case LevelInfo:
		return "Info"
	case LevelWarning:
		return "Warning"
	case LevelError:
		return "Error"
	}
	return fmt.Sprintf("LogLevel(%d)", int(l))
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case LevelVerbose:
		return slog.LevelDebug
	case LevelWarning:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	}
	return slog.LevelInfo
}

// ErrorHandler decides how a failed engine call surfaces. The returned error
// is handed to the caller as is. Returning nil swallows the failure and the
// operation continues with its documented fallback value.
type ErrorHandler func(code Code, msg, context string) error

// LogHandler receives diagnostic messages, already clamped to
// MaxLogMessageLen bytes.
type LogHandler func(level LogLevel, msg string)

// MaxLogMessageLen bounds the size of a message handed to a LogHandler.
const MaxLogMessageLen = 256

// DefaultErrorHandler returns a *Failure with the message formatted as
// "<SYMBOLIC_CODE>[<code>]: <msg>". The context is not part of it.
func DefaultErrorHandler(code Code, msg, _ string) error {
	return newFailure(code, msg)
}

// NewTextLogHandler writes every message to w as "[sqlguard][<Level>]: <msg>".
func NewTextLogHandler(w io.Writer) LogHandler {
	return func(level LogLevel, msg string) {
		fmt.Fprintf(w, "[sqlguard][%s]: %s\n", level, msg)
	}
}

// SlogHandler forwards messages to log. Verbose maps to debug.
func SlogHandler(log *slog.Logger) LogHandler {
	return func(level LogLevel, msg string) {
		log.Log(context.Background(), level.slogLevel(), msg)
	}
}

type handlers struct {
	onError ErrorHandler
	onLog   LogHandler
}

var defaultHandlers atomic.Pointer[handlers]

func init() {
	ResetDefaults()
}

func defaults() handlers {
	return *defaultHandlers.Load()
}

// SetDefaultErrorHandler changes the error handler new connections start
// with. Calling restore puts the previous one back.
func SetDefaultErrorHandler(h ErrorHandler) (restore func()) {
	if h == nil {
		h = DefaultErrorHandler
	}

	prev := defaultHandlers.Load()
	next := *prev
	next.onError = h
	defaultHandlers.Store(&next)

	return func() { defaultHandlers.Store(prev) }
}

// SetDefaultLogHandler changes the log handler new connections start with.
// Calling restore puts the previous one back.
func SetDefaultLogHandler(h LogHandler) (restore func()) {
	if h == nil {
		h = NewTextLogHandler(os.Stdout)
	}

	prev := defaultHandlers.Load()
	next := *prev
	next.onLog = h
	defaultHandlers.Store(&next)

	return func() { defaultHandlers.Store(prev) }
}

// ResetDefaults reinstalls the built-in handlers.
func ResetDefaults() {
	defaultHandlers.Store(&handlers{
		onError: DefaultErrorHandler,
		onLog:   NewTextLogHandler(os.Stdout),
	})
}

// Policy is the error and log configuration shared by value between a
// connection and every statement and query created from it.
type Policy struct {
	conn    engine.Conn
	onError ErrorHandler
	onLog   LogHandler
	verbose bool
}

func newPolicy() Policy {
	d := defaults()
	return Policy{onError: d.onError, onLog: d.onLog}
}

// report hands a failed engine call to the error handler.
func (p Policy) report(err error, context string) error {
	code, msg := engine.Split(err)
	return p.onError(code, msg, context)
}

func (p Policy) log(level LogLevel, msg string) {
	if level == LevelVerbose && !p.verbose {
		return
	}
	p.onLog(level, clamp(msg))
}

func clamp(msg string) string {
	if len(msg) <= MaxLogMessageLen {
		return msg
	}

	n := MaxLogMessageLen
	for n > 0 && !utf8.RuneStart(msg[n]) {
		n--
	}
	return msg[:n]
}
