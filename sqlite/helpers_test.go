package sqlite

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GintGld/sqlguard/internal/lib/utils/writer"
)

// invalidQuery and engineError stand in for the domain errors a caller maps
// engine failures to.
type invalidQuery struct{ msg string }

func (e *invalidQuery) Error() string { return e.msg }

type engineError struct{ msg string }

func (e *engineError) Error() string { return e.msg }

// customHandler formats "<msg> <context> (Code N)" and splits SQL errors
// from everything else.
func customHandler(code Code, msg, context string) error {
	final := msg
	if context != "" {
		final += " " + context
	}
	if code == CodeError {
		return &invalidQuery{msg: final}
	}
	return &engineError{msg: final + fmt.Sprintf(" (Code %d)", int(code))}
}

type reported struct {
	code    Code
	msg     string
	context string
}

// swallow records every failure and lets operations fall back.
func swallow(into *[]reported) ErrorHandler {
	return func(code Code, msg, context string) error {
		*into = append(*into, reported{code: code, msg: msg, context: context})
		return nil
	}
}

func openMemory(t *testing.T, opts ...Options) (*Conn, *writer.ByteWriter) {
	t.Helper()

	w := writer.New()
	if len(opts) == 0 {
		opts = []Options{{}}
	}
	if opts[0].LogHandler == nil {
		opts[0].LogHandler = NewTextLogHandler(w)
	}

	c := New(opts...)
	require.NoError(t, c.Open(":memory:"))

	return c, w
}

func mustExec(t *testing.T, c *Conn, query string) {
	t.Helper()

	_, err := c.ExecDML(query)
	require.NoError(t, err)
}
