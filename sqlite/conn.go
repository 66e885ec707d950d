// Package sqlite is a guarded layer over SQLite's prepared-statement API.
//
// A Conn compiles SQL into statements. Ad-hoc queries come back as a Query
// cursor that owns its statement; a Stmt is compiled once, bound and executed
// repeatedly, and hands out Query cursors that only borrow its statement.
//
// Every failed engine call goes through the connection's ErrorHandler, which
// decides what the caller sees. Misuse of the API (UsageError) and bad column
// references (InvalidArgumentError) are returned directly.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/GintGld/sqlguard/internal/engine"
	"github.com/GintGld/sqlguard/internal/engine/native"
	"github.com/GintGld/sqlguard/internal/lib/utils/pointers"
)

type (
	OpenFlag       = engine.OpenFlag
	CheckpointMode = engine.CheckpointMode
	ColumnType     = engine.ColumnType
)

const (
	OpenReadOnly  = engine.OpenReadOnly
	OpenReadWrite = engine.OpenReadWrite
	OpenCreate    = engine.OpenCreate
	OpenURI       = engine.OpenURI
	OpenMemory    = engine.OpenMemory

	CheckpointPassive  = engine.CheckpointPassive
	CheckpointFull     = engine.CheckpointFull
	CheckpointRestart  = engine.CheckpointRestart
	CheckpointTruncate = engine.CheckpointTruncate

	Integer = engine.Integer
	Float   = engine.Float
	Text    = engine.Text
	Blob    = engine.Blob
	Null    = engine.Null
)

// Contexts passed to the error handler.
const (
	ctxClose          = "when closing connection"
	ctxExecDMLQuery   = "when executing DML query"
	ctxCompile        = "when compiling statement"
	ctxEvalQuery      = "when evaluating query"
	ctxCheckpoint     = "when performing checkpoint"
	ctxBusyTimeout    = "when setting busy timeout"
	ctxLastRowID      = "when getting last row id"
	ctxNextRow        = "when getting next row"
	ctxQueryFinalize  = "during finalize"
	ctxExecDMLStmt    = "when executing DML statement"
	ctxRowsChanged    = "when getting number of rows changed"
	ctxReset          = "when reseting statement"
	ctxStmtFinalize   = "when finalizing statement"
	ctxBindString     = "when binding string param"
	ctxBindInt        = "when binding int param"
	ctxBindInt64      = "when binding int64 param"
	ctxBindDouble     = "when binding double param"
	ctxBindBlob       = "when binding blob param"
	ctxBindNull       = "when binding NULL param"
	ctxOpenPathPrefix = "when opening "
)

const tableExistsQuery = "select count(*) from sqlite_master where type='table' and name="

// Conn is a single SQLite connection. It is not safe for concurrent use,
// except for Interrupt.
type Conn struct {
	driver      engine.Driver
	policy      Policy
	busyTimeout time.Duration
}

// New returns a closed connection.
func New(opts ...Options) *Conn {
	opt := defaultOptions(opts...)

	return &Conn{
		driver: opt.Driver,
		policy: Policy{
			onError: opt.ErrorHandler,
			onLog:   opt.LogHandler,
			verbose: opt.Verbose,
		},
		busyTimeout: opt.BusyTimeout,
	}
}

// Open opens the database at path. Without flags it opens read-write and
// creates the file if needed.
func (c *Conn) Open(path string, flags ...OpenFlag) error {
	if c.policy.conn != nil {
		return ErrNotClosed
	}

	f := OpenReadWrite | OpenCreate
	if len(flags) > 0 {
		f = 0
		for _, flag := range flags {
			f |= flag
		}
	}

	conn, err := c.driver.Open(path, f)
	if err != nil {
		return c.policy.report(err, ctxOpenPathPrefix+path)
	}
	c.policy.conn = conn

	if err := c.SetBusyTimeout(c.busyTimeout); err != nil {
		// a half-configured connection is not handed out
		conn.Close()
		c.policy.conn = nil
		return err
	}

	return nil
}

// Close closes the connection. It fails while statements compiled on it are
// still alive, and the connection stays open in that case.
func (c *Conn) Close() error {
	if c.policy.conn == nil {
		return nil
	}

	if err := c.policy.conn.Close(); err != nil {
		return c.policy.report(err, ctxClose)
	}
	c.policy.conn = nil

	return nil
}

// Release closes the connection and logs any failure instead of returning
// it. It is meant for defer.
func (c *Conn) Release() {
	defer func() {
		if r := recover(); r != nil {
			c.policy.log(LevelError, fmt.Sprintf("error during Conn.Release: %v", r))
		}
	}()

	if err := c.Close(); err != nil {
		c.policy.log(LevelError, "error during Conn.Release: "+err.Error())
	}
}

func (c *Conn) IsOpened() bool {
	return c.policy.conn != nil
}

// ExecDML runs every statement in query and returns the number of rows
// changed by the last one.
func (c *Conn) ExecDML(query string) (int, error) {
	return c.ExecDMLContext(context.Background(), query)
}

// ExecDMLContext is ExecDML that interrupts the engine once ctx is done.
func (c *Conn) ExecDMLContext(ctx context.Context, query string) (int, error) {
	if c.policy.conn == nil {
		return 0, ErrNotOpen
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c.policy.log(LevelVerbose, query)

	stop := context.AfterFunc(ctx, c.policy.conn.Interrupt)
	defer stop()

	if err := c.policy.conn.Exec(query); err != nil {
		return 0, c.policy.report(err, ctxExecDMLQuery)
	}

	n, err := c.policy.conn.Changes()
	if err != nil {
		return 0, c.policy.report(err, ctxExecDMLQuery)
	}

	return n, nil
}

// ExecQuery compiles query and steps it once. The returned cursor owns the
// statement.
func (c *Conn) ExecQuery(query string) (*Query, error) {
	return c.ExecQueryContext(context.Background(), query)
}

// ExecQueryContext is ExecQuery that interrupts the first step once ctx is
// done.
func (c *Conn) ExecQueryContext(ctx context.Context, query string) (*Query, error) {
	if c.policy.conn == nil {
		return nil, ErrNotOpen
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cell, err := c.compile(query)
	if err != nil {
		return nil, err
	}
	if cell.empty() {
		return &Query{policy: c.policy}, nil
	}

	c.policy.log(LevelVerbose, query)

	stop := context.AfterFunc(ctx, c.policy.conn.Interrupt)
	defer stop()

	row, err := cell.stmt.Step()
	if err != nil {
		cell.release()
		if rerr := c.policy.report(err, ctxEvalQuery); rerr != nil {
			return nil, rerr
		}
		return &Query{policy: c.policy}, nil
	}

	return newQuery(c.policy, cell, !row, true), nil
}

// ExecScalar returns the first column of the first row of query as an
// integer. Non-numeric text parses as far as it can and NULL is 0.
func (c *Conn) ExecScalar(query string) (int, error) {
	q, err := c.ExecQuery(query)
	if err != nil {
		return 0, err
	}
	defer q.Release()

	eof, err := q.EOF()
	if err != nil || eof || q.numFields < 1 {
		return 0, ErrInvalidScalar
	}

	v, err := q.FieldValue(0)
	if err != nil {
		return 0, err
	}

	return int(engine.Atoi(pointers.Value(v, ""))), nil
}

// TableExists reports whether the main schema has a table called name.
func (c *Conn) TableExists(name string) (bool, error) {
	if c.policy.conn == nil {
		return false, ErrNotOpen
	}

	quoted, err := c.policy.conn.Quote(name)
	if err != nil {
		if rerr := c.policy.report(err, ctxCompile); rerr != nil {
			return false, rerr
		}
		return false, ErrInvalidScalar
	}

	n, err := c.ExecScalar(tableExistsQuery + quoted)
	if err != nil {
		return false, err
	}

	return n > 0, nil
}

// CompileStatement compiles the first statement of query for repeated use.
func (c *Conn) CompileStatement(query string) (*Stmt, error) {
	if c.policy.conn == nil {
		return nil, ErrNotOpen
	}

	cell, err := c.compile(query)
	if err != nil {
		return nil, err
	}

	return &Stmt{policy: c.policy, cell: cell}, nil
}

// compile returns an empty cell when the error handler swallowed the failure.
func (c *Conn) compile(query string) (*cell, error) {
	s, err := c.policy.conn.Prepare(query)
	if err != nil {
		return &cell{}, c.policy.report(err, ctxCompile)
	}
	return &cell{stmt: s}, nil
}

func (c *Conn) LastRowID() (int64, error) {
	if c.policy.conn == nil {
		return 0, ErrNotOpen
	}

	id, err := c.policy.conn.LastInsertRowID()
	if err != nil {
		return 0, c.policy.report(err, ctxLastRowID)
	}

	return id, nil
}

// Interrupt aborts whatever the connection is running. It may be called from
// any goroutine.
func (c *Conn) Interrupt() {
	if conn := c.policy.conn; conn != nil {
		conn.Interrupt()
	}
}

// SetBusyTimeout sets how long the connection waits on locks. The value is
// kept for later opens when the connection is closed.
func (c *Conn) SetBusyTimeout(d time.Duration) error {
	c.busyTimeout = d

	if c.policy.conn == nil {
		return nil
	}
	if err := c.policy.conn.SetBusyTimeout(d); err != nil {
		return c.policy.report(err, ctxBusyTimeout)
	}

	return nil
}

func (c *Conn) BusyTimeout() time.Duration {
	return c.busyTimeout
}

// SetErrorHandler replaces the error handler for this connection and for
// statements and queries created from now on. Nil restores the default.
func (c *Conn) SetErrorHandler(h ErrorHandler) {
	if h == nil {
		h = defaults().onError
	}
	c.policy.onError = h
}

// SetLogHandler replaces the log handler the same way SetErrorHandler does.
func (c *Conn) SetLogHandler(h LogHandler) {
	if h == nil {
		h = defaults().onLog
	}
	c.policy.onLog = h
}

func (c *Conn) EnableVerboseLogging(enable bool) {
	c.policy.verbose = enable
}

// PerformCheckpoint checkpoints the write-ahead log of dbName, or of every
// attached database when dbName is empty.
func (c *Conn) PerformCheckpoint(dbName string, mode CheckpointMode) error {
	if c.policy.conn == nil {
		return ErrNotOpen
	}

	if err := c.policy.conn.Checkpoint(dbName, mode); err != nil {
		return c.policy.report(err, ctxCheckpoint)
	}

	return nil
}

// SQLiteVersion returns the version of the linked SQLite library.
func SQLiteVersion() string {
	return native.Version()
}
