// Package engine describes the narrow, C-style surface of the embedded SQL
// engine the rest of the module is written against: open a connection,
// compile SQL into a statement handle, step it, bind parameters by position,
// read columns and finalize it.
//
// Every failing call returns an *Error carrying the engine's status code.
package engine

import "time"

// OpenFlag mirrors the SQLITE_OPEN_* flags understood by Driver.Open.
type OpenFlag int

const (
	OpenReadOnly  OpenFlag = 0x00000001
	OpenReadWrite OpenFlag = 0x00000002
	OpenCreate    OpenFlag = 0x00000004
	OpenURI       OpenFlag = 0x00000040
	OpenMemory    OpenFlag = 0x00000080
)

// CheckpointMode mirrors SQLITE_CHECKPOINT_*.
type CheckpointMode int

const (
	CheckpointPassive CheckpointMode = iota
	CheckpointFull
	CheckpointRestart
	CheckpointTruncate
)

func (m CheckpointMode) String() string {
	switch m {
	case CheckpointFull:
		return "FULL"
	case CheckpointRestart:
		return "RESTART"
	case CheckpointTruncate:
		return "TRUNCATE"
	}
	return "PASSIVE"
}

// ColumnType is the storage class of a column value in the current row.
type ColumnType int

const (
	Integer ColumnType = 1
	Float   ColumnType = 2
	Text    ColumnType = 3
	Blob    ColumnType = 4
	Null    ColumnType = 5
)

// Driver opens connections.
type Driver interface {
	Open(path string, flags OpenFlag) (Conn, error)
}

// Conn is an open native connection.
type Conn interface {
	// Prepare compiles the first statement of query.
	Prepare(query string) (Stmt, error)

	// Exec runs every statement of query, like sqlite3_exec.
	Exec(query string) error

	// Changes reports the rows modified by the most recent completed
	// INSERT, UPDATE or DELETE.
	Changes() (int, error)
	LastInsertRowID() (int64, error)

	SetBusyTimeout(d time.Duration) error

	// Interrupt aborts whatever the connection is stepping right now. It is
	// safe to call from any goroutine and a no-op when nothing is running.
	Interrupt()

	Checkpoint(dbName string, mode CheckpointMode) error

	// Quote renders s as an escaped SQL string literal, like %Q.
	Quote(s string) (string, error)

	// Close fails with CodeBusy while statements are still unfinalized; the
	// connection stays usable in that case.
	Close() error
}

// Stmt is a compiled statement handle. After Finalize every call fails with
// CodeMisuse.
type Stmt interface {
	// Step advances the statement. It reports true when a row is available
	// and false when the statement is done.
	Step() (bool, error)
	Reset() error
	Finalize() error

	// ExpandedSQL returns the statement text with bound parameters inlined.
	ExpandedSQL() string

	BindText(pos int, v string) error
	BindInt64(pos int, v int64) error
	BindFloat(pos int, v float64) error
	BindBlob(pos int, v []byte) error
	BindNull(pos int) error

	ColumnCount() int
	ColumnName(col int) string
	ColumnDeclType(col int) string
	ColumnType(col int) ColumnType
	ColumnText(col int) string
	ColumnInt64(col int) int64
	ColumnFloat(col int) float64
	ColumnBlob(col int) []byte
}
