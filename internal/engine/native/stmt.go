package native

import (
	"modernc.org/libc"
	lib "modernc.org/sqlite/lib"

	"github.com/GintGld/sqlguard/internal/engine"
)

// stmt is a sqlite3_stmt. Parameters are bound straight into SQLite, which
// also decides whether a bind is allowed: out of range positions report
// SQLITE_RANGE and binding a stepped statement that was not reset reports
// SQLITE_MISUSE.
type stmt struct {
	conn *conn
	raw  uintptr

	finalized bool
	hasRow    bool
}

func (s *stmt) Step() (bool, error) {
	if s.finalized {
		return false, engine.NewError(engine.CodeMisuse)
	}
	if s.raw == 0 {
		// the query held only whitespace or comments
		return false, nil
	}
	tls := s.conn.tls

	if !s.conn.alloc.Alloc(1) {
		s.hasRow = false
		lib.Xsqlite3_reset(tls, s.raw)
		return false, engine.ErrNoMem
	}

	switch res := lib.Xsqlite3_step(tls, s.raw); res {
	case lib.SQLITE_ROW:
		s.hasRow = true
		return true, nil
	case lib.SQLITE_DONE:
		s.hasRow = false
		return false, nil
	default:
		s.hasRow = false
		err := s.conn.failure(res)
		// A failed statement has to be reset before it can run again.
		lib.Xsqlite3_reset(tls, s.raw)
		return false, err
	}
}

func (s *stmt) Reset() error {
	if s.finalized {
		return engine.NewError(engine.CodeMisuse)
	}

	s.hasRow = false
	if res := lib.Xsqlite3_reset(s.conn.tls, s.raw); res != lib.SQLITE_OK {
		return s.conn.failure(res)
	}
	return nil
}

func (s *stmt) Finalize() error {
	if s.finalized {
		return engine.NewError(engine.CodeMisuse)
	}
	s.finalized = true
	s.hasRow = false

	if res := lib.Xsqlite3_finalize(s.conn.tls, s.raw); res != lib.SQLITE_OK {
		return s.conn.failure(res)
	}
	return nil
}

// ExpandedSQL returns sqlite3_expanded_sql, or "" when SQLite could not
// allocate it.
func (s *stmt) ExpandedSQL() string {
	if s.finalized {
		return ""
	}

	p := lib.Xsqlite3_expanded_sql(s.conn.tls, s.raw)
	if p == 0 {
		return ""
	}
	defer lib.Xsqlite3_free(s.conn.tls, p)

	return libc.GoString(p)
}

func (s *stmt) bound(res int32) error {
	if res != lib.SQLITE_OK {
		return s.conn.failure(res)
	}
	return nil
}

func (s *stmt) BindText(pos int, v string) error {
	if s.finalized {
		return engine.NewError(engine.CodeMisuse)
	}
	if !s.conn.alloc.Alloc(len(v) + 1) {
		return engine.ErrNoMem
	}

	p, err := cbytes(s.conn.tls, v)
	if err != nil {
		return err
	}
	defer libc.Xfree(s.conn.tls, p)

	return s.bound(lib.Xsqlite3_bind_text(s.conn.tls, s.raw, int32(pos), p, int32(len(v)), sqliteTransient))
}

func (s *stmt) BindInt64(pos int, v int64) error {
	if s.finalized {
		return engine.NewError(engine.CodeMisuse)
	}
	return s.bound(lib.Xsqlite3_bind_int64(s.conn.tls, s.raw, int32(pos), v))
}

func (s *stmt) BindFloat(pos int, v float64) error {
	if s.finalized {
		return engine.NewError(engine.CodeMisuse)
	}
	return s.bound(lib.Xsqlite3_bind_double(s.conn.tls, s.raw, int32(pos), v))
}

func (s *stmt) BindBlob(pos int, v []byte) error {
	if s.finalized {
		return engine.NewError(engine.CodeMisuse)
	}
	if !s.conn.alloc.Alloc(len(v)) {
		return engine.ErrNoMem
	}

	p, err := cbytes(s.conn.tls, v)
	if err != nil {
		return err
	}
	defer libc.Xfree(s.conn.tls, p)

	return s.bound(lib.Xsqlite3_bind_blob(s.conn.tls, s.raw, int32(pos), p, int32(len(v)), sqliteTransient))
}

func (s *stmt) BindNull(pos int) error {
	if s.finalized {
		return engine.NewError(engine.CodeMisuse)
	}
	return s.bound(lib.Xsqlite3_bind_null(s.conn.tls, s.raw, int32(pos)))
}

func (s *stmt) ColumnCount() int {
	if s.finalized {
		return 0
	}
	return int(lib.Xsqlite3_column_count(s.conn.tls, s.raw))
}

func (s *stmt) ColumnName(col int) string {
	if !s.hasColumn(col) {
		return ""
	}
	return libc.GoString(lib.Xsqlite3_column_name(s.conn.tls, s.raw, int32(col)))
}

// ColumnDeclType returns the type as written in the table definition, or ""
// for expressions.
func (s *stmt) ColumnDeclType(col int) string {
	if !s.hasColumn(col) {
		return ""
	}
	return libc.GoString(lib.Xsqlite3_column_decltype(s.conn.tls, s.raw, int32(col)))
}

// The accessors below read the current row only; without one they report
// NULL.

func (s *stmt) ColumnType(col int) engine.ColumnType {
	if !s.hasValue(col) {
		return engine.Null
	}
	return engine.ColumnType(lib.Xsqlite3_column_type(s.conn.tls, s.raw, int32(col)))
}

func (s *stmt) ColumnText(col int) string {
	if !s.hasValue(col) {
		return ""
	}

	// sqlite3_column_bytes after sqlite3_column_text measures the text form.
	p := lib.Xsqlite3_column_text(s.conn.tls, s.raw, int32(col))
	if p == 0 {
		return ""
	}
	n := int(lib.Xsqlite3_column_bytes(s.conn.tls, s.raw, int32(col)))

	return string(libc.GoBytes(p, n))
}

func (s *stmt) ColumnInt64(col int) int64 {
	if !s.hasValue(col) {
		return 0
	}
	return lib.Xsqlite3_column_int64(s.conn.tls, s.raw, int32(col))
}

func (s *stmt) ColumnFloat(col int) float64 {
	if !s.hasValue(col) {
		return 0
	}
	return lib.Xsqlite3_column_double(s.conn.tls, s.raw, int32(col))
}

func (s *stmt) ColumnBlob(col int) []byte {
	if !s.hasValue(col) {
		return nil
	}

	p := lib.Xsqlite3_column_blob(s.conn.tls, s.raw, int32(col))
	if p == 0 {
		return nil
	}
	n := int(lib.Xsqlite3_column_bytes(s.conn.tls, s.raw, int32(col)))

	// the C buffer is only valid until the next step
	b := make([]byte, n)
	copy(b, libc.GoBytes(p, n))
	return b
}

func (s *stmt) hasColumn(col int) bool {
	return !s.finalized && col >= 0 && col < s.ColumnCount()
}

func (s *stmt) hasValue(col int) bool {
	return s.hasRow && s.hasColumn(col)
}
