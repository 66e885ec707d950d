package engine

// Code is a SQLite primary result code.
type Code int

const (
	CodeOK         Code = 0
	CodeError      Code = 1
	CodeInternal   Code = 2
	CodePerm       Code = 3
	CodeAbort      Code = 4
	CodeBusy       Code = 5
	CodeLocked     Code = 6
	CodeNoMem      Code = 7
	CodeReadOnly   Code = 8
	CodeInterrupt  Code = 9
	CodeIOErr      Code = 10
	CodeCorrupt    Code = 11
	CodeNotFound   Code = 12
	CodeFull       Code = 13
	CodeCantOpen   Code = 14
	CodeProtocol   Code = 15
	CodeEmpty      Code = 16
	CodeSchema     Code = 17
	CodeTooBig     Code = 18
	CodeConstraint Code = 19
	CodeMismatch   Code = 20
	CodeMisuse     Code = 21
	CodeNoLFS      Code = 22
	CodeAuth       Code = 23
	CodeFormat     Code = 24
	CodeRange      Code = 25
	CodeNotADB     Code = 26
	CodeRow        Code = 100
	CodeDone       Code = 101
)

var codeNames = map[Code]string{
	CodeOK:         "SQLITE_OK",
	CodeError:      "SQLITE_ERROR",
	CodeInternal:   "SQLITE_INTERNAL",
	CodePerm:       "SQLITE_PERM",
	CodeAbort:      "SQLITE_ABORT",
	CodeBusy:       "SQLITE_BUSY",
	CodeLocked:     "SQLITE_LOCKED",
	CodeNoMem:      "SQLITE_NOMEM",
	CodeReadOnly:   "SQLITE_READONLY",
	CodeInterrupt:  "SQLITE_INTERRUPT",
	CodeIOErr:      "SQLITE_IOERR",
	CodeCorrupt:    "SQLITE_CORRUPT",
	CodeNotFound:   "SQLITE_NOTFOUND",
	CodeFull:       "SQLITE_FULL",
	CodeCantOpen:   "SQLITE_CANTOPEN",
	CodeProtocol:   "SQLITE_PROTOCOL",
	CodeEmpty:      "SQLITE_EMPTY",
	CodeSchema:     "SQLITE_SCHEMA",
	CodeTooBig:     "SQLITE_TOOBIG",
	CodeConstraint: "SQLITE_CONSTRAINT",
	CodeMismatch:   "SQLITE_MISMATCH",
	CodeMisuse:     "SQLITE_MISUSE",
	CodeNoLFS:      "SQLITE_NOLFS",
	CodeAuth:       "SQLITE_AUTH",
	CodeFormat:     "SQLITE_FORMAT",
	CodeRange:      "SQLITE_RANGE",
	CodeNotADB:     "SQLITE_NOTADB",
	CodeRow:        "SQLITE_ROW",
	CodeDone:       "SQLITE_DONE",
}

// String returns the symbolic name of the code, "UNKNOWN_ERROR" if there is none.
func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return "UNKNOWN_ERROR"
}

// Errstr returns the engine's generic english description of the code.
func (c Code) Errstr() string {
	switch c {
	case CodeOK:
		return "not an error"
	case CodeBusy:
		return "database is locked"
	case CodeLocked:
		return "database table is locked"
	case CodeNoMem:
		return "out of memory"
	case CodeReadOnly:
		return "attempt to write a readonly database"
	case CodeInterrupt:
		return "interrupted"
	case CodeIOErr:
		return "disk I/O error"
	case CodeCorrupt:
		return "database disk image is malformed"
	case CodeFull:
		return "database or disk is full"
	case CodeCantOpen:
		return "unable to open database file"
	case CodeConstraint:
		return "constraint failed"
	case CodeMisuse:
		return "bad parameter or other API misuse"
	case CodeRange:
		return "column index out of range"
	case CodeDone:
		return "no more rows available"
	case CodeRow:
		return "another row available"
	}
	return "SQL logic error"
}
