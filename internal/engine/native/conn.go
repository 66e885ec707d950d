package native

import (
	"sync"
	"time"
	"unsafe"

	"modernc.org/libc"
	lib "modernc.org/sqlite/lib"

	"github.com/GintGld/sqlguard/internal/engine"
)

type conn struct {
	tls   *libc.TLS
	db    uintptr
	alloc engine.Allocator

	// mu guards closed against Interrupt calls coming from other
	// goroutines.
	mu     sync.Mutex
	closed bool
}

func (c *conn) Prepare(query string) (engine.Stmt, error) {
	if err := c.usable(); err != nil {
		return nil, err
	}
	if !c.alloc.Alloc(len(query) + 1) {
		return nil, engine.ErrNoMem
	}

	cquery, err := libc.CString(query)
	if err != nil {
		return nil, engine.ErrNoMem
	}
	defer libc.Xfree(c.tls, cquery)

	stmtPtr, err := malloc(c.tls, ptrSize)
	if err != nil {
		return nil, err
	}
	defer libc.Xfree(c.tls, stmtPtr)

	if res := lib.Xsqlite3_prepare_v2(c.tls, c.db, cquery, -1, stmtPtr, 0); res != lib.SQLITE_OK {
		return nil, c.failure(res)
	}

	return &stmt{conn: c, raw: *(*uintptr)(unsafe.Pointer(stmtPtr))}, nil
}

func (c *conn) Exec(query string) error {
	if err := c.usable(); err != nil {
		return err
	}
	if !c.alloc.Alloc(len(query) + 1) {
		return engine.ErrNoMem
	}

	cquery, err := libc.CString(query)
	if err != nil {
		return engine.ErrNoMem
	}
	defer libc.Xfree(c.tls, cquery)

	if res := lib.Xsqlite3_exec(c.tls, c.db, cquery, 0, 0, 0); res != lib.SQLITE_OK {
		return c.failure(res)
	}
	return nil
}

func (c *conn) Changes() (int, error) {
	if err := c.usable(); err != nil {
		return 0, err
	}
	return int(lib.Xsqlite3_changes(c.tls, c.db)), nil
}

func (c *conn) LastInsertRowID() (int64, error) {
	if err := c.usable(); err != nil {
		return 0, err
	}
	return lib.Xsqlite3_last_insert_rowid(c.tls, c.db), nil
}

func (c *conn) SetBusyTimeout(d time.Duration) error {
	if err := c.usable(); err != nil {
		return err
	}
	if res := lib.Xsqlite3_busy_timeout(c.tls, c.db, int32(d/time.Millisecond)); res != lib.SQLITE_OK {
		return c.failure(res)
	}
	return nil
}

// Interrupt calls sqlite3_interrupt, which SQLite allows from any thread.
func (c *conn) Interrupt() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		lib.Xsqlite3_interrupt(c.tls, c.db)
	}
}

// Checkpoint runs sqlite3_wal_checkpoint_v2. An empty dbName checkpoints
// every attached database.
func (c *conn) Checkpoint(dbName string, mode engine.CheckpointMode) error {
	if err := c.usable(); err != nil {
		return err
	}
	if !c.alloc.Alloc(len(dbName) + 1) {
		return engine.ErrNoMem
	}

	var zdb uintptr
	if dbName != "" {
		p, err := libc.CString(dbName)
		if err != nil {
			return engine.ErrNoMem
		}
		defer libc.Xfree(c.tls, p)
		zdb = p
	}

	if res := lib.Xsqlite3_wal_checkpoint_v2(c.tls, c.db, zdb, int32(mode), 0, 0); res != lib.SQLITE_OK {
		return c.failure(res)
	}
	return nil
}

// Quote renders s through sqlite3_mprintf("%Q").
func (c *conn) Quote(s string) (string, error) {
	if err := c.usable(); err != nil {
		return "", err
	}
	if !c.alloc.Alloc(len(s) + 3) {
		return "", engine.ErrNoMem
	}

	format, err := libc.CString("%Q")
	if err != nil {
		return "", engine.ErrNoMem
	}
	defer libc.Xfree(c.tls, format)

	cs, err := libc.CString(s)
	if err != nil {
		return "", engine.ErrNoMem
	}
	defer libc.Xfree(c.tls, cs)

	args := libc.NewVaList(cs)
	if args == 0 {
		return "", engine.ErrNoMem
	}
	defer libc.Xfree(c.tls, args)

	p := lib.Xsqlite3_mprintf(c.tls, format, args)
	if p == 0 {
		return "", engine.ErrNoMem
	}
	defer lib.Xsqlite3_free(c.tls, p)

	return libc.GoString(p), nil
}

// Close uses sqlite3_close, which refuses with SQLITE_BUSY while statements
// are unfinalized and leaves the connection usable. The connection counts as
// closed only once SQLite has let go of it.
func (c *conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	if res := lib.Xsqlite3_close(c.tls, c.db); res != lib.SQLITE_OK {
		return c.failure(res)
	}

	c.closed = true
	c.tls.Close()

	return nil
}

func (c *conn) usable() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return engine.NewError(engine.CodeMisuse)
	}
	return nil
}

func (c *conn) failure(res int32) error {
	return failure(c.tls, c.db, res)
}
