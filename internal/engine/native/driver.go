// Package native implements the engine interfaces on SQLite's own C API as
// translated to Go by modernc.org/sqlite/lib. Column values are read with
// sqlite3_column_* exactly as stored; nothing is converted by declared type.
package native

import (
	"sync"
	"unsafe"

	"modernc.org/libc"
	"modernc.org/libc/sys/types"
	lib "modernc.org/sqlite/lib"

	"github.com/GintGld/sqlguard/internal/engine"
)

const ptrSize = types.Size_t(unsafe.Sizeof(uintptr(0)))

// sqliteTransient tells sqlite3_bind_* to copy the value before returning.
const sqliteTransient = ^uintptr(0)

var initOnce sync.Once

// Driver opens SQLite connections. The zero value is ready to use.
type Driver struct {
	// Alloc is asked before every allocating call. Nil means
	// engine.DefaultAllocator.
	Alloc engine.Allocator
}

// New returns a driver consulting alloc before allocating calls.
func New(alloc engine.Allocator) *Driver {
	return &Driver{Alloc: alloc}
}

func (d *Driver) allocator() engine.Allocator {
	if d == nil || d.Alloc == nil {
		return engine.DefaultAllocator
	}
	return d.Alloc
}

// Open opens the database at path with sqlite3_open_v2. The path is a plain
// file name unless flags carry OpenURI, in which case "file:" URIs and their
// query parameters are honoured.
func (d *Driver) Open(path string, flags engine.OpenFlag) (_ engine.Conn, err error) {
	alloc := d.allocator()
	if !alloc.Alloc(len(path) + 1) {
		return nil, engine.ErrNoMem
	}

	tls := libc.NewTLS()
	defer func() {
		if err != nil {
			tls.Close()
		}
	}()
	initOnce.Do(func() {
		lib.Xsqlite3_initialize(tls)
	})

	cpath, err := libc.CString(path)
	if err != nil {
		return nil, engine.ErrNoMem
	}
	defer libc.Xfree(tls, cpath)

	dbPtr, err := malloc(tls, ptrSize)
	if err != nil {
		return nil, err
	}
	defer libc.Xfree(tls, dbPtr)

	res := lib.Xsqlite3_open_v2(tls, cpath, dbPtr, int32(openFlags(flags)), 0)
	db := *(*uintptr)(unsafe.Pointer(dbPtr))
	if db == 0 {
		// not enough memory for the sqlite3 object itself
		return nil, engine.ErrNoMem
	}
	if res != lib.SQLITE_OK {
		// sqlite3_open_v2 hands back a handle even on failure so that the
		// message can be read from it.
		err = failure(tls, db, res)
		lib.Xsqlite3_close(tls, db)
		return nil, err
	}

	return &conn{tls: tls, db: db, alloc: alloc}, nil
}

// openFlags fills in read-write access when flags name neither mode.
func openFlags(flags engine.OpenFlag) engine.OpenFlag {
	if flags&(engine.OpenReadOnly|engine.OpenReadWrite) == 0 {
		flags |= engine.OpenReadWrite
	}
	return flags
}

// Version returns the version string of the linked SQLite library.
func Version() string {
	return lib.SQLITE_VERSION
}

// failure pairs the non-success res with the connection's error message.
// Calls that fail without recording an error on the connection, such as
// misuse of a NULL statement, get the generic message for res.
func failure(tls *libc.TLS, db uintptr, res int32) error {
	code := engine.Code(res & 0xff)
	if engine.Code(lib.Xsqlite3_errcode(tls, db)&0xff) != code {
		return engine.NewError(code)
	}
	return &engine.Error{Code: code, Msg: libc.GoString(lib.Xsqlite3_errmsg(tls, db))}
}

func malloc(tls *libc.TLS, n types.Size_t) (uintptr, error) {
	p := libc.Xmalloc(tls, n)
	if p == 0 {
		return 0, engine.ErrNoMem
	}
	return p, nil
}

// cbytes copies s into C memory. At least one byte is allocated so that an
// empty value is still bound as text or blob, not NULL.
func cbytes[T string | []byte](tls *libc.TLS, s T) (uintptr, error) {
	n := len(s)
	if n == 0 {
		n = 1
	}

	p, err := malloc(tls, types.Size_t(n))
	if err != nil {
		return 0, err
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(p)), n), s)

	return p, nil
}
