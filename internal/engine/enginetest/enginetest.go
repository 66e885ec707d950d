// Package enginetest provides engine doubles for exercising failure paths
// that a healthy SQLite never takes on its own.
package enginetest

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/GintGld/sqlguard/internal/engine"
)

// Allocator grants memory until switched off.
type Allocator struct {
	refuse atomic.Bool
}

// NewAllocator returns an allocator that provides memory.
func NewAllocator() *Allocator {
	return &Allocator{}
}

func (a *Allocator) Alloc(int) bool {
	return !a.refuse.Load()
}

// Provide switches memory on or off.
func (a *Allocator) Provide(ok bool) {
	a.refuse.Store(!ok)
}

// Operations that Faults can break.
const (
	OpOpen       = "open"
	OpPrepare    = "prepare"
	OpExec       = "exec"
	OpStep       = "step"
	OpBind       = "bind"
	OpReset      = "reset"
	OpFinalize   = "finalize"
	OpClose      = "close"
	OpCheckpoint = "checkpoint"
	OpChanges    = "changes"
	OpTimeout    = "busy timeout"
)

// Faults wraps a driver and makes chosen operations fail with a chosen
// error. A broken finalize still releases the wrapped statement.
type Faults struct {
	engine.Driver

	mu    sync.Mutex
	fails map[string]error
}

func NewFaults(d engine.Driver) *Faults {
	return &Faults{Driver: d, fails: make(map[string]error)}
}

// Fail makes op return err from now on. A nil err heals op.
func (f *Faults) Fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err == nil {
		delete(f.fails, op)
		return
	}
	f.fails[op] = err
}

func (f *Faults) err(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fails[op]
}

func (f *Faults) Open(path string, flags engine.OpenFlag) (engine.Conn, error) {
	if err := f.err(OpOpen); err != nil {
		return nil, err
	}

	c, err := f.Driver.Open(path, flags)
	if err != nil {
		return nil, err
	}
	return &conn{Conn: c, f: f}, nil
}

type conn struct {
	engine.Conn
	f *Faults
}

func (c *conn) Prepare(query string) (engine.Stmt, error) {
	if err := c.f.err(OpPrepare); err != nil {
		return nil, err
	}

	s, err := c.Conn.Prepare(query)
	if err != nil {
		return nil, err
	}
	return &stmt{Stmt: s, f: c.f}, nil
}

func (c *conn) Exec(query string) error {
	if err := c.f.err(OpExec); err != nil {
		return err
	}
	return c.Conn.Exec(query)
}

func (c *conn) Changes() (int, error) {
	if err := c.f.err(OpChanges); err != nil {
		return 0, err
	}
	return c.Conn.Changes()
}

func (c *conn) SetBusyTimeout(d time.Duration) error {
	if err := c.f.err(OpTimeout); err != nil {
		return err
	}
	return c.Conn.SetBusyTimeout(d)
}

func (c *conn) Checkpoint(dbName string, mode engine.CheckpointMode) error {
	if err := c.f.err(OpCheckpoint); err != nil {
		return err
	}
	return c.Conn.Checkpoint(dbName, mode)
}

func (c *conn) Close() error {
	if err := c.f.err(OpClose); err != nil {
		return err
	}
	return c.Conn.Close()
}

type stmt struct {
	engine.Stmt
	f *Faults
}

func (s *stmt) Step() (bool, error) {
	if err := s.f.err(OpStep); err != nil {
		return false, err
	}
	return s.Stmt.Step()
}

func (s *stmt) Reset() error {
	if err := s.f.err(OpReset); err != nil {
		return err
	}
	return s.Stmt.Reset()
}

func (s *stmt) Finalize() error {
	err := s.Stmt.Finalize()
	if ferr := s.f.err(OpFinalize); ferr != nil {
		return ferr
	}
	return err
}

func (s *stmt) BindText(pos int, v string) error {
	if err := s.f.err(OpBind); err != nil {
		return err
	}
	return s.Stmt.BindText(pos, v)
}

func (s *stmt) BindInt64(pos int, v int64) error {
	if err := s.f.err(OpBind); err != nil {
		return err
	}
	return s.Stmt.BindInt64(pos, v)
}

func (s *stmt) BindFloat(pos int, v float64) error {
	if err := s.f.err(OpBind); err != nil {
		return err
	}
	return s.Stmt.BindFloat(pos, v)
}

func (s *stmt) BindBlob(pos int, v []byte) error {
	if err := s.f.err(OpBind); err != nil {
		return err
	}
	return s.Stmt.BindBlob(pos, v)
}

func (s *stmt) BindNull(pos int) error {
	if err := s.f.err(OpBind); err != nil {
		return err
	}
	return s.Stmt.BindNull(pos)
}
