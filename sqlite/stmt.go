package sqlite

import (
	"context"
	"fmt"

	"github.com/GintGld/sqlguard/internal/engine"
)

// Stmt is a compiled statement owned by exactly one Stmt value at a time.
// Positions passed to Bind* start at 1.
type Stmt struct {
	policy Policy
	cell   *cell
}

func (s *Stmt) bind(context string, fn func(engine.Stmt) error) error {
	h, err := s.cell.get()
	if err != nil {
		return err
	}

	if err := fn(h); err != nil {
		return s.policy.report(err, context)
	}

	return nil
}

func (s *Stmt) BindText(pos int, v string) error {
	return s.bind(ctxBindString, func(h engine.Stmt) error { return h.BindText(pos, v) })
}

func (s *Stmt) BindInt(pos int, v int) error {
	return s.bind(ctxBindInt, func(h engine.Stmt) error { return h.BindInt64(pos, int64(v)) })
}

func (s *Stmt) BindInt64(pos int, v int64) error {
	return s.bind(ctxBindInt64, func(h engine.Stmt) error { return h.BindInt64(pos, v) })
}

func (s *Stmt) BindFloat(pos int, v float64) error {
	return s.bind(ctxBindDouble, func(h engine.Stmt) error { return h.BindFloat(pos, v) })
}

// BindBlob binds a copy of v. A nil slice binds an empty blob, not NULL.
func (s *Stmt) BindBlob(pos int, v []byte) error {
	return s.bind(ctxBindBlob, func(h engine.Stmt) error { return h.BindBlob(pos, v) })
}

func (s *Stmt) BindNull(pos int) error {
	return s.bind(ctxBindNull, func(h engine.Stmt) error { return h.BindNull(pos) })
}

// handle returns the statement ready to run.
func (s *Stmt) handle() (engine.Stmt, error) {
	if s.policy.conn == nil {
		return nil, ErrNotOpen
	}
	return s.cell.get()
}

// ExecDML runs the statement to completion and returns the number of rows
// it changed. The statement is reset afterwards either way, bindings stay.
func (s *Stmt) ExecDML() (int, error) {
	return s.ExecDMLContext(context.Background())
}

// ExecDMLContext is ExecDML that interrupts the engine once ctx is done.
func (s *Stmt) ExecDMLContext(ctx context.Context) (int, error) {
	h, err := s.handle()
	if err != nil {
		return 0, err
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.policy.log(LevelVerbose, h.ExpandedSQL())

	stop := context.AfterFunc(ctx, s.policy.conn.Interrupt)
	defer stop()

	row, err := h.Step()
	if err == nil && row {
		// A row means this was not a DML statement.
		err = engine.NewError(engine.CodeRow)
	}
	if err != nil {
		h.Reset()
		return 0, s.policy.report(err, ctxExecDMLStmt)
	}

	n, err := s.policy.conn.Changes()
	if err != nil {
		h.Reset()
		return 0, s.policy.report(err, ctxRowsChanged)
	}

	if err := h.Reset(); err != nil {
		if rerr := s.policy.report(err, ctxRowsChanged); rerr != nil {
			return 0, rerr
		}
	}

	return n, nil
}

// ExecQuery steps the statement once and returns a cursor borrowing it. The
// cursor sees the statement's later resets and its finalization.
func (s *Stmt) ExecQuery() (*Query, error) {
	return s.ExecQueryContext(context.Background())
}

// ExecQueryContext is ExecQuery that interrupts the first step once ctx is
// done.
func (s *Stmt) ExecQueryContext(ctx context.Context) (*Query, error) {
	h, err := s.handle()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.policy.log(LevelVerbose, h.ExpandedSQL())

	stop := context.AfterFunc(ctx, s.policy.conn.Interrupt)
	defer stop()

	row, err := h.Step()
	if err != nil {
		h.Reset()
		if rerr := s.policy.report(err, ctxEvalQuery); rerr != nil {
			return nil, rerr
		}
		return &Query{policy: s.policy}, nil
	}

	return newQuery(s.policy, s.cell, !row, false), nil
}

// Reset rewinds the statement. Bindings are kept.
func (s *Stmt) Reset() error {
	h, err := s.cell.get()
	if err != nil {
		return err
	}

	if err := h.Reset(); err != nil {
		return s.policy.report(err, ctxReset)
	}

	return nil
}

// Finalize releases the statement. Finalizing an empty Stmt does nothing.
func (s *Stmt) Finalize() error {
	if s.cell.empty() {
		return nil
	}

	if err := s.cell.release(); err != nil {
		return s.policy.report(err, ctxStmtFinalize)
	}

	return nil
}

// Release finalizes the statement and logs any failure instead of
// returning it.
func (s *Stmt) Release() {
	defer func() {
		if r := recover(); r != nil {
			s.policy.log(LevelError, fmt.Sprintf("error during Stmt.Release: %v", r))
		}
	}()

	if err := s.Finalize(); err != nil {
		s.policy.log(LevelError, "error during Stmt.Release: "+err.Error())
	}
}

// Move hands the statement to a new Stmt and leaves s empty.
func (s *Stmt) Move() *Stmt {
	m := &Stmt{policy: s.policy, cell: s.cell}
	s.cell = nil
	return m
}

// Assign finalizes the statement held by s, logging failures, and moves
// src's statement into s.
func (s *Stmt) Assign(src *Stmt) {
	if s == src {
		return
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				s.policy.log(LevelError, fmt.Sprintf("failed to finalize Stmt on reassign: %v", r))
			}
		}()
		if err := s.Finalize(); err != nil {
			s.policy.log(LevelError, "failed to finalize Stmt on reassign: "+err.Error())
		}
	}()

	s.policy = src.policy
	s.cell = src.cell
	src.cell = nil
}

// SQL returns the statement text with the current bindings inlined, as it is
// logged at verbose level.
func (s *Stmt) SQL() (string, error) {
	h, err := s.cell.get()
	if err != nil {
		return "", err
	}
	return h.ExpandedSQL(), nil
}
