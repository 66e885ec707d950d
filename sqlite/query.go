package sqlite

import (
	"context"
	"fmt"

	"github.com/GintGld/sqlguard/internal/engine"
)

// Query is a forward-only cursor over the rows of a statement. A Query from
// Conn.ExecQuery owns its statement; one from Stmt.ExecQuery borrows it and
// never releases it.
type Query struct {
	policy    Policy
	cell      *cell
	eof       bool
	numFields int
	owned     bool
}

func newQuery(p Policy, c *cell, eof, owned bool) *Query {
	return &Query{
		policy:    p,
		cell:      c,
		eof:       eof,
		numFields: c.stmt.ColumnCount(),
		owned:     owned,
	}
}

func (q *Query) handle() (engine.Stmt, error) {
	return q.cell.get()
}

// EOF reports whether the cursor has gone past the last row.
func (q *Query) EOF() (bool, error) {
	if _, err := q.handle(); err != nil {
		return false, err
	}
	return q.eof, nil
}

func (q *Query) NumFields() (int, error) {
	if _, err := q.handle(); err != nil {
		return 0, err
	}
	return q.numFields, nil
}

// NextRow advances to the next row. At EOF it does nothing. On failure an
// owning cursor releases its statement before the error handler runs.
func (q *Query) NextRow() error {
	return q.NextRowContext(context.Background())
}

// NextRowContext is NextRow that interrupts the step once ctx is done.
func (q *Query) NextRowContext(ctx context.Context) error {
	h, err := q.handle()
	if err != nil {
		return err
	}
	if q.eof {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if q.policy.conn != nil {
		stop := context.AfterFunc(ctx, q.policy.conn.Interrupt)
		defer stop()
	}

	row, err := h.Step()
	if err != nil {
		if q.owned {
			q.cell.release()
		}
		return q.policy.report(err, ctxNextRow)
	}

	q.eof = !row
	return nil
}

// Finalize releases an owned statement. A borrowing cursor just lets go of
// it. Either way the cursor is unusable afterwards.
func (q *Query) Finalize() error {
	c := q.cell
	q.cell = nil

	if !q.owned || c.empty() {
		return nil
	}

	if err := c.release(); err != nil {
		return q.policy.report(err, ctxQueryFinalize)
	}

	return nil
}

// Release finalizes the cursor and logs any failure instead of returning it.
func (q *Query) Release() {
	defer func() {
		if r := recover(); r != nil {
			q.policy.log(LevelError, fmt.Sprintf("error during Query.Release: %v", r))
		}
	}()

	if err := q.Finalize(); err != nil {
		q.policy.log(LevelError, "error during Query.Release: "+err.Error())
	}
}

// Move hands the cursor state to a new Query and leaves q empty.
func (q *Query) Move() *Query {
	m := *q
	q.cell = nil
	return &m
}

// Assign finalizes q, logging failures, and moves src into it.
func (q *Query) Assign(src *Query) {
	if q == src {
		return
	}

	func() {
		defer func() {
			if r := recover(); r != nil {
				q.policy.log(LevelError, fmt.Sprintf("failed to finalize Query on reassign: %v", r))
			}
		}()
		if err := q.Finalize(); err != nil {
			q.policy.log(LevelError, "failed to finalize Query on reassign: "+err.Error())
		}
	}()

	*q = *src
	src.cell = nil
}
