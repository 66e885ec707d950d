package sqlite

import "github.com/GintGld/sqlguard/internal/engine"

// cell holds a compiled statement. The owning Stmt or Query and any
// borrowing Query point at the same cell, so releasing the statement is
// visible to all of them. An empty cell means the statement is gone.
type cell struct {
	stmt engine.Stmt
}

func (c *cell) get() (engine.Stmt, error) {
	if c == nil || c.stmt == nil {
		return nil, ErrNullHandle
	}
	return c.stmt, nil
}

func (c *cell) empty() bool {
	return c == nil || c.stmt == nil
}

// release finalizes the statement and empties the cell.
func (c *cell) release() error {
	if c.empty() {
		return nil
	}

	s := c.stmt
	c.stmt = nil
	return s.Finalize()
}
