package sqlite

import (
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStmtRoundTrip(t *testing.T) {
	c, _ := openMemory(t)
	defer c.Release()

	mustExec(t, c, "CREATE TABLE t (i INTEGER, s TEXT, f REAL, b BLOB, n TEXT)")

	ins, err := c.CompileStatement("INSERT INTO t VALUES (?, ?, ?, ?, ?)")
	require.NoError(t, err)
	defer ins.Release()

	type row struct {
		i int64
		s string
		f float64
		b []byte
	}

	rows := make([]row, 5)
	for k := range rows {
		rows[k] = row{
			i: gofakeit.Int64(),
			s: gofakeit.Name(),
			f: float64(gofakeit.IntRange(-1000, 1000)) / 4,
			b: []byte(gofakeit.UUID()),
		}

		require.NoError(t, ins.BindInt64(1, rows[k].i))
		require.NoError(t, ins.BindText(2, rows[k].s))
		require.NoError(t, ins.BindFloat(3, rows[k].f))
		require.NoError(t, ins.BindBlob(4, rows[k].b))
		require.NoError(t, ins.BindNull(5))

		n, err := ins.ExecDML()
		require.NoError(t, err)
		require.Equal(t, 1, n)
	}

	q, err := c.ExecQuery("SELECT i, s, f, b, n FROM t ORDER BY rowid")
	require.NoError(t, err)
	defer q.Release()

	for _, want := range rows {
		eof, err := q.EOF()
		require.NoError(t, err)
		require.False(t, eof)

		i, err := q.Int64Field(0, -1)
		require.NoError(t, err)
		assert.Equal(t, want.i, i)

		s, err := q.StringFieldByName("s", "")
		require.NoError(t, err)
		assert.Equal(t, want.s, s)

		f, err := q.FloatField(2, 0)
		require.NoError(t, err)
		assert.Equal(t, want.f, f)

		b, err := q.BlobFieldByName("b")
		require.NoError(t, err)
		assert.Equal(t, want.b, b)

		null, err := q.FieldIsNull(4)
		require.NoError(t, err)
		assert.True(t, null)

		v, err := q.FieldValue(4)
		require.NoError(t, err)
		assert.Nil(t, v)

		sentinel, err := q.StringField(4, "<null>")
		require.NoError(t, err)
		assert.Equal(t, "<null>", sentinel)

		require.NoError(t, q.NextRow())
	}

	eof, err := q.EOF()
	require.NoError(t, err)
	assert.True(t, eof)
}

func TestStmtReuseKeepsBindings(t *testing.T) {
	c, _ := openMemory(t)
	defer c.Release()

	mustExec(t, c, "CREATE TABLE t (a INTEGER, b TEXT)")

	s, err := c.CompileStatement("INSERT INTO t VALUES (?, ?)")
	require.NoError(t, err)
	defer s.Release()

	require.NoError(t, s.BindInt(1, 7))
	require.NoError(t, s.BindText(2, "kept"))
	_, err = s.ExecDML()
	require.NoError(t, err)

	require.NoError(t, s.BindInt(1, 8))
	_, err = s.ExecDML()
	require.NoError(t, err)

	n, err := c.ExecScalar("SELECT count(*) FROM t WHERE b = 'kept'")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = c.ExecScalar("SELECT sum(a) FROM t")
	require.NoError(t, err)
	assert.Equal(t, 15, n)
}

func TestStmtExecDMLOnSelect(t *testing.T) {
	c, _ := openMemory(t)
	defer c.Release()

	s, err := c.CompileStatement("SELECT 1")
	require.NoError(t, err)
	defer s.Release()

	_, err = s.ExecDML()

	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, CodeRow, f.Code)
	assert.Equal(t, "SQLITE_ROW[100]: another row available", f.Message)

	// reset afterwards, so the statement runs again
	q, err := s.ExecQuery()
	require.NoError(t, err)
	v, err := q.IntField(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestStmtBindErrors(t *testing.T) {
	c, _ := openMemory(t)
	defer c.Release()

	s, err := c.CompileStatement("SELECT ?")
	require.NoError(t, err)
	defer s.Release()

	err = s.BindInt(2, 1)
	var f *Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, CodeRange, f.Code)

	require.NoError(t, s.BindInt(1, 1))
	q, err := s.ExecQuery()
	require.NoError(t, err)

	// stepped and not reset
	err = s.BindInt(1, 2)
	require.ErrorAs(t, err, &f)
	assert.Equal(t, CodeMisuse, f.Code)

	require.NoError(t, s.Reset())
	require.NoError(t, s.BindInt(1, 2))

	q, err = s.ExecQuery()
	require.NoError(t, err)
	v, err := q.IntField(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestStmtMove(t *testing.T) {
	c, _ := openMemory(t)
	defer c.Release()

	a, err := c.CompileStatement("SELECT ?")
	require.NoError(t, err)

	b := a.Move()
	defer b.Release()

	err = a.BindInt(1, 1)
	require.ErrorIs(t, err, ErrNullHandle)
	assert.Equal(t, "Null handle", err.Error())

	_, err = a.ExecDML()
	assert.ErrorIs(t, err, ErrNullHandle)
	_, err = a.ExecQuery()
	assert.ErrorIs(t, err, ErrNullHandle)
	assert.ErrorIs(t, a.Reset(), ErrNullHandle)
	_, err = a.SQL()
	assert.ErrorIs(t, err, ErrNullHandle)
	assert.NoError(t, a.Finalize())

	require.NoError(t, b.BindText(1, "moved"))
	sql, err := b.SQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT 'moved'", sql)
}

func TestStmtAssign(t *testing.T) {
	c, w := openMemory(t)
	defer c.Release()

	a, err := c.CompileStatement("SELECT 1")
	require.NoError(t, err)
	b, err := c.CompileStatement("SELECT 2")
	require.NoError(t, err)

	a.Assign(b)
	defer a.Release()

	_, err = b.SQL()
	assert.ErrorIs(t, err, ErrNullHandle)

	sql, err := a.SQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT 2", sql)

	a.Assign(a)
	sql, err = a.SQL()
	require.NoError(t, err)
	assert.Equal(t, "SELECT 2", sql)

	assert.Empty(t, w.Lines())
}

func TestBorrowedQueryFollowsStmt(t *testing.T) {
	c, _ := openMemory(t)
	defer c.Release()

	mustExec(t, c, "CREATE TABLE t (x INTEGER); INSERT INTO t VALUES (1), (2), (3)")

	s, err := c.CompileStatement("SELECT x FROM t ORDER BY x")
	require.NoError(t, err)

	q, err := s.ExecQuery()
	require.NoError(t, err)

	var got []int
	for {
		eof, err := q.EOF()
		require.NoError(t, err)
		if eof {
			break
		}
		v, err := q.IntField(0, 0)
		require.NoError(t, err)
		got = append(got, v)
		require.NoError(t, q.NextRow())
	}
	assert.Equal(t, []int{1, 2, 3}, got)

	// finalizing the borrower leaves the statement alive
	require.NoError(t, q.Finalize())
	_, err = q.EOF()
	assert.ErrorIs(t, err, ErrNullHandle)

	require.NoError(t, s.Reset())
	again, err := s.ExecQuery()
	require.NoError(t, err)
	v, err := again.IntField(0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	require.NoError(t, s.Finalize())
	_, err = again.EOF()
	assert.ErrorIs(t, err, ErrNullHandle)

	require.NoError(t, c.Close())
}

func TestStmtAfterClose(t *testing.T) {
	c, _ := openMemory(t)

	s, err := c.CompileStatement("SELECT 1")
	require.NoError(t, err)

	require.ErrorIs(t, c.Close(), ErrBusy)
	require.NoError(t, s.Finalize())
	require.NoError(t, c.Close())

	_, err = s.ExecDML()
	assert.ErrorIs(t, err, ErrNullHandle)
}
