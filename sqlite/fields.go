package sqlite

import (
	"github.com/GintGld/sqlguard/internal/engine"
	"github.com/GintGld/sqlguard/internal/lib/fuzzy"
	"github.com/GintGld/sqlguard/internal/lib/utils/pointers"
)

// column returns the statement after checking that i names a column.
func (q *Query) column(i int) (engine.Stmt, error) {
	h, err := q.handle()
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= q.numFields {
		return nil, ErrInvalidFieldIndex
	}
	return h, nil
}

// FieldIndex returns the position of the column called name.
func (q *Query) FieldIndex(name string) (int, error) {
	h, err := q.handle()
	if err != nil {
		return -1, err
	}

	names := make([]string, q.numFields)
	for i := range names {
		names[i] = h.ColumnName(i)
		if names[i] == name {
			return i, nil
		}
	}

	hint, _ := fuzzy.Closest(name, names)
	return -1, &InvalidArgumentError{Msg: MsgInvalidFieldName, Hint: hint}
}

func (q *Query) FieldName(i int) (string, error) {
	h, err := q.column(i)
	if err != nil {
		return "", err
	}
	return h.ColumnName(i), nil
}

// FieldDeclType returns the declared type of the column, upper-cased, or ""
// for expressions.
func (q *Query) FieldDeclType(i int) (string, error) {
	h, err := q.column(i)
	if err != nil {
		return "", err
	}
	return h.ColumnDeclType(i), nil
}

// FieldDataType returns the storage class of the value in the current row.
func (q *Query) FieldDataType(i int) (ColumnType, error) {
	h, err := q.column(i)
	if err != nil {
		return 0, err
	}
	return h.ColumnType(i), nil
}

// FieldValue returns the value as text, nil for NULL.
func (q *Query) FieldValue(i int) (*string, error) {
	h, err := q.column(i)
	if err != nil {
		return nil, err
	}
	if h.ColumnType(i) == Null {
		return nil, nil
	}
	return pointers.Pointer(h.ColumnText(i)), nil
}

func (q *Query) FieldIsNull(i int) (bool, error) {
	t, err := q.FieldDataType(i)
	if err != nil {
		return false, err
	}
	return t == Null, nil
}

// IntField returns the value as int, or null if it is NULL.
func (q *Query) IntField(i int, null int) (int, error) {
	v, err := q.Int64Field(i, int64(null))
	return int(v), err
}

func (q *Query) Int64Field(i int, null int64) (int64, error) {
	h, err := q.column(i)
	if err != nil {
		return 0, err
	}
	if h.ColumnType(i) == Null {
		return null, nil
	}
	return h.ColumnInt64(i), nil
}

func (q *Query) FloatField(i int, null float64) (float64, error) {
	h, err := q.column(i)
	if err != nil {
		return 0, err
	}
	if h.ColumnType(i) == Null {
		return null, nil
	}
	return h.ColumnFloat(i), nil
}

func (q *Query) StringField(i int, null string) (string, error) {
	h, err := q.column(i)
	if err != nil {
		return "", err
	}
	if h.ColumnType(i) == Null {
		return null, nil
	}
	return h.ColumnText(i), nil
}

// BlobField returns the raw bytes of the value, nil for NULL.
func (q *Query) BlobField(i int) ([]byte, error) {
	h, err := q.column(i)
	if err != nil {
		return nil, err
	}
	return h.ColumnBlob(i), nil
}

func (q *Query) FieldValueByName(name string) (*string, error) {
	i, err := q.FieldIndex(name)
	if err != nil {
		return nil, err
	}
	return q.FieldValue(i)
}

func (q *Query) FieldIsNullByName(name string) (bool, error) {
	i, err := q.FieldIndex(name)
	if err != nil {
		return false, err
	}
	return q.FieldIsNull(i)
}

func (q *Query) IntFieldByName(name string, null int) (int, error) {
	i, err := q.FieldIndex(name)
	if err != nil {
		return 0, err
	}
	return q.IntField(i, null)
}

func (q *Query) Int64FieldByName(name string, null int64) (int64, error) {
	i, err := q.FieldIndex(name)
	if err != nil {
		return 0, err
	}
	return q.Int64Field(i, null)
}

func (q *Query) FloatFieldByName(name string, null float64) (float64, error) {
	i, err := q.FieldIndex(name)
	if err != nil {
		return 0, err
	}
	return q.FloatField(i, null)
}

func (q *Query) StringFieldByName(name string, null string) (string, error) {
	i, err := q.FieldIndex(name)
	if err != nil {
		return "", err
	}
	return q.StringField(i, null)
}

func (q *Query) BlobFieldByName(name string) ([]byte, error) {
	i, err := q.FieldIndex(name)
	if err != nil {
		return nil, err
	}
	return q.BlobField(i)
}
