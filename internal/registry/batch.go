package registry

import (
	"fmt"
	"time"
)

// Batch is an immutable columnar view over registry rows: named, typed
// columns of equal length with per-row validity. It is the boundary type
// between registry loading and the matching engine, which refers back into
// a batch purely by row index.
type Batch struct {
	numRows int
	order   []string
	columns map[string]Column
}

// Column is a typed, nullable column of a Batch.
type Column interface {
	Len() int
}

// StringColumn holds string values with per-row validity.
type StringColumn struct {
	values []string
	valid  []bool
}

// DateColumn holds date values with per-row validity.
type DateColumn struct {
	values []time.Time
	valid  []bool
}

// IntColumn holds integer values with per-row validity.
type IntColumn struct {
	values []int
	valid  []bool
}

// NewStringColumn builds a string column. A nil valid slice marks every row
// valid.
func NewStringColumn(values []string, valid []bool) *StringColumn {
	return &StringColumn{values: values, valid: valid}
}

// NewDateColumn builds a date column. A nil valid slice marks every row valid.
func NewDateColumn(values []time.Time, valid []bool) *DateColumn {
	return &DateColumn{values: values, valid: valid}
}

// NewIntColumn builds an integer column. A nil valid slice marks every row
// valid.
func NewIntColumn(values []int, valid []bool) *IntColumn {
	return &IntColumn{values: values, valid: valid}
}

func (c *StringColumn) Len() int { return len(c.values) }
func (c *DateColumn) Len() int   { return len(c.values) }
func (c *IntColumn) Len() int    { return len(c.values) }

// Value returns the row value and whether it is non-null.
func (c *StringColumn) Value(i int) (string, bool) {
	if c.valid != nil && !c.valid[i] {
		return "", false
	}
	return c.values[i], true
}

// Value returns the row value and whether it is non-null.
func (c *DateColumn) Value(i int) (time.Time, bool) {
	if c.valid != nil && !c.valid[i] {
		return time.Time{}, false
	}
	return c.values[i], true
}

// Value returns the row value and whether it is non-null.
func (c *IntColumn) Value(i int) (int, bool) {
	if c.valid != nil && !c.valid[i] {
		return 0, false
	}
	return c.values[i], true
}

// NewBatch creates an empty batch expecting columns of the given length.
func NewBatch(numRows int) *Batch {
	return &Batch{
		numRows: numRows,
		columns: make(map[string]Column),
	}
}

// AddColumn attaches a column to the batch. The column length must equal the
// batch row count, and names must be unique.
func (b *Batch) AddColumn(name string, col Column) error {
	if col.Len() != b.numRows {
		return fmt.Errorf("column %s has %d rows, batch has %d", name, col.Len(), b.numRows)
	}
	if _, exists := b.columns[name]; exists {
		return fmt.Errorf("column %s already present", name)
	}
	b.columns[name] = col
	b.order = append(b.order, name)
	return nil
}

// NumRows returns the number of rows in the batch.
func (b *Batch) NumRows() int { return b.numRows }

// Column returns the named column, if present.
func (b *Batch) Column(name string) (Column, bool) {
	col, ok := b.columns[name]
	return col, ok
}

// HasColumn reports whether the batch carries the named column.
func (b *Batch) HasColumn(name string) bool {
	_, ok := b.columns[name]
	return ok
}

// ColumnNames returns the column names in insertion order.
func (b *Batch) ColumnNames() []string {
	names := make([]string, len(b.order))
	copy(names, b.order)
	return names
}

// Select projects the given rows, in order, into a new batch. Row indices
// may repeat; they must be in range.
func (b *Batch) Select(rows []int) (*Batch, error) {
	for _, r := range rows {
		if r < 0 || r >= b.numRows {
			return nil, fmt.Errorf("row index out of bounds: %d >= %d", r, b.numRows)
		}
	}

	out := NewBatch(len(rows))
	for _, name := range b.order {
		var projected Column
		switch col := b.columns[name].(type) {
		case *StringColumn:
			values := make([]string, len(rows))
			valid := make([]bool, len(rows))
			for i, r := range rows {
				values[i], valid[i] = col.Value(r)
			}
			projected = NewStringColumn(values, valid)
		case *DateColumn:
			values := make([]time.Time, len(rows))
			valid := make([]bool, len(rows))
			for i, r := range rows {
				values[i], valid[i] = col.Value(r)
			}
			projected = NewDateColumn(values, valid)
		case *IntColumn:
			values := make([]int, len(rows))
			valid := make([]bool, len(rows))
			for i, r := range rows {
				values[i], valid[i] = col.Value(r)
			}
			projected = NewIntColumn(values, valid)
		default:
			return nil, fmt.Errorf("column %s has unsupported type %T", name, col)
		}
		if err := out.AddColumn(name, projected); err != nil {
			return nil, err
		}
	}
	return out, nil
}
