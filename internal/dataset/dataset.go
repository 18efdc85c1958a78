package dataset

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrEmptyDataset is returned when a dataset has a header but no data rows.
var ErrEmptyDataset = errors.New("dataset is empty")

// Type is the storage type inferred for a column when the dataset is loaded.
type Type int

const (
	TypeString Type = iota
	TypeInt
	TypeFloat
	TypeDatetime
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "int"
	case TypeFloat:
		return "float"
	case TypeDatetime:
		return "datetime"
	default:
		return "string"
	}
}

// IsNumeric reports whether the storage type is an integer or floating-point kind.
func (t Type) IsNumeric() bool { return t == TypeInt || t == TypeFloat }

// Value is a single cell. Raw keeps the text as read from the source so that
// exports reproduce the input; Num is only meaningful for numeric columns.
type Value struct {
	Raw     string
	Num     float64
	Missing bool
}

// Column is a named, homogeneously typed sequence of cells.
type Column struct {
	Name   string
	Type   Type
	Values []Value
}

// Dataset is an ordered set of equal-length columns. A Dataset is never
// mutated after it is built; Head, Select and Where return new datasets.
type Dataset struct {
	// ID identifies the loaded source. Views derived from a dataset keep the
	// source ID, because column types never change under filtering.
	ID      string
	Name    string
	Columns []*Column
}

// New builds a dataset from already typed columns. All columns must have the
// same number of values.
func New(name string, cols []*Column) (*Dataset, error) {
	n := -1
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if seen[c.Name] {
			return nil, fmt.Errorf("duplicate column %q", c.Name)
		}
		seen[c.Name] = true
		if n >= 0 && len(c.Values) != n {
			return nil, fmt.Errorf("column %q has %d values, want %d", c.Name, len(c.Values), n)
		}
		n = len(c.Values)
	}
	return &Dataset{ID: uuid.NewString(), Name: name, Columns: cols}, nil
}

// Rows returns the number of rows.
func (d *Dataset) Rows() int {
	if d == nil || len(d.Columns) == 0 {
		return 0
	}
	return len(d.Columns[0].Values)
}

// Empty reports whether the dataset has no rows.
func (d *Dataset) Empty() bool { return d.Rows() == 0 }

// ColumnNames returns column names in order.
func (d *Dataset) ColumnNames() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Name
	}
	return out
}

// Column looks up a column by exact name.
func (d *Dataset) Column(name string) (*Column, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Row returns the raw text of row i, in column order.
func (d *Dataset) Row(i int) []string {
	out := make([]string, len(d.Columns))
	for j, c := range d.Columns {
		out[j] = c.Values[i].Raw
	}
	return out
}

// Head returns the first n rows, keeping row order.
func (d *Dataset) Head(n int) *Dataset {
	if n > d.Rows() {
		n = d.Rows()
	}
	if n < 0 {
		n = 0
	}
	cols := make([]*Column, len(d.Columns))
	for i, c := range d.Columns {
		vals := make([]Value, n)
		copy(vals, c.Values[:n])
		cols[i] = &Column{Name: c.Name, Type: c.Type, Values: vals}
	}
	return d.derive(cols)
}

// Select keeps the named columns that exist, in the dataset's original column
// order. Unknown names are ignored.
func (d *Dataset) Select(names []string) *Dataset {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	cols := make([]*Column, 0, len(names))
	for _, c := range d.Columns {
		if !want[c.Name] {
			continue
		}
		vals := make([]Value, len(c.Values))
		copy(vals, c.Values)
		cols = append(cols, &Column{Name: c.Name, Type: c.Type, Values: vals})
	}
	return d.derive(cols)
}

// Where keeps rows for which keep returns true, in order.
func (d *Dataset) Where(keep func(row int) bool) *Dataset {
	idx := make([]int, 0, d.Rows())
	for i := 0; i < d.Rows(); i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	cols := make([]*Column, len(d.Columns))
	for j, c := range d.Columns {
		vals := make([]Value, len(idx))
		for k, i := range idx {
			vals[k] = c.Values[i]
		}
		cols[j] = &Column{Name: c.Name, Type: c.Type, Values: vals}
	}
	return d.derive(cols)
}

func (d *Dataset) derive(cols []*Column) *Dataset {
	return &Dataset{ID: d.ID, Name: d.Name, Columns: cols}
}

// Numbers returns the non-missing numeric values of a column.
func (c *Column) Numbers() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if !v.Missing {
			out = append(out, v.Num)
		}
	}
	return out
}

// Unique counts distinct non-missing values.
func (c *Column) Unique() int {
	seen := make(map[string]struct{})
	for _, v := range c.Values {
		if !v.Missing {
			seen[v.Raw] = struct{}{}
		}
	}
	return len(seen)
}
