package table

import (
	"fmt"
	"strconv"
	"time"
)

// ============================================================================
// CANONICAL TABLE — the shared contract every downstream stage reads
// ============================================================================
// Ordered rows, named typed columns. Row identity is the 0-based index
// assigned at parse time; indices are contiguous and are never renumbered by
// downstream stages — rows are only filtered out or aggregated away.
// A Table is read-only after construction.
// ============================================================================

// Kind is the inferred type of a column (and of each cell in it).
type Kind int

const (
	KindNull Kind = iota
	KindNumber
	KindText
	KindDate
	KindBool
)

// String returns the lowercase name used in serialized schemas.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindDate:
		return "date"
	case KindBool:
		return "bool"
	default:
		return "null"
	}
}

// Cell is one typed scalar. Exactly the field matching Kind is meaningful;
// KindNull cells carry nothing.
type Cell struct {
	Kind Kind
	Num  float64
	Str  string
	Time time.Time
	Bool bool
}

// IsNull reports whether the cell holds no value.
func (c Cell) IsNull() bool { return c.Kind == KindNull }

// Label renders the cell as a display string (tick labels, legends).
func (c Cell) Label() string {
	switch c.Kind {
	case KindNumber:
		if c.Num == float64(int64(c.Num)) {
			return strconv.FormatInt(int64(c.Num), 10)
		}
		return strconv.FormatFloat(c.Num, 'f', 2, 64)
	case KindText:
		return c.Str
	case KindDate:
		return c.Time.Format("2006-01-02")
	case KindBool:
		return strconv.FormatBool(c.Bool)
	default:
		return ""
	}
}

// Column is a named, typed column stored column-major for cheap scans.
type Column struct {
	Name  string
	Kind  Kind
	Cells []Cell
}

// Table is the canonical tabular structure.
type Table struct {
	cols  []Column
	index map[string]int // column name → position in cols
}

// New builds a Table from columns. All columns must have equal length.
func New(cols []Column) (*Table, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("table: no columns")
	}
	n := len(cols[0].Cells)
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if len(c.Cells) != n {
			return nil, fmt.Errorf("table: column %q has %d rows, want %d", c.Name, len(c.Cells), n)
		}
		if _, dup := index[c.Name]; dup {
			return nil, fmt.Errorf("table: duplicate column %q", c.Name)
		}
		index[c.Name] = i
	}
	return &Table{cols: cols, index: index}, nil
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0].Cells)
}

// ColumnNames returns the ordered column names.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return &t.cols[i], true
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Cell returns the cell at (row, column). Out-of-range access returns a
// null cell, mirroring how absent values behave everywhere else.
func (t *Table) Cell(row int, name string) Cell {
	i, ok := t.index[name]
	if !ok || row < 0 || row >= t.Len() {
		return Cell{}
	}
	return t.cols[i].Cells[row]
}

// Label returns the display string for a cell, used for x-axis ticks.
func (t *Table) Label(row int, name string) string {
	return t.Cell(row, name).Label()
}

// Sample is one (row index, numeric value) pair from a numeric column.
// Indices reference the canonical table, not any reduced row set.
type Sample struct {
	Index int
	Value float64
}

// NumericColumn extracts the non-null numeric samples of a column, in row
// order. It is the detector's input: a missing column or a column with no
// numeric interpretation is an input error for the whole run.
func (t *Table) NumericColumn(name string) ([]Sample, error) {
	col, ok := t.Column(name)
	if !ok {
		return nil, fmt.Errorf("table: column %q not found (available: %v)", name, t.ColumnNames())
	}
	if col.Kind != KindNumber {
		return nil, fmt.Errorf("table: column %q is %s, not numeric", name, col.Kind)
	}
	samples := make([]Sample, 0, len(col.Cells))
	for i, c := range col.Cells {
		if c.Kind == KindNumber {
			samples = append(samples, Sample{Index: i, Value: c.Num})
		}
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("table: column %q has no values", name)
	}
	return samples, nil
}
