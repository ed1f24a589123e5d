package frame

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrSchemaMismatch is returned when an operation names a column the table
// does not carry, or a column of the wrong kind.
var ErrSchemaMismatch = errors.New("schema mismatch")

// Kind is the value type of a column.
type Kind int

const (
	Text Kind = iota
	Number
)

func (k Kind) String() string {
	if k == Number {
		return "number"
	}
	return "text"
}

type Column struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Cell holds one value. Numeric cells keep a display text as well.
type Cell struct {
	Text string
	Num  float64
	Null bool
}

func NullCell() Cell { return Cell{Null: true, Num: math.NaN()} }

func TextCell(s string) Cell { return Cell{Text: s, Num: math.NaN()} }

func NumberCell(v float64) Cell {
	if math.IsNaN(v) {
		return NullCell()
	}
	return Cell{Text: strconv.FormatFloat(v, 'f', -1, 64), Num: v}
}

func (c Cell) String() string {
	if c.Null {
		return ""
	}
	return c.Text
}

// Table is an immutable, column-typed set of rows. Operations never modify
// their inputs; they return new tables that may share cell storage.
type Table struct {
	cols  []Column
	index map[string]int
	rows  [][]Cell
}

// New builds a table. Every row must have one cell per column.
func New(cols []Column, rows [][]Cell) (*Table, error) {
	index := make(map[string]int, len(cols))
	for i, c := range cols {
		if _, dup := index[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", c.Name)
		}
		index[c.Name] = i
	}
	for i, r := range rows {
		if len(r) != len(cols) {
			return nil, fmt.Errorf("row %d has %d cells, want %d", i, len(r), len(cols))
		}
	}
	return &Table{cols: append([]Column(nil), cols...), index: index, rows: rows}, nil
}

// MustNew is New for literal tables in tests and fixed schemas.
func MustNew(cols []Column, rows [][]Cell) *Table {
	t, err := New(cols, rows)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) withRows(rows [][]Cell) *Table {
	return &Table{cols: t.cols, index: t.index, rows: rows}
}

func (t *Table) Columns() []Column { return append([]Column(nil), t.cols...) }

func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

func (t *Table) Len() int { return len(t.rows) }

// Empty reports whether a filter or join produced no rows.
func (t *Table) Empty() bool { return len(t.rows) == 0 }

func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Column returns the position and kind of col.
func (t *Table) Column(col string) (int, Kind, error) {
	i, ok := t.index[col]
	if !ok {
		return 0, Text, fmt.Errorf("%w: no column %q", ErrSchemaMismatch, col)
	}
	return i, t.cols[i].Kind, nil
}

func (t *Table) numericColumn(col string) (int, error) {
	i, kind, err := t.Column(col)
	if err != nil {
		return 0, err
	}
	if kind != Number {
		return 0, fmt.Errorf("%w: column %q is %s, want number", ErrSchemaMismatch, col, kind)
	}
	return i, nil
}

// Row returns a copy of row i.
func (t *Table) Row(i int) Row {
	return Row{t: t, cells: append([]Cell(nil), t.rows[i]...)}
}

// Cell returns a single value; ok is false when col is unknown.
func (t *Table) Cell(i int, col string) (Cell, bool) {
	j, ok := t.index[col]
	if !ok {
		return Cell{}, false
	}
	return t.rows[i][j], true
}

// Floats returns the non-null values of a numeric column in row order.
func (t *Table) Floats(col string) ([]float64, error) {
	j, err := t.numericColumn(col)
	if err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(t.rows))
	for _, r := range t.rows {
		if !r[j].Null {
			out = append(out, r[j].Num)
		}
	}
	return out, nil
}

// Pairs returns (x, y) for rows where both numeric columns are non-null.
func (t *Table) Pairs(xcol, ycol string) ([]float64, []float64, error) {
	xi, err := t.numericColumn(xcol)
	if err != nil {
		return nil, nil, err
	}
	yi, err := t.numericColumn(ycol)
	if err != nil {
		return nil, nil, err
	}
	var xs, ys []float64
	for _, r := range t.rows {
		if r[xi].Null || r[yi].Null {
			continue
		}
		xs = append(xs, r[xi].Num)
		ys = append(ys, r[yi].Num)
	}
	return xs, ys, nil
}

func (t *Table) Strings(col string) ([]string, error) {
	j, _, err := t.Column(col)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(t.rows))
	for i, r := range t.rows {
		out[i] = r[j].String()
	}
	return out, nil
}

// Head returns the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.rows) {
		n = len(t.rows)
	}
	return t.withRows(t.rows[:n:n])
}

// Records renders the table as text, header first.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.rows)+1)
	out = append(out, t.Names())
	for _, r := range t.rows {
		rec := make([]string, len(r))
		for j, c := range r {
			rec[j] = c.String()
		}
		out = append(out, rec)
	}
	return out
}

// Row is a read-only view of one table row.
type Row struct {
	t     *Table
	cells []Cell
}

func (r Row) Get(col string) (Cell, bool) {
	j, ok := r.t.index[col]
	if !ok {
		return Cell{}, false
	}
	return r.cells[j], true
}

func (r Row) Cells() []Cell { return append([]Cell(nil), r.cells...) }
