package frame

import (
	"fmt"
	"sort"
	"strings"
)

// Comparator is a numeric predicate used by FilterByThreshold.
type Comparator int

const (
	Eq Comparator = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

var comparatorSymbols = map[Comparator]string{Eq: "==", Ne: "!=", Lt: "<", Le: "<=", Gt: ">", Ge: ">="}

func (c Comparator) String() string {
	if s, ok := comparatorSymbols[c]; ok {
		return s
	}
	return fmt.Sprintf("Comparator(%d)", int(c))
}

// ParseComparator maps "==", ">=", ... to a Comparator.
func ParseComparator(s string) (Comparator, error) {
	for c, sym := range comparatorSymbols {
		if sym == strings.TrimSpace(s) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown comparator %q", s)
}

func (c Comparator) holds(a, b float64) bool {
	switch c {
	case Eq:
		return a == b
	case Ne:
		return a != b
	case Lt:
		return a < b
	case Le:
		return a <= b
	case Gt:
		return a > b
	case Ge:
		return a >= b
	}
	return false
}

// FilterByThreshold keeps the rows whose numeric column satisfies
// cell <cmp> value, in their original order. Null cells never match.
func FilterByThreshold(t *Table, column string, cmp Comparator, value float64) (*Table, error) {
	j, err := t.numericColumn(column)
	if err != nil {
		return nil, err
	}
	if _, ok := comparatorSymbols[cmp]; !ok {
		return nil, fmt.Errorf("filter %s: unknown comparator %d", column, int(cmp))
	}
	var rows [][]Cell
	for _, r := range t.rows {
		if !r[j].Null && cmp.holds(r[j].Num, value) {
			rows = append(rows, r)
		}
	}
	return t.withRows(rows), nil
}

type joinKey struct {
	num  float64
	text string
	kind Kind
}

func keyOf(c Cell, kind Kind) joinKey {
	if kind == Number {
		return joinKey{num: c.Num, kind: Number}
	}
	return joinKey{text: c.Text, kind: Text}
}

// InnerJoin matches rows of left and right on key. The result carries the
// left columns followed by the right columns except key; other clashing names
// get "_x" and "_y" suffixes. Rows follow left order, then right order.
func InnerJoin(left, right *Table, key string) (*Table, error) {
	li, lkind, err := left.Column(key)
	if err != nil {
		return nil, fmt.Errorf("join left: %w", err)
	}
	ri, rkind, err := right.Column(key)
	if err != nil {
		return nil, fmt.Errorf("join right: %w", err)
	}
	if lkind != rkind {
		return nil, fmt.Errorf("%w: join key %q is %s on the left and %s on the right", ErrSchemaMismatch, key, lkind, rkind)
	}

	cols := make([]Column, 0, len(left.cols)+len(right.cols)-1)
	for _, c := range left.cols {
		if c.Name != key && right.Has(c.Name) {
			c.Name += "_x"
		}
		cols = append(cols, c)
	}
	for j, c := range right.cols {
		if j == ri {
			continue
		}
		if left.Has(c.Name) {
			c.Name += "_y"
		}
		cols = append(cols, c)
	}

	byKey := make(map[joinKey][]int)
	for i, r := range right.rows {
		if r[ri].Null {
			continue
		}
		k := keyOf(r[ri], rkind)
		byKey[k] = append(byKey[k], i)
	}

	var rows [][]Cell
	for _, lr := range left.rows {
		if lr[li].Null {
			continue
		}
		for _, i := range byKey[keyOf(lr[li], lkind)] {
			rr := right.rows[i]
			out := make([]Cell, 0, len(cols))
			out = append(out, lr...)
			out = append(out, rr[:ri]...)
			out = append(out, rr[ri+1:]...)
			rows = append(rows, out)
		}
	}
	return New(cols, rows)
}

// CountColumn names the count column produced by CountByGroup.
const CountColumn = "count"

// CountByGroup returns one row per distinct value of groupKey with the number
// of rows holding it, sorted by count descending. Ties keep first-seen order.
// Null values are counted as their own group.
func CountByGroup(t *Table, groupKey string) (*Table, error) {
	j, kind, err := t.Column(groupKey)
	if err != nil {
		return nil, err
	}
	type group struct {
		cell  Cell
		count int
	}
	var (
		groups []*group
		seen   = make(map[joinKey]*group)
		null   *group
	)
	for _, r := range t.rows {
		c := r[j]
		if c.Null {
			if null == nil {
				null = &group{cell: c}
				groups = append(groups, null)
			}
			null.count++
			continue
		}
		k := keyOf(c, kind)
		g, ok := seen[k]
		if !ok {
			g = &group{cell: c}
			seen[k] = g
			groups = append(groups, g)
		}
		g.count++
	}
	sort.SliceStable(groups, func(a, b int) bool { return groups[a].count > groups[b].count })

	cols := []Column{{Name: groupKey, Kind: kind}, {Name: CountColumn, Kind: Number}}
	if groupKey == CountColumn {
		cols[1].Name = CountColumn + "_n"
	}
	rows := make([][]Cell, len(groups))
	for i, g := range groups {
		rows[i] = []Cell{g.cell, NumberCell(float64(g.count))}
	}
	return New(cols, rows)
}

// ExcludeByNamePattern drops rows whose column value contains any of the
// patterns. Matching is case-sensitive; null cells are kept.
func ExcludeByNamePattern(t *Table, column string, patterns []string) (*Table, error) {
	j, _, err := t.Column(column)
	if err != nil {
		return nil, err
	}
	var rows [][]Cell
	for _, r := range t.rows {
		if r[j].Null || !containsAny(r[j].Text, patterns) {
			rows = append(rows, r)
		}
	}
	return t.withRows(rows), nil
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// TopN returns the first n rows after a stable sort on sortColumn. Nulls sort
// last in either direction.
func TopN(t *Table, sortColumn string, n int, descending bool) (*Table, error) {
	j, kind, err := t.Column(sortColumn)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		return t.withRows(nil), nil
	}
	rows := make([][]Cell, len(t.rows))
	copy(rows, t.rows)
	sort.SliceStable(rows, func(a, b int) bool {
		ca, cb := rows[a][j], rows[b][j]
		if ca.Null || cb.Null {
			return !ca.Null && cb.Null
		}
		if descending {
			return less(cb, ca, kind)
		}
		return less(ca, cb, kind)
	})
	if n < len(rows) {
		rows = rows[:n:n]
	}
	return t.withRows(rows), nil
}

func less(a, b Cell, kind Kind) bool {
	if kind == Number {
		return a.Num < b.Num
	}
	return a.Text < b.Text
}

// WithColumn returns a copy of t where col holds cells, replacing an existing
// column of the same name in place or appending a new one.
func WithColumn(t *Table, col Column, cells []Cell) (*Table, error) {
	if len(cells) != len(t.rows) {
		return nil, fmt.Errorf("column %q has %d cells, table has %d rows", col.Name, len(cells), len(t.rows))
	}
	cols := t.Columns()
	j, exists := t.index[col.Name]
	if exists {
		cols[j] = col
	} else {
		j = len(cols)
		cols = append(cols, col)
	}
	rows := make([][]Cell, len(t.rows))
	for i, r := range t.rows {
		out := make([]Cell, len(cols))
		copy(out, r)
		out[j] = cells[i]
		rows[i] = out
	}
	return New(cols, rows)
}
