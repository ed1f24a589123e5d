package templates

import (
	"math"

	"github.com/dustin/go-humanize"

	"superbowl-dash/frame"
)

// Table is a display-ready table: headers plus formatted cells.
type Table struct {
	Columns []string
	Numeric []bool
	Rows    [][]string
}

// Section is one titled block of the dashboard: a note plus a table, a
// chart, or both.
type Section struct {
	ID    string
	Title string
	Note  string
	Table *Table
	// Chart is the image URL; empty when the section has no figure.
	Chart string
	// Charts holds stacked figures rendered as one panel.
	Charts []string
	// Message replaces the figure when it cannot be drawn.
	Message string
	// Collapsed renders the table inside a closed <details> element.
	Collapsed bool
}

// Figures lists the section's image URLs in display order.
func (s Section) Figures() []string {
	if s.Chart == "" {
		return s.Charts
	}
	return append([]string{s.Chart}, s.Charts...)
}

type DashboardPageData struct {
	Title    string
	Source   string
	LoadedAt string
	Sections []Section
}

type ErrorPageData struct {
	Title   string
	Status  int
	Message string
}

// IsNumeric reports whether column j holds numbers.
func (t *Table) IsNumeric(j int) bool {
	return j < len(t.Numeric) && t.Numeric[j]
}

// FromTable formats t for display. Whole numbers get thousands separators,
// other numbers keep their decimals.
func FromTable(t *frame.Table) *Table {
	cols := t.Columns()
	out := &Table{
		Columns: make([]string, len(cols)),
		Numeric: make([]bool, len(cols)),
		Rows:    make([][]string, t.Len()),
	}
	for j, c := range cols {
		out.Columns[j] = c.Name
		out.Numeric[j] = c.Kind == frame.Number
	}
	for i := 0; i < t.Len(); i++ {
		cells := t.Row(i).Cells()
		row := make([]string, len(cells))
		for j, c := range cells {
			row[j] = FormatCell(c, out.Numeric[j], cols[j].Name)
		}
		out.Rows[i] = row
	}
	return out
}

// FormatCell renders one value. Identifier-like columns (super_bowl) are
// left without separators.
func FormatCell(c frame.Cell, numeric bool, column string) string {
	switch {
	case c.Null:
		return "—"
	case !numeric:
		return c.Text
	case column == "super_bowl":
		return c.Text
	case c.Num == math.Trunc(c.Num) && math.Abs(c.Num) < 1e15:
		return humanize.Comma(int64(c.Num))
	default:
		return humanize.Commaf(c.Num)
	}
}

func FormatFloat(v float64) string {
	return humanize.FormatFloat("#,###.###", v)
}
