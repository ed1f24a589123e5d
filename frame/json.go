package frame

import "encoding/json"

type tableJSON struct {
	Columns []Column `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// MarshalJSON encodes the table as {"columns": [...], "rows": [[...]]} with
// numbers as JSON numbers and nulls as null.
func (t *Table) MarshalJSON() ([]byte, error) {
	out := tableJSON{Columns: t.cols, Rows: make([][]any, len(t.rows))}
	for i, r := range t.rows {
		vals := make([]any, len(r))
		for j, c := range r {
			switch {
			case c.Null:
				vals[j] = nil
			case t.cols[j].Kind == Number:
				vals[j] = c.Num
			default:
				vals[j] = c.Text
			}
		}
		out.Rows[i] = vals
	}
	return json.Marshal(out)
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }
