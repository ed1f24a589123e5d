package frame

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// ReadOptions controls CSV decoding.
type ReadOptions struct {
	// Delimiter defaults to ','.
	Delimiter rune
	// NullValues are read as null cells in addition to the empty string.
	NullValues []string
}

var defaultNullValues = []string{"", "NA", "NaN", "nan", "<nil>"}

// ReadCSV decodes a delimited stream with a header row. Column kinds are
// detected from the data: integer and float columns become Number, anything
// else Text. A column with no values at all is Number, all null.
func ReadCSV(r io.Reader, opts ReadOptions) (*Table, error) {
	delim := opts.Delimiter
	if delim == 0 {
		delim = ','
	}
	nulls := append(append([]string(nil), defaultNullValues...), opts.NullValues...)

	df := dataframe.ReadCSV(r,
		dataframe.WithDelimiter(delim),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.NaNValues(nulls),
	)
	if df.Err != nil {
		return nil, fmt.Errorf("decode csv: %w", df.Err)
	}
	return fromDataFrame(df)
}

func fromDataFrame(df dataframe.DataFrame) (*Table, error) {
	names := df.Names()
	nrow := df.Nrow()
	cols := make([]Column, len(names))
	rows := make([][]Cell, nrow)
	for i := range rows {
		rows[i] = make([]Cell, len(names))
	}
	for j, name := range names {
		s := df.Col(name)
		kind := Text
		if t := s.Type(); t == series.Int || t == series.Float || allNA(s) {
			kind = Number
		}
		cols[j] = Column{Name: name, Kind: kind}
		for i := 0; i < nrow; i++ {
			e := s.Elem(i)
			switch {
			case e.IsNA():
				rows[i][j] = NullCell()
			case kind == Number:
				rows[i][j] = NumberCell(e.Float())
			default:
				rows[i][j] = TextCell(e.String())
			}
		}
	}
	return New(cols, rows)
}

func allNA(s series.Series) bool {
	for i := 0; i < s.Len(); i++ {
		if !s.Elem(i).IsNA() {
			return false
		}
	}
	return true
}
