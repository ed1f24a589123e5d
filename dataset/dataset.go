// Package dataset loads the three Super Bowl tables (games, TV broadcasts and
// halftime performers), checks their schema and derives the per-game score
// columns.
package dataset

import (
	"errors"
	"fmt"
	"math"

	"superbowl-dash/frame"
)

// ErrDataUnavailable is returned when an input is missing, unreadable or not
// a well-formed delimited file.
var ErrDataUnavailable = errors.New("data unavailable")

// Column names shared by the three inputs.
const (
	SuperBowl = "super_bowl"

	WinningPts    = "winning_pts"
	LosingPts     = "losing_pts"
	DifferencePts = "difference_pts"
	CombinedPts   = "combined_pts"

	AvgUSViewers    = "avg_us_viewers"
	RatingHousehold = "rating_household"
	ShareHousehold  = "share_household"
	AdCost          = "ad_cost"

	Musician = "musician"
	NumSongs = "num_songs"
)

// Table names, used for messages and as SQLite table names.
const (
	GamesTable        = "super_bowls"
	BroadcastsTable   = "tv"
	PerformancesTable = "halftime_musicians"
)

type requirement struct {
	name    string
	numeric bool
}

var schemas = map[string][]requirement{
	GamesTable:        {{SuperBowl, true}, {WinningPts, true}, {LosingPts, true}},
	BroadcastsTable:   {{SuperBowl, true}, {AvgUSViewers, true}, {RatingHousehold, true}, {ShareHousehold, true}, {AdCost, true}},
	PerformancesTable: {{SuperBowl, true}, {Musician, false}, {NumSongs, true}},
}

// Dataset is the immutable result of one load.
type Dataset struct {
	Games        *frame.Table
	Broadcasts   *frame.Table
	Performances *frame.Table

	// Corrections counts game rows whose difference_pts or combined_pts
	// from the input disagreed with the scores and were recomputed.
	Corrections int
}

// Tables returns the three tables keyed by table name.
func (d *Dataset) Tables() map[string]*frame.Table {
	return map[string]*frame.Table{
		GamesTable:        d.Games,
		BroadcastsTable:   d.Broadcasts,
		PerformancesTable: d.Performances,
	}
}

// Assemble validates the raw tables and derives the game score columns.
func Assemble(games, broadcasts, performances *frame.Table) (*Dataset, error) {
	inputs := []struct {
		name string
		t    *frame.Table
	}{{GamesTable, games}, {BroadcastsTable, broadcasts}, {PerformancesTable, performances}}
	for _, in := range inputs {
		if err := checkSchema(in.name, in.t); err != nil {
			return nil, err
		}
	}
	games, corrections, err := deriveScores(games)
	if err != nil {
		return nil, err
	}
	return &Dataset{Games: games, Broadcasts: broadcasts, Performances: performances, Corrections: corrections}, nil
}

func checkSchema(name string, t *frame.Table) error {
	for _, req := range schemas[name] {
		_, kind, err := t.Column(req.name)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if req.numeric && kind != frame.Number {
			return fmt.Errorf("%s: %w: column %q is %s, want number", name, frame.ErrSchemaMismatch, req.name, kind)
		}
	}
	return nil
}

// deriveScores (re)computes difference_pts = |winning - losing| and
// combined_pts = winning + losing for every game.
func deriveScores(games *frame.Table) (*frame.Table, int, error) {
	n := games.Len()
	diffs := make([]frame.Cell, n)
	sums := make([]frame.Cell, n)
	corrections := 0
	for i := 0; i < n; i++ {
		w, _ := games.Cell(i, WinningPts)
		l, _ := games.Cell(i, LosingPts)
		if w.Null || l.Null {
			diffs[i], sums[i] = frame.NullCell(), frame.NullCell()
		} else {
			diffs[i] = frame.NumberCell(math.Abs(w.Num - l.Num))
			sums[i] = frame.NumberCell(w.Num + l.Num)
		}
		if disagrees(games, i, DifferencePts, diffs[i]) || disagrees(games, i, CombinedPts, sums[i]) {
			corrections++
		}
	}
	out, err := frame.WithColumn(games, frame.Column{Name: DifferencePts, Kind: frame.Number}, diffs)
	if err != nil {
		return nil, 0, err
	}
	out, err = frame.WithColumn(out, frame.Column{Name: CombinedPts, Kind: frame.Number}, sums)
	if err != nil {
		return nil, 0, err
	}
	return out, corrections, nil
}

func disagrees(t *frame.Table, i int, col string, want frame.Cell) bool {
	got, ok := t.Cell(i, col)
	if !ok {
		return false
	}
	if got.Null || want.Null {
		return got.Null != want.Null
	}
	return got.Num != want.Num
}
