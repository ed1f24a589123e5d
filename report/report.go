// Package report runs the fixed dashboard pipeline over a loaded dataset:
// previews, closest games and blowouts, the games/TV join with its share
// regression, viewership series and the halftime performer breakdowns.
package report

import (
	"errors"
	"fmt"

	"superbowl-dash/dataset"
	"superbowl-dash/frame"
	"superbowl-dash/stats"
)

const (
	PreviewRows = 5
	// ClosestMargin selects the closest games by point difference.
	ClosestMargin = 1
	// BlowoutMargin is the smallest point difference counted as a blowout.
	BlowoutMargin = 25
	// FirstJoinedGame skips Super Bowl I, which aired on two networks.
	FirstJoinedGame = 1
	// LastEarlyHalftime is the last Super Bowl listed among early halftime shows.
	LastEarlyHalftime = 27
	TopSongsN         = 15
)

// BandPatterns mark marching-band and spirit-squad entries in the performer list.
var BandPatterns = []string{"Marching", "Spirit"}

// Series is one x/y line, ordered by x.
type Series struct {
	Name string    `json:"name"`
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
}

// Scatter is the point cloud behind the share regression.
type Scatter struct {
	XName string    `json:"x_name"`
	YName string    `json:"y_name"`
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
}

type Previews struct {
	Games        *frame.Table `json:"games"`
	Broadcasts   *frame.Table `json:"broadcasts"`
	Performances *frame.Table `json:"performances"`
}

type Report struct {
	Previews Previews `json:"previews"`

	PointDifferences []stats.Bin `json:"point_differences"`
	ClosestGames     *frame.Table `json:"closest_games"`
	Blowouts         *frame.Table `json:"blowouts"`

	GamesTV  *frame.Table `json:"games_tv"`
	Share    Scatter      `json:"share_vs_difference"`
	ShareFit *stats.Fit   `json:"share_fit,omitempty"`
	// FitErr is set instead of ShareFit when the join is too small to fit.
	FitErr   error  `json:"-"`
	FitError string `json:"share_fit_error,omitempty"`

	Viewers Series `json:"avg_us_viewers"`
	Rating  Series `json:"rating_household"`
	AdCost  Series `json:"ad_cost"`

	EarlyHalftime    *frame.Table `json:"early_halftime"`
	RepeatPerformers *frame.Table `json:"repeat_performers"`
	NonBand          *frame.Table `json:"non_band"`
	SongsPerShow     []stats.Bin  `json:"songs_per_performance"`
	TopSongs         *frame.Table `json:"top_songs"`
}

// Build runs every dashboard transformation. Schema problems abort the
// build; an undersized regression sample is recorded in FitErr.
func Build(ds *dataset.Dataset) (*Report, error) {
	r := &Report{
		Previews: Previews{
			Games:        ds.Games.Head(PreviewRows),
			Broadcasts:   ds.Broadcasts.Head(PreviewRows),
			Performances: ds.Performances.Head(PreviewRows),
		},
	}
	if err := r.games(ds); err != nil {
		return nil, fmt.Errorf("games: %w", err)
	}
	if err := r.broadcasts(ds); err != nil {
		return nil, fmt.Errorf("broadcasts: %w", err)
	}
	if err := r.halftime(ds); err != nil {
		return nil, fmt.Errorf("halftime: %w", err)
	}
	return r, nil
}

func (r *Report) games(ds *dataset.Dataset) error {
	diffs, err := ds.Games.Floats(dataset.DifferencePts)
	if err != nil {
		return err
	}
	r.PointDifferences = stats.Histogram(diffs, stats.DefaultBins)

	if r.ClosestGames, err = frame.FilterByThreshold(ds.Games, dataset.DifferencePts, frame.Eq, ClosestMargin); err != nil {
		return err
	}
	r.Blowouts, err = frame.FilterByThreshold(ds.Games, dataset.DifferencePts, frame.Ge, BlowoutMargin)
	return err
}

func (r *Report) broadcasts(ds *dataset.Dataset) error {
	tv, err := frame.FilterByThreshold(ds.Broadcasts, dataset.SuperBowl, frame.Gt, FirstJoinedGame)
	if err != nil {
		return err
	}
	if r.GamesTV, err = frame.InnerJoin(tv, ds.Games, dataset.SuperBowl); err != nil {
		return err
	}

	x, y, err := r.GamesTV.Pairs(dataset.DifferencePts, dataset.ShareHousehold)
	if err != nil {
		return err
	}
	r.Share = Scatter{XName: dataset.DifferencePts, YName: dataset.ShareHousehold, X: x, Y: y}
	fit, err := stats.LinearFit(x, y)
	switch {
	case errors.Is(err, stats.ErrInsufficientSample):
		r.FitErr, r.FitError = err, err.Error()
	case err != nil:
		return err
	default:
		r.ShareFit = &fit
	}

	byGame, err := frame.TopN(ds.Broadcasts, dataset.SuperBowl, ds.Broadcasts.Len(), false)
	if err != nil {
		return err
	}
	for _, s := range []struct {
		dst *Series
		col string
	}{{&r.Viewers, dataset.AvgUSViewers}, {&r.Rating, dataset.RatingHousehold}, {&r.AdCost, dataset.AdCost}} {
		x, y, err := byGame.Pairs(dataset.SuperBowl, s.col)
		if err != nil {
			return err
		}
		*s.dst = Series{Name: s.col, X: x, Y: y}
	}
	return nil
}

func (r *Report) halftime(ds *dataset.Dataset) error {
	var err error
	if r.EarlyHalftime, err = frame.FilterByThreshold(ds.Performances, dataset.SuperBowl, frame.Le, LastEarlyHalftime); err != nil {
		return err
	}

	counts, err := frame.CountByGroup(ds.Performances, dataset.Musician)
	if err != nil {
		return err
	}
	if r.RepeatPerformers, err = frame.FilterByThreshold(counts, frame.CountColumn, frame.Gt, 1); err != nil {
		return err
	}

	if r.NonBand, err = frame.ExcludeByNamePattern(ds.Performances, dataset.Musician, BandPatterns); err != nil {
		return err
	}
	songs, err := r.NonBand.Floats(dataset.NumSongs)
	if err != nil {
		return err
	}
	r.SongsPerShow = stats.Histogram(songs, songBins(songs))

	r.TopSongs, err = frame.TopN(r.NonBand, dataset.NumSongs, TopSongsN, true)
	return err
}

// songBins gives one bin per song up to the largest performance.
func songBins(songs []float64) int {
	most := 0
	for _, s := range songs {
		if int(s) > most {
			most = int(s)
		}
	}
	if most < 1 {
		return 1
	}
	return most
}
