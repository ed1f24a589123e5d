package main

import (
	"fmt"

	"superbowl-dash/report"
	"superbowl-dash/stats"
	"superbowl-dash/templates"
)

// buildSections lays the report out as dashboard sections, in reading order.
func buildSections(r *report.Report) []templates.Section {
	sections := []templates.Section{
		{ID: "games", Title: "Super Bowls", Note: "First rows of the game results.", Table: templates.FromTable(r.Previews.Games)},
		{ID: "tv", Title: "TV Broadcasts", Note: "First rows of the viewership data.", Table: templates.FromTable(r.Previews.Broadcasts)},
		{ID: "musicians", Title: "Halftime Musicians", Note: "First rows of the halftime performer list.", Table: templates.FromTable(r.Previews.Performances)},
		{
			ID:    "point-differences",
			Title: "Histogram of Point Differences",
			Note:  fmt.Sprintf("Winning margins of %d games.", binned(r.PointDifferences)),
			Chart: chartURL("point-differences"),
		},
		{
			ID:    "closest",
			Title: "Closest Game(s)",
			Note:  fmt.Sprintf("Games decided by %d point.", report.ClosestMargin),
			Table: templates.FromTable(r.ClosestGames),
		},
		{
			ID:    "blowouts",
			Title: "Biggest Blowouts",
			Note:  fmt.Sprintf("Games won by %d points or more.", report.BlowoutMargin),
			Table: templates.FromTable(r.Blowouts),
		},
		shareSection(r),
		{
			ID:     "viewership",
			Title:  "Viewers, Ratings and Ad Cost",
			Note:   "One point per Super Bowl from the TV data.",
			Charts: []string{chartURL("avg-us-viewers"), chartURL("rating-household"), chartURL("ad-cost")},
		},
		{
			ID:        "early-halftime",
			Title:     "Halftime Musicians",
			Note:      fmt.Sprintf("Performers up to and including Super Bowl %d.", report.LastEarlyHalftime),
			Table:     templates.FromTable(r.EarlyHalftime),
			Collapsed: true,
		},
		{
			ID:    "repeat-performers",
			Title: "Musicians with Multiple Halftime Show Appearances",
			Table: templates.FromTable(r.RepeatPerformers),
		},
		{
			ID:    "songs-per-performance",
			Title: "Histogram of Number of Songs Per Performance",
			Note:  fmt.Sprintf("%d performances; marching bands and spirit squads are left out.", binned(r.SongsPerShow)),
			Chart: chartURL("songs-per-performance"),
		},
		{
			ID:    "top-songs",
			Title: fmt.Sprintf("Top %d Non-Band Musicians by Number of Songs Per Appearance", report.TopSongsN),
			Table: templates.FromTable(r.TopSongs),
		},
	}
	for i := range sections {
		if chartEmpty(r, sections[i].ID) {
			sections[i].Chart, sections[i].Charts = "", nil
			sections[i].Message = "No data to plot."
		}
	}
	return sections
}

func chartEmpty(r *report.Report, id string) bool {
	switch id {
	case "point-differences":
		return len(r.PointDifferences) == 0
	case "songs-per-performance":
		return len(r.SongsPerShow) == 0
	case "viewership":
		return len(r.Viewers.X) == 0
	}
	return false
}

func shareSection(r *report.Report) templates.Section {
	s := templates.Section{
		ID:        "share-vs-difference",
		Title:     "Household Share vs Point Difference",
		Note:      "Games joined with their TV data. Super Bowl I is left out: it aired on two networks.",
		Table:     templates.FromTable(r.GamesTV),
		Collapsed: true,
	}
	if len(r.Share.X) > 0 {
		s.Chart = chartURL("share-vs-difference")
	}
	fit := r.ShareFit
	if fit == nil {
		s.Message = fmt.Sprintf("No regression line: %s.", r.FitError)
		return s
	}
	s.Note = fmt.Sprintf("%s Over %d games: share = %s %+.3f × difference (R² %s).",
		trend(fit.Slope), fit.N, templates.FormatFloat(fit.Intercept), fit.Slope, templates.FormatFloat(fit.RSquared))
	return s
}

func trend(slope float64) string {
	switch {
	case slope < 0:
		return "Closer games draw a larger household share."
	case slope > 0:
		return "Lopsided games draw a larger household share."
	}
	return "Household share does not move with the point difference."
}

func binned(bins []stats.Bin) int {
	n := 0
	for _, b := range bins {
		n += b.Count
	}
	return n
}
