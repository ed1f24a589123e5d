package main

import (
	"io"

	"superbowl-dash/charts"
	"superbowl-dash/report"
)

// figure is one chart of the dashboard, addressable as /charts/{name}.png.
type figure struct {
	name   string
	title  string
	render func(w io.Writer, r *report.Report) error
}

var figures = []figure{
	{
		name:  "point-differences",
		title: "Histogram of Point Differences",
		render: func(w io.Writer, r *report.Report) error {
			return charts.Histogram(w, r.PointDifferences, charts.Labels{Title: "Point differences", X: "Point Difference", Y: "Number of Super Bowls"})
		},
	},
	{
		name:  "share-vs-difference",
		title: "Household Share vs Point Difference",
		render: func(w io.Writer, r *report.Report) error {
			return charts.RegressionScatter(w, r.Share, r.ShareFit, charts.Labels{Title: "Household share vs point difference", X: "difference_pts", Y: "share_household"})
		},
	},
	{
		name:  "avg-us-viewers",
		title: "Average Number of US Viewers",
		render: func(w io.Writer, r *report.Report) error {
			return charts.TimeSeries(w, r.Viewers, 0, charts.Labels{Title: "Average Number of US Viewers", X: "SUPER BOWL"})
		},
	},
	{
		name:  "rating-household",
		title: "Household Rating",
		render: func(w io.Writer, r *report.Report) error {
			return charts.TimeSeries(w, r.Rating, 1, charts.Labels{Title: "Household Rating", X: "SUPER BOWL"})
		},
	},
	{
		name:  "ad-cost",
		title: "Ad Cost",
		render: func(w io.Writer, r *report.Report) error {
			return charts.TimeSeries(w, r.AdCost, 2, charts.Labels{Title: "Ad Cost", X: "SUPER BOWL"})
		},
	},
	{
		name:  "songs-per-performance",
		title: "Histogram of Number of Songs Per Performance",
		render: func(w io.Writer, r *report.Report) error {
			return charts.Histogram(w, r.SongsPerShow, charts.Labels{Title: "Songs per halftime performance", X: "Number of Songs Per Halftime Show Performance", Y: "Number of Musicians"})
		},
	},
}

func findFigure(name string) (figure, bool) {
	for _, f := range figures {
		if f.name == name {
			return f, true
		}
	}
	return figure{}, false
}

func chartURL(name string) string { return "/charts/" + name + ".png" }
