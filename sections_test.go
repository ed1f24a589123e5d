package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superbowl-dash/report"
	"superbowl-dash/stats"
	"superbowl-dash/templates"
	"superbowl-dash/testutil"
)

func sectionByID(t *testing.T, secs []templates.Section, id string) templates.Section {
	t.Helper()
	for _, s := range secs {
		if s.ID == id {
			return s
		}
	}
	t.Fatalf("no section %q", id)
	return templates.Section{}
}

func TestBuildSections(t *testing.T) {
	rep, err := report.Build(testutil.Load(t))
	require.NoError(t, err)

	secs := buildSections(rep)

	ids := make([]string, len(secs))
	for i, s := range secs {
		ids[i] = s.ID
	}
	assert.Equal(t, []string{
		"games", "tv", "musicians", "point-differences", "closest", "blowouts",
		"share-vs-difference", "viewership", "early-halftime", "repeat-performers",
		"songs-per-performance", "top-songs",
	}, ids)

	share := sectionByID(t, secs, "share-vs-difference")
	assert.Equal(t, chartURL("share-vs-difference"), share.Chart)
	assert.Empty(t, share.Message)
	assert.Len(t, share.Table.Rows, testutil.JoinedGames)

	viewers := sectionByID(t, secs, "viewership")
	assert.Len(t, viewers.Charts, 3)

	// every chart URL resolves to a figure
	for _, s := range secs {
		urls := append([]string{}, s.Charts...)
		if s.Chart != "" {
			urls = append(urls, s.Chart)
		}
		for _, u := range urls {
			name := u[len("/charts/") : len(u)-len(".png")]
			_, ok := findFigure(name)
			assert.True(t, ok, "section %s links unknown chart %s", s.ID, u)
		}
	}
}

func TestBuildSectionsWithoutFit(t *testing.T) {
	rep, err := report.Build(testutil.Load(t))
	require.NoError(t, err)
	rep.ShareFit = nil
	rep.FitError = stats.ErrInsufficientSample.Error()

	share := sectionByID(t, buildSections(rep), "share-vs-difference")

	assert.Equal(t, chartURL("share-vs-difference"), share.Chart)
	assert.Contains(t, share.Message, stats.ErrInsufficientSample.Error())
}

func TestBuildSectionsNoJoinedGames(t *testing.T) {
	rep, err := report.Build(testutil.Load(t))
	require.NoError(t, err)
	rep.ShareFit = nil
	rep.Share = report.Scatter{}
	rep.FitError = stats.ErrInsufficientSample.Error()

	share := sectionByID(t, buildSections(rep), "share-vs-difference")

	assert.Empty(t, share.Chart)
	assert.NotEmpty(t, share.Message)
}

func TestShareNoteFollowsSlope(t *testing.T) {
	rep, err := report.Build(testutil.Load(t))
	require.NoError(t, err)

	for _, tc := range []struct {
		slope float64
		want  string
	}{
		{-0.2, "Closer games draw a larger household share."},
		{0.2, "Lopsided games draw a larger household share."},
		{0, "Household share does not move with the point difference."},
	} {
		fit := *rep.ShareFit
		fit.Slope = tc.slope
		rep.ShareFit = &fit
		note := sectionByID(t, buildSections(rep), "share-vs-difference").Note
		assert.Contains(t, note, tc.want, "slope %v", tc.slope)
	}
}

func TestBuildSectionsEmptyCharts(t *testing.T) {
	rep, err := report.Build(testutil.Load(t))
	require.NoError(t, err)
	rep.PointDifferences = nil
	rep.Viewers = report.Series{}

	secs := buildSections(rep)

	pd := sectionByID(t, secs, "point-differences")
	assert.Empty(t, pd.Chart)
	assert.Equal(t, "No data to plot.", pd.Message)

	v := sectionByID(t, secs, "viewership")
	assert.Nil(t, v.Charts)
	assert.Equal(t, "No data to plot.", v.Message)
}
