package templates

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superbowl-dash/frame"
)

func TestFromTableFormatsNumbers(t *testing.T) {
	tbl := frame.MustNew(
		[]frame.Column{{Name: "super_bowl", Kind: frame.Number}, {Name: "network", Kind: frame.Text}, {Name: "avg_us_viewers", Kind: frame.Number}, {Name: "rating_household", Kind: frame.Number}},
		[][]frame.Cell{
			{frame.NumberCell(1052), frame.TextCell("NBC"), frame.NumberCell(103390000), frame.NumberCell(43.1)},
			{frame.NumberCell(51), frame.NullCell(), frame.NullCell(), frame.NumberCell(45)},
		},
	)
	got := FromTable(tbl)
	assert.Equal(t, []string{"super_bowl", "network", "avg_us_viewers", "rating_household"}, got.Columns)
	assert.Equal(t, []bool{true, false, true, true}, got.Numeric)
	assert.Equal(t, [][]string{
		{"1052", "NBC", "103,390,000", "43.1"},
		{"51", "—", "—", "45"},
	}, got.Rows)
}

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestDashboardRendersSections(t *testing.T) {
	page := DashboardPageData{
		Title:  "Super Bowl <Stats>",
		Source: "csv:data/super_bowls.csv",
		Sections: []Section{
			{ID: "closest", Title: "Closest Game(s)", Note: "Decided by one point.", Table: &Table{Columns: []string{"super_bowl"}, Numeric: []bool{true}, Rows: [][]string{{"25"}}}},
			{ID: "differences", Title: "Histogram of Point Differences", Chart: "/charts/point-differences.png"},
			{ID: "fit", Title: "Regression", Message: "insufficient sample for regression"},
			{ID: "early", Title: "Halftime Musicians", Collapsed: true, Table: &Table{Columns: []string{"musician"}, Numeric: []bool{false}}},
		},
	}
	html := render(t, Dashboard(page))

	assert.Contains(t, html, "<title>Super Bowl &lt;Stats&gt;</title>")
	assert.Contains(t, html, `id="closest"`)
	assert.Contains(t, html, "Decided by one point.")
	assert.Contains(t, html, `<td class="border-b p-2 text-right tabular-nums">25</td>`)
	assert.Contains(t, html, `src="/charts/point-differences.png"`)
	assert.Contains(t, html, "insufficient sample for regression")
	assert.Contains(t, html, "<details>")
	assert.Contains(t, html, "No rows")
	assert.Equal(t, 4, strings.Count(html, "<section"))
	assert.True(t, strings.HasSuffix(html, "</html>"))
}

func TestStackedCharts(t *testing.T) {
	html := render(t, SectionBlock(Section{ID: "tv", Title: "TV", Charts: []string{"/charts/a.png", "/charts/b.png"}}))
	assert.Equal(t, 2, strings.Count(html, "<img"))
}

func TestErrorPage(t *testing.T) {
	html := render(t, ErrorPage(ErrorPageData{Title: "Data unavailable", Status: 503, Message: "open data/tv.csv: no such file"}))
	assert.Contains(t, html, "503")
	assert.Contains(t, html, "open data/tv.csv: no such file")
}

func TestSectionMessageKeepsFigure(t *testing.T) {
	html := render(t, SectionBlock(Section{
		ID:      "share",
		Title:   "Share",
		Message: "No regression line: insufficient sample for regression.",
		Chart:   "/charts/share.png",
	}))
	assert.Contains(t, html, "No regression line")
	assert.Contains(t, html, `src="/charts/share.png"`)
	assert.Less(t, strings.Index(html, "No regression line"), strings.Index(html, "<img"))
}

func TestDashboardNavLinksSections(t *testing.T) {
	html := render(t, Dashboard(DashboardPageData{
		Title:    "SB",
		Source:   "csv:x",
		LoadedAt: "Sun, 04 Feb 2018 18:30:00 UTC",
		Sections: []Section{{ID: "top-songs", Title: "Top songs"}},
	}))
	assert.Contains(t, html, `href="#top-songs"`)
	assert.Contains(t, html, "loaded Sun, 04 Feb 2018 18:30:00 UTC")
	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
}
