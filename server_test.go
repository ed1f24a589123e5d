package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"superbowl-dash/dataset"
	"superbowl-dash/testutil"
)

var pngMagic = []byte("\x89PNG\r\n\x1a\n")

func newTestApp(t *testing.T) (*App, dataset.CSVSource) {
	t.Helper()
	src := testutil.WriteCSV(t, t.TempDir())
	return NewApp("Test Dashboard", src, dataset.NewCache(zap.NewNop()), zap.NewNop()), src
}

func serve(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	app, _ := newTestApp(t)
	rec := serve(t, app.Routes(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	app, _ := newTestApp(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := serve(t, app.Routes(), req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestHomeRendersDashboard(t *testing.T) {
	app, _ := newTestApp(t)
	rec := serve(t, app.Routes(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Test Dashboard")
	assert.Contains(t, body, "Histogram of Point Differences")
	assert.Contains(t, body, "Biggest Blowouts")
	assert.Contains(t, body, chartURL("share-vs-difference"))
	assert.Contains(t, body, `action="/api/reload"`)
}

func TestHomeUnknownPathIsNotFound(t *testing.T) {
	app, _ := newTestApp(t)
	rec := serve(t, app.Routes(), httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHomeMissingDataIsUnavailable(t *testing.T) {
	app, src := newTestApp(t)
	require.NoError(t, os.Remove(src.Broadcasts))

	rec := serve(t, app.Routes(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "tv")
}

func TestHomeSchemaMismatchIsServerError(t *testing.T) {
	app, src := newTestApp(t)
	require.NoError(t, os.WriteFile(src.Games, []byte("super_bowl,team_winner\n1,Green Bay Packers\n"), 0o644))

	rec := serve(t, app.Routes(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "winning_pts")
}

func TestChartHandler(t *testing.T) {
	app, _ := newTestApp(t)
	h := app.Routes()

	for _, fig := range figures {
		t.Run(fig.name, func(t *testing.T) {
			rec := serve(t, h, httptest.NewRequest(http.MethodGet, chartURL(fig.name), nil))
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
			assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), pngMagic))
		})
	}

	t.Run("unknown", func(t *testing.T) {
		rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/charts/pie.png", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestReportBuiltOncePerDataset(t *testing.T) {
	app, src := newTestApp(t)
	h := app.Routes()

	first, err := app.build(t.Context())
	require.NoError(t, err)
	for _, fig := range figures {
		serve(t, h, httptest.NewRequest(http.MethodGet, chartURL(fig.name), nil))
	}
	again, err := app.build(t.Context())
	require.NoError(t, err)
	assert.Same(t, first, again)

	require.NoError(t, os.WriteFile(src.Performances, []byte("super_bowl,musician,num_songs\n52,Justin Timberlake,11\n"), 0o644))
	rec := serve(t, h, httptest.NewRequest(http.MethodPost, "/api/reload", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rebuilt, err := app.build(t.Context())
	require.NoError(t, err)
	assert.NotSame(t, first, rebuilt)
	assert.Equal(t, 1, rebuilt.NonBand.Len())
}

func TestReportHandler(t *testing.T) {
	app, _ := newTestApp(t)
	rec := serve(t, app.Routes(), httptest.NewRequest(http.MethodGet, "/api/report", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	for _, key := range []string{"previews", "point_differences", "games_tv", "share_fit", "avg_us_viewers", "top_songs"} {
		assert.Contains(t, body, key)
	}

	var games struct {
		Rows [][]any `json:"rows"`
	}
	require.NoError(t, json.Unmarshal(body["games_tv"], &games))
	assert.Len(t, games.Rows, testutil.JoinedGames)
}

type tableBody struct {
	Columns []struct {
		Name string `json:"name"`
		Kind string `json:"kind"`
	} `json:"columns"`
	Rows [][]any `json:"rows"`
}

func TestTableHandler(t *testing.T) {
	app, _ := newTestApp(t)
	h := app.Routes()

	get := func(t *testing.T, path string) (*httptest.ResponseRecorder, tableBody) {
		t.Helper()
		rec := serve(t, h, httptest.NewRequest(http.MethodGet, path, nil))
		var body tableBody
		if rec.Code == http.StatusOK {
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		}
		return rec, body
	}

	t.Run("whole table", func(t *testing.T) {
		rec, body := get(t, "/api/tables/"+dataset.PerformancesTable)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, body.Rows, testutil.Performances)
	})

	t.Run("filtered", func(t *testing.T) {
		q := url.Values{"column": {"super_bowl"}, "op": {"<="}, "value": {"24"}}
		rec, body := get(t, "/api/tables/"+dataset.GamesTable+"?"+q.Encode())
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, body.Rows, 3)
	})

	t.Run("limit", func(t *testing.T) {
		rec, body := get(t, "/api/tables/"+dataset.BroadcastsTable+"?limit=2")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, body.Rows, 2)
	})

	bad := map[string]string{
		"unknown table":  "/api/tables/players",
		"bad comparator": "/api/tables/super_bowls?column=super_bowl&op=~&value=1",
		"non-numeric":    "/api/tables/super_bowls?column=super_bowl&value=abc",
		"unknown column": "/api/tables/super_bowls?column=mvp&value=1",
		"text column":    "/api/tables/super_bowls?column=team_winner&value=1",
		"negative limit": "/api/tables/super_bowls?limit=-1",
	}
	for name, path := range bad {
		t.Run(name, func(t *testing.T) {
			rec, _ := get(t, path)
			assert.GreaterOrEqual(t, rec.Code, 400)
			assert.Less(t, rec.Code, 500)
		})
	}
}

func TestReloadPicksUpNewFiles(t *testing.T) {
	app, src := newTestApp(t)
	h := app.Routes()

	rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/api/tables/"+dataset.PerformancesTable, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	trimmed := "super_bowl,musician,num_songs\n52,Justin Timberlake,11\n"
	require.NoError(t, os.WriteFile(src.Performances, []byte(trimmed), 0o644))

	// Still memoized until reloaded.
	rec = serve(t, h, httptest.NewRequest(http.MethodGet, "/api/tables/"+dataset.PerformancesTable, nil))
	var body tableBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Rows, testutil.Performances)
	assert.Equal(t, "musician", body.Columns[1].Name)

	rec = serve(t, h, httptest.NewRequest(http.MethodPost, "/api/reload", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var counts map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Equal(t, 1, counts[dataset.PerformancesTable])
	assert.Equal(t, testutil.Games, counts[dataset.GamesTable])
}

func TestReloadFormRedirects(t *testing.T) {
	app, _ := newTestApp(t)
	req := httptest.NewRequest(http.MethodPost, "/api/reload", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := serve(t, app.Routes(), req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestReloadFailureIsReported(t *testing.T) {
	app, src := newTestApp(t)
	require.NoError(t, os.Remove(src.Games))

	rec := serve(t, app.Routes(), httptest.NewRequest(http.MethodPost, "/api/reload", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
