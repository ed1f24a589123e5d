package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"superbowl-dash/charts"
	"superbowl-dash/dataset"
	"superbowl-dash/frame"
	"superbowl-dash/report"
	"superbowl-dash/templates"
)

// App serves the dashboard for one data source.
type App struct {
	title string
	src   dataset.Source
	cache *dataset.Cache
	log   *zap.Logger

	// the report is rebuilt only when the cache hands out a new dataset
	mu     sync.Mutex
	built *dataset.Dataset
	rep   *report.Report
}

func NewApp(title string, src dataset.Source, cache *dataset.Cache, log *zap.Logger) *App {
	return &App{title: title, src: src, cache: cache, log: log}
}

func (a *App) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.HandleFunc("GET /{$}", a.homeHandler)
	mux.HandleFunc("GET /charts/{name}", a.chartHandler)
	mux.HandleFunc("GET /api/report", a.reportHandler)
	mux.HandleFunc("GET /api/tables/{table}", a.tableHandler)
	mux.HandleFunc("POST /api/reload", a.reloadHandler)

	return withLogging(a.log, mux)
}

func (a *App) build(ctx context.Context) (*report.Report, error) {
	ds, err := a.cache.Get(ctx, a.src)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.built == ds {
		return a.rep, nil
	}
	rep, err := report.Build(ds)
	if err != nil {
		return nil, err
	}
	a.built, a.rep = ds, rep
	return rep, nil
}

// statusFor maps load and pipeline errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, dataset.ErrDataUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (a *App) homeHandler(w http.ResponseWriter, r *http.Request) {
	rep, err := a.build(r.Context())
	if err != nil {
		status := statusFor(err)
		page := templates.ErrorPage(templates.ErrorPageData{Title: a.title, Status: status, Message: err.Error()})
		templ.Handler(page, templ.WithStatus(status)).ServeHTTP(w, r)
		return
	}

	data := templates.DashboardPageData{
		Title:    a.title,
		Source:   a.src.Key(),
		Sections: buildSections(rep),
	}
	if at, ok := a.cache.LoadedAt(a.src.Key()); ok {
		data.LoadedAt = at.Format(time.RFC1123)
	}
	templ.Handler(templates.Dashboard(data)).ServeHTTP(w, r)
}

func (a *App) chartHandler(w http.ResponseWriter, r *http.Request) {
	fig, ok := findFigure(strings.TrimSuffix(r.PathValue("name"), ".png"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	rep, err := a.build(r.Context())
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	var buf bytes.Buffer
	if err := fig.render(&buf, rep); err != nil {
		if errors.Is(err, charts.ErrNoData) {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		a.log.Error("chart render failed", zap.String("chart", fig.name), zap.Error(err))
		http.Error(w, "Chart render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.Write(buf.Bytes())
}

func (a *App) reportHandler(w http.ResponseWriter, r *http.Request) {
	rep, err := a.build(r.Context())
	if err != nil {
		jsonError(a.log, w, statusFor(err), err.Error())
		return
	}
	jsonResponse(a.log, w, http.StatusOK, rep)
}

// tableHandler returns one of the loaded tables, optionally filtered with
// ?column=difference_pts&op=>=&value=25.
func (a *App) tableHandler(w http.ResponseWriter, r *http.Request) {
	ds, err := a.cache.Get(r.Context(), a.src)
	if err != nil {
		jsonError(a.log, w, statusFor(err), err.Error())
		return
	}
	t, ok := ds.Tables()[r.PathValue("table")]
	if !ok {
		jsonError(a.log, w, http.StatusNotFound, "unknown table "+strconv.Quote(r.PathValue("table")))
		return
	}

	q := r.URL.Query()
	if col := q.Get("column"); col != "" {
		op := q.Get("op")
		if op == "" {
			op = "=="
		}
		cmp, err := frame.ParseComparator(op)
		if err != nil {
			jsonError(a.log, w, http.StatusBadRequest, err.Error())
			return
		}
		value, err := strconv.ParseFloat(q.Get("value"), 64)
		if err != nil {
			jsonError(a.log, w, http.StatusBadRequest, "value must be a number")
			return
		}
		if t, err = frame.FilterByThreshold(t, col, cmp, value); err != nil {
			jsonError(a.log, w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if n := q.Get("limit"); n != "" {
		limit, err := strconv.Atoi(n)
		if err != nil || limit < 0 {
			jsonError(a.log, w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		t = t.Head(limit)
	}
	jsonResponse(a.log, w, http.StatusOK, t)
}

// reloadHandler drops the memoized dataset and loads it again. Form posts
// from the dashboard are redirected back to it.
func (a *App) reloadHandler(w http.ResponseWriter, r *http.Request) {
	a.cache.Invalidate(a.src.Key())
	ds, err := a.cache.Get(r.Context(), a.src)
	if err != nil {
		jsonError(a.log, w, statusFor(err), err.Error())
		return
	}
	a.log.Info("🔄 dataset reloaded", zap.String("source", a.src.Key()))

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	jsonResponse(a.log, w, http.StatusOK, map[string]int{
		dataset.GamesTable:        ds.Games.Len(),
		dataset.BroadcastsTable:   ds.Broadcasts.Len(),
		dataset.PerformancesTable: ds.Performances.Len(),
	})
}

func runServe(ctx context.Context) error {
	src, err := cfg.Source()
	if err != nil {
		return err
	}
	cache := dataset.NewCache(logger)
	// Load up front so a bad data directory fails at startup.
	if _, err := cache.Get(ctx, src); err != nil {
		return err
	}

	app := NewApp(cfg.Title, src, cache, logger)
	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           app.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	logger.Info("🏈 dashboard is running", zap.String("addr", cfg.Addr), zap.String("source", src.Key()))
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logger.Info("server closed")
	return nil
}
