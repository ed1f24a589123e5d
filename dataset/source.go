package dataset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"superbowl-dash/frame"
)

// Source produces a Dataset. Key identifies the input locations and is the
// memo key used by Cache.
type Source interface {
	Key() string
	Load(ctx context.Context) (*Dataset, error)
}

// CSVSource reads the three tables from delimited files. Each location is a
// filesystem path or an http(s) URL.
type CSVSource struct {
	Games        string
	Broadcasts   string
	Performances string
	Delimiter    rune
}

func (s CSVSource) Key() string {
	return "csv:" + strings.Join([]string{s.Games, s.Broadcasts, s.Performances, string(s.delimiter())}, "|")
}

func (s CSVSource) delimiter() rune {
	if s.Delimiter == 0 {
		return ','
	}
	return s.Delimiter
}

func (s CSVSource) Load(ctx context.Context) (*Dataset, error) {
	games, err := s.read(ctx, GamesTable, s.Games)
	if err != nil {
		return nil, err
	}
	broadcasts, err := s.read(ctx, BroadcastsTable, s.Broadcasts)
	if err != nil {
		return nil, err
	}
	performances, err := s.read(ctx, PerformancesTable, s.Performances)
	if err != nil {
		return nil, err
	}
	return Assemble(games, broadcasts, performances)
}

func (s CSVSource) read(ctx context.Context, name, location string) (*frame.Table, error) {
	if location == "" {
		return nil, fmt.Errorf("%w: %s: no location configured", ErrDataUnavailable, name)
	}
	rc, err := open(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDataUnavailable, name, err)
	}
	defer rc.Close()

	t, err := frame.ReadCSV(rc, frame.ReadOptions{Delimiter: s.delimiter()})
	if err != nil {
		return nil, fmt.Errorf("%w: %s (%s): %w", ErrDataUnavailable, name, location, err)
	}
	return t, nil
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

func isURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func open(ctx context.Context, location string) (io.ReadCloser, error) {
	if !isURL(location) {
		return os.Open(location)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("GET %s: %s", location, resp.Status)
	}
	return resp.Body, nil
}
