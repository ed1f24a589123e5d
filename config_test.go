package main

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"superbowl-dash/dataset"
	"superbowl-dash/store"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	want := Config{
		Addr:         ":8080",
		DataDir:      "data",
		GamesFile:    "super_bowls.csv",
		TVFile:       "tv_data.csv",
		HalftimeFile: "halftime_show_artists.csv",
		Delimiter:    ",",
		Title:        "Super Bowl Dashboard",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("LoadConfig() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SUPERBOWL_DATA_DIR", "/srv/superbowl")
	t.Setenv("SUPERBOWL_DELIMITER", ";")
	t.Setenv("SUPERBOWL_VERBOSE", "true")
	t.Setenv("PORT", "9000")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "/srv/superbowl", cfg.DataDir)
	assert.Equal(t, ";", cfg.Delimiter)
	assert.True(t, cfg.Verbose)
	assert.Equal(t, ":9000", cfg.Addr)
}

func TestLoadConfigInvalidBool(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SUPERBOWL_VERBOSE", "sometimes")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestConfigCSVSource(t *testing.T) {
	cfg := Config{
		DataDir:      "data",
		GamesFile:    "games.csv",
		TVFile:       "/abs/tv.csv",
		HalftimeFile: "https://example.com/halftime.csv",
		Delimiter:    ";",
	}

	src, err := cfg.CSVSource()
	require.NoError(t, err)

	assert.Equal(t, dataset.CSVSource{
		Games:        filepath.Join("data", "games.csv"),
		Broadcasts:   "/abs/tv.csv",
		Performances: "https://example.com/halftime.csv",
		Delimiter:    ';',
	}, src)
}

func TestConfigURLDataDir(t *testing.T) {
	cfg := Config{DataDir: "https://example.com/superbowl/", GamesFile: "games.csv", TVFile: "tv.csv", HalftimeFile: "h.csv", Delimiter: ","}

	src, err := cfg.CSVSource()
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/superbowl/games.csv", src.Games)
}

func TestConfigDelimiterMustBeOneRune(t *testing.T) {
	for _, d := range []string{"", ";;", "ab"} {
		_, err := Config{Delimiter: d}.CSVSource()
		assert.Error(t, err, "delimiter %q", d)
	}

	src, err := Config{Delimiter: "\t"}.CSVSource()
	require.NoError(t, err)
	assert.Equal(t, '\t', src.Delimiter)
}

func TestConfigSourcePrefersSQLite(t *testing.T) {
	src, err := Config{SQLitePath: "snap.db", Delimiter: ","}.Source()
	require.NoError(t, err)
	assert.Equal(t, store.Source{Path: "snap.db"}, src)

	src, err = Config{DataDir: "data", Delimiter: ","}.Source()
	require.NoError(t, err)
	assert.IsType(t, dataset.CSVSource{}, src)
}
