package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"superbowl-dash/dataset"
	"superbowl-dash/store"
)

// Config is read from SUPERBOWL_* environment variables (and an optional
// .env file); command-line flags override it.
type Config struct {
	Addr         string `env:"SUPERBOWL_ADDR"          envDefault:":8080"`
	DataDir      string `env:"SUPERBOWL_DATA_DIR"      envDefault:"data"`
	GamesFile    string `env:"SUPERBOWL_GAMES_FILE"    envDefault:"super_bowls.csv"`
	TVFile       string `env:"SUPERBOWL_TV_FILE"       envDefault:"tv_data.csv"`
	HalftimeFile string `env:"SUPERBOWL_HALFTIME_FILE" envDefault:"halftime_show_artists.csv"`
	Delimiter    string `env:"SUPERBOWL_DELIMITER"     envDefault:","`
	// SQLitePath serves from a snapshot written by the import command
	// instead of the CSV files.
	SQLitePath string `env:"SUPERBOWL_SQLITE_PATH"`
	Title      string `env:"SUPERBOWL_TITLE"         envDefault:"Super Bowl Dashboard"`
	Verbose    bool   `env:"SUPERBOWL_VERBOSE"`
}

// LoadConfig reads .env (when present) and the environment.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	// Hosting platforms hand out the port on PORT.
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	return cfg, nil
}

func (c Config) delimiter() (rune, error) {
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return 0, fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r, nil
}

// location joins name onto DataDir unless it is already absolute or a URL.
func (c Config) location(name string) string {
	switch {
	case filepath.IsAbs(name), isURL(name):
		return name
	case isURL(c.DataDir):
		return strings.TrimSuffix(c.DataDir, "/") + "/" + name
	}
	return filepath.Join(c.DataDir, name)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// CSVSource returns the CSV inputs described by the config.
func (c Config) CSVSource() (dataset.CSVSource, error) {
	delim, err := c.delimiter()
	if err != nil {
		return dataset.CSVSource{}, err
	}
	return dataset.CSVSource{
		Games:        c.location(c.GamesFile),
		Broadcasts:   c.location(c.TVFile),
		Performances: c.location(c.HalftimeFile),
		Delimiter:    delim,
	}, nil
}

// Source picks the SQLite snapshot when one is configured, else the CSVs.
func (c Config) Source() (dataset.Source, error) {
	if c.SQLitePath != "" {
		return store.Source{Path: c.SQLitePath}, nil
	}
	return c.CSVSource()
}
