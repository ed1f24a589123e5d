// Package testutil provides a small Super Bowl dataset shared by the package
// tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"superbowl-dash/dataset"
)

const GamesCSV = `date,super_bowl,team_winner,winning_pts,team_loser,losing_pts,combined_pts,difference_pts
2018-02-04,52,Philadelphia Eagles,41,New England Patriots,33,74,8
2017-02-05,51,New England Patriots,34,Atlanta Falcons,28,62,6
1991-01-27,25,New York Giants,20,Buffalo Bills,19,39,1
1990-01-28,24,San Francisco 49ers,55,Denver Broncos,10,65,45
1986-01-26,20,Chicago Bears,46,New England Patriots,10,56,36
1967-01-15,1,Green Bay Packers,35,Kansas City Chiefs,10,45,25
`

const TVCSV = `super_bowl,network,avg_us_viewers,rating_household,share_household,ad_cost
52,NBC,103390000,43.1,68,5000000
51,Fox,111319000,45.3,73,5000000
25,ABC,79510000,41.9,63,800000
24,CBS,73852000,39.0,63,700000
20,NBC,92570000,48.3,70,550000
1,NBC,24430000,18.5,36,37500
1,CBS,26750000,22.6,43,42500
`

const HalftimeCSV = `super_bowl,musician,num_songs
52,Justin Timberlake,11
52,University of Minnesota Marching Band,1
51,Lady Gaga,7
33,Gloria Estefan,2
26,Gloria Estefan,2
25,New Kids on the Block,2
25,Spirit of Troy,
24,Pete Fountain,1
24,Doug Kershaw,1
24,Irma Thomas,1
20,Up with People,
12,Al Hirt,
1,University of Arizona Symphonic Marching Band,
1,Grambling State University Tiger Marching Band,
1,Al Hirt,
`

// Fixture row counts and derived expectations.
const (
	Games              = 6
	Broadcasts         = 7
	Performances       = 15
	JoinedGames        = 5
	EarlyPerformances  = 11
	NonBandPerformers  = 11
	MaxNonBandNumSongs = 11
)

// WriteCSV writes the fixture files into dir and returns a source for them.
func WriteCSV(t *testing.T, dir string) dataset.CSVSource {
	t.Helper()
	src := dataset.CSVSource{
		Games:        filepath.Join(dir, "super_bowls.csv"),
		Broadcasts:   filepath.Join(dir, "tv_data.csv"),
		Performances: filepath.Join(dir, "halftime_show_artists.csv"),
	}
	for path, body := range map[string]string{src.Games: GamesCSV, src.Broadcasts: TVCSV, src.Performances: HalftimeCSV} {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write fixture %s: %v", path, err)
		}
	}
	return src
}

// Load writes the fixture into a temp dir and loads it.
func Load(t *testing.T) *dataset.Dataset {
	t.Helper()
	src := WriteCSV(t, t.TempDir())
	ds, err := src.Load(t.Context())
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return ds
}
