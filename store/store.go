// Package store keeps a snapshot of a loaded dataset in SQLite so the
// dashboard can be served without the original files.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/glebarez/go-sqlite"

	"superbowl-dash/dataset"
	"superbowl-dash/frame"
)

// DefaultPath honors a mounted volume when one is configured, otherwise the
// snapshot lives in the working directory.
func DefaultPath() string {
	if mountPath := os.Getenv("RAILWAY_VOLUME_MOUNT_PATH"); mountPath != "" {
		return filepath.Join(mountPath, "superbowl.db")
	}
	return "./superbowl.db"
}

type Store struct {
	db   *sql.DB
	path string
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &Store{db: db, path: path}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) init() error {
	_, err := s.db.Exec(`
    CREATE TABLE IF NOT EXISTS snapshot_columns (
        table_name TEXT NOT NULL,
        position INTEGER NOT NULL,
        name TEXT NOT NULL,
        kind TEXT NOT NULL,
        PRIMARY KEY (table_name, position)
    );`)
	if err != nil {
		return fmt.Errorf("create snapshot_columns: %w", err)
	}
	_, err = s.db.Exec(`
    CREATE TABLE IF NOT EXISTS snapshot_meta (
        id INTEGER PRIMARY KEY CHECK (id = 1),
        source TEXT NOT NULL,
        created_at DATETIME DEFAULT CURRENT_TIMESTAMP
    );`)
	if err != nil {
		return fmt.Errorf("create snapshot_meta: %w", err)
	}
	return nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Save replaces the snapshot with ds. source records where it came from.
func (s *Store) Save(ctx context.Context, ds *dataset.Dataset, source string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_columns`); err != nil {
		return err
	}
	for _, name := range []string{dataset.GamesTable, dataset.BroadcastsTable, dataset.PerformancesTable} {
		if err := saveTable(ctx, tx, name, ds.Tables()[name]); err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshot_meta (id, source) VALUES (1, ?)
         ON CONFLICT(id) DO UPDATE SET source = excluded.source, created_at = CURRENT_TIMESTAMP`, source); err != nil {
		return err
	}
	return tx.Commit()
}

func saveTable(ctx context.Context, tx *sql.Tx, name string, t *frame.Table) error {
	cols := t.Columns()
	defs := make([]string, len(cols))
	quoted := make([]string, len(cols))
	marks := make([]string, len(cols))
	for i, c := range cols {
		typ := "TEXT"
		if c.Kind == frame.Number {
			typ = "REAL"
		}
		quoted[i] = quoteIdent(c.Name)
		defs[i] = quoted[i] + " " + typ
		marks[i] = "?"
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO snapshot_columns (table_name, position, name, kind) VALUES (?, ?, ?, ?)`,
			name, i, c.Name, c.Kind.String()); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS `+quoteIdent(name)); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`CREATE TABLE %s (row_id INTEGER PRIMARY KEY, %s)`, quoteIdent(name), strings.Join(defs, ", "))); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`INSERT INTO %s (row_id, %s) VALUES (?, %s)`,
		quoteIdent(name), strings.Join(quoted, ", "), strings.Join(marks, ", ")))
	if err != nil {
		return err
	}
	defer stmt.Close()

	args := make([]any, len(cols)+1)
	for i := 0; i < t.Len(); i++ {
		args[0] = i
		for j, c := range t.Row(i).Cells() {
			switch {
			case c.Null:
				args[j+1] = nil
			case cols[j].Kind == frame.Number:
				args[j+1] = c.Num
			default:
				args[j+1] = c.Text
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the snapshot back. A store that was never saved to reports
// dataset.ErrDataUnavailable.
func (s *Store) Load(ctx context.Context) (*dataset.Dataset, error) {
	var tables [3]*frame.Table
	for i, name := range []string{dataset.GamesTable, dataset.BroadcastsTable, dataset.PerformancesTable} {
		t, err := s.loadTable(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", name, err)
		}
		tables[i] = t
	}
	return dataset.Assemble(tables[0], tables[1], tables[2])
}

func (s *Store) loadTable(ctx context.Context, name string) (*frame.Table, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, kind FROM snapshot_columns WHERE table_name = ? ORDER BY position`, name)
	if err != nil {
		return nil, err
	}
	var cols []frame.Column
	for rows.Next() {
		var c frame.Column
		var kind string
		if err := rows.Scan(&c.Name, &kind); err != nil {
			rows.Close()
			return nil, err
		}
		if kind == frame.Number.String() {
			c.Kind = frame.Number
		}
		cols = append(cols, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%w: no snapshot of %s in %s", dataset.ErrDataUnavailable, name, s.path)
	}

	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = quoteIdent(c.Name)
	}
	data, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT %s FROM %s ORDER BY row_id`, strings.Join(quoted, ", "), quoteIdent(name)))
	if err != nil {
		return nil, err
	}
	defer data.Close()

	var out [][]frame.Cell
	for data.Next() {
		texts := make([]sql.NullString, len(cols))
		nums := make([]sql.NullFloat64, len(cols))
		dest := make([]any, len(cols))
		for j, c := range cols {
			if c.Kind == frame.Number {
				dest[j] = &nums[j]
			} else {
				dest[j] = &texts[j]
			}
		}
		if err := data.Scan(dest...); err != nil {
			return nil, err
		}
		row := make([]frame.Cell, len(cols))
		for j, c := range cols {
			switch {
			case c.Kind == frame.Number && nums[j].Valid:
				row[j] = frame.NumberCell(nums[j].Float64)
			case c.Kind == frame.Text && texts[j].Valid:
				row[j] = frame.TextCell(texts[j].String)
			default:
				row[j] = frame.NullCell()
			}
		}
		out = append(out, row)
	}
	if err := data.Err(); err != nil {
		return nil, err
	}
	return frame.New(cols, out)
}

// Source adapts a snapshot file to dataset.Source.
type Source struct {
	Path string
}

func (s Source) Key() string { return "sqlite:" + s.Path }

func (s Source) Load(ctx context.Context) (*dataset.Dataset, error) {
	if _, err := os.Stat(s.Path); err != nil {
		return nil, fmt.Errorf("%w: %w", dataset.ErrDataUnavailable, err)
	}
	st, err := Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", dataset.ErrDataUnavailable, err)
	}
	defer st.Close()
	return st.Load(ctx)
}
