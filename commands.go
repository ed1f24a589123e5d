package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"superbowl-dash/charts"
	"superbowl-dash/dataset"
	"superbowl-dash/report"
	"superbowl-dash/store"
)

var (
	importOut string
	chartsOut string
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load the CSV files and write them to a SQLite snapshot",
	Long: `import reads the three CSV files, derives the score columns and stores
the result in SQLite. Serve the snapshot with --sqlite.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := cfg.CSVSource()
		if err != nil {
			return err
		}
		ds, err := src.Load(cmd.Context())
		if err != nil {
			return err
		}

		out := importOut
		if out == "" {
			out = store.DefaultPath()
		}
		st, err := store.Open(out)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Save(cmd.Context(), ds, src.Key()); err != nil {
			return err
		}
		logger.Info("💾 snapshot written",
			zap.String("path", out),
			zap.Int("games", ds.Games.Len()),
			zap.Int("broadcasts", ds.Broadcasts.Len()),
			zap.Int("performances", ds.Performances.Len()),
			zap.Int("corrections", ds.Corrections),
		)
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

var chartsCmd = &cobra.Command{
	Use:   "charts",
	Short: "Render every dashboard chart to PNG files",
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := cfg.Source()
		if err != nil {
			return err
		}
		ds, err := dataset.NewCache(logger).Get(cmd.Context(), src)
		if err != nil {
			return err
		}
		rep, err := report.Build(ds)
		if err != nil {
			return err
		}
		written, err := writeCharts(chartsOut, rep, logger)
		if err != nil {
			return err
		}
		for _, p := range written {
			fmt.Fprintln(cmd.OutOrStdout(), p)
		}
		return nil
	},
}

// writeCharts renders each figure into dir and returns the paths written.
// Figures without data are skipped.
func writeCharts(dir string, rep *report.Report, log *zap.Logger) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	var written []string
	for _, fig := range figures {
		var buf bytes.Buffer
		if err := fig.render(&buf, rep); err != nil {
			if errors.Is(err, charts.ErrNoData) {
				log.Warn("⚠️ chart skipped, no data", zap.String("chart", fig.name))
				continue
			}
			return written, fmt.Errorf("render %s: %w", fig.name, err)
		}
		path := filepath.Join(dir, fig.name+".png")
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return written, fmt.Errorf("write %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}

func init() {
	importCmd.Flags().StringVarP(&importOut, "out", "o", "", "Snapshot path (default $RAILWAY_VOLUME_MOUNT_PATH/superbowl.db or ./superbowl.db)")
	chartsCmd.Flags().StringVarP(&chartsOut, "out", "o", "charts", "Output directory")
}
