package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"superbowl-dash/report"
	"superbowl-dash/testutil"
)

func TestWriteCharts(t *testing.T) {
	rep, err := report.Build(testutil.Load(t))
	require.NoError(t, err)
	dir := filepath.Join(t.TempDir(), "out")

	written, err := writeCharts(dir, rep, zap.NewNop())
	require.NoError(t, err)

	require.Len(t, written, len(figures))
	for i, fig := range figures {
		assert.Equal(t, filepath.Join(dir, fig.name+".png"), written[i])
		b, err := os.ReadFile(written[i])
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(b, pngMagic), fig.name)
	}
}

func TestWriteChartsSkipsEmptyFigures(t *testing.T) {
	rep, err := report.Build(testutil.Load(t))
	require.NoError(t, err)
	rep.SongsPerShow = nil
	rep.PointDifferences = nil

	written, err := writeCharts(t.TempDir(), rep, zap.NewNop())
	require.NoError(t, err)
	assert.Len(t, written, len(figures)-2)
}
