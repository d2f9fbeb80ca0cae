package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTop(t *testing.T) {
	names := []string{"alpha", "beta", "gamma", "delta"}
	scores := []float64{0.1, 0.4, 0.4, 0.2}

	got, err := Top(names, scores, 3)
	require.NoError(t, err)
	require.Equal(t, []Feature{{"beta", 0.4}, {"gamma", 0.4}, {"delta", 0.2}}, got)

	all, err := Top(names, scores, 0)
	require.NoError(t, err)
	require.Len(t, all, 4)

	_, err = Top(names, scores[:2], 1)
	require.Error(t, err)
}

func TestPlotImportances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charts", "importances.png")
	require.NoError(t, PlotImportances(path, []string{"rocket", "orbit", "puck"}, []float64{0.5, 0.3, 0.2}, 2))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Positive(t, info.Size())

	require.Error(t, PlotImportances(path, nil, nil, 5))
}
