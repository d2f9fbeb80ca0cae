package datasets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Noofbiz/limelight/theme"
)

func TestWriteCSV_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "train.csv")
	sources := DataPointSources{
		NewDataPointSource("/data/20news", 51865, theme.CompSysMacHardware),
		NewDataPointSource("/data/20news", 3, theme.CompOsMsWindowsMisc),
	}

	require.NoError(t, WriteCSV(sources, path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	want := "directory,theme,id\n" +
		"/data/20news,comp.sys.mac.hardware,51865\n" +
		"/data/20news,comp.os.ms-windows.misc,3\n"
	require.Equal(t, want, string(b))

	leftovers, err := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp.*"))
	require.NoError(t, err)
	require.Empty(t, leftovers)
}

func TestCSV_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sources.csv")
	sources := sequentialSources("/var/corpus", 45)

	require.NoError(t, WriteCSV(sources, path))
	got, err := ReadCSV(path)
	require.NoError(t, err)
	require.Equal(t, sources, got)
}

func TestCSV_RoundTripEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	require.NoError(t, WriteCSV(nil, path))

	got, err := ReadCSV(path)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestReadCSV_Errors(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    error
		line    int
	}{
		{"missing field", "directory,theme,id\n/d,sci.med,1\n/d,sci.med\n", ErrMalformedRow, 3},
		{"bad theme", "directory,theme,id\n/d,sci.medicine,1\n", theme.ErrInvalidThemeName, 2},
		{"bad id", "directory,theme,id\n/d,sci.med,1\n/d,sci.med,one\n", ErrInvalidID, 3},
		{"bad header", "dir,theme,id\n/d,sci.med,1\n", ErrMalformedRow, 1},
		{"no header", "", ErrMalformedRow, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.csv")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0644))

			_, err := ReadCSV(path)
			require.ErrorIs(t, err, tc.want)
			var rowErr *RowError
			require.ErrorAs(t, err, &rowErr)
			require.Equal(t, tc.line, rowErr.Line)
		})
	}
}

func TestReadCSV_ColumnOrderFollowsHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "swapped.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,directory,theme\n12,/d,rec.autos\n"), 0644))

	got, err := ReadCSV(path)
	require.NoError(t, err)
	require.Equal(t, DataPointSources{NewDataPointSource("/d", 12, theme.RecAutos)}, got)
}

func TestReadCSV_MissingFile(t *testing.T) {
	_, err := ReadCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
