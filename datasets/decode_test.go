package datasets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Noofbiz/limelight/theme"
)

// legacyPosting mixes ASCII with bytes that are not valid UTF-8.
var legacyPosting = []byte("From: someone\xff\xfe@mac.com\nSubject: caf\xe9 hardware\n")

func writeLegacyPosting(t *testing.T) DataPointSource {
	t.Helper()
	root := t.TempDir()
	src := NewDataPointSource(root, 51865, theme.CompSysMacHardware)
	require.NoError(t, os.MkdirAll(filepath.Dir(src.Path()), 0755))
	require.NoError(t, os.WriteFile(src.Path(), legacyPosting, 0644))
	return src
}

func TestReadText_LenientDropsInvalidBytes(t *testing.T) {
	src := writeLegacyPosting(t)

	text, err := src.ReadText(Lenient)
	require.NoError(t, err, "invalid bytes are dropped, not raised")
	require.Equal(t, Text("From: someone@mac.com\nSubject: caf hardware\n"), text)
}

func TestReadText_StrictFails(t *testing.T) {
	src := writeLegacyPosting(t)

	_, err := src.ReadText(Strict)
	require.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestReadText_Latin1(t *testing.T) {
	src := writeLegacyPosting(t)

	text, err := src.ReadText(Latin1)
	require.NoError(t, err)
	require.Contains(t, text.Raw(), "café hardware")
}

func TestReadText_MissingFile(t *testing.T) {
	src := NewDataPointSource(t.TempDir(), 1, theme.SciMed)
	_, err := src.ReadText(Lenient)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseDecoding(t *testing.T) {
	for _, d := range []Decoding{Lenient, Strict, Latin1} {
		got, err := ParseDecoding(d.String())
		require.NoError(t, err)
		require.Equal(t, d, got)
	}
	got, err := ParseDecoding("")
	require.NoError(t, err)
	require.Equal(t, Lenient, got)

	_, err = ParseDecoding("utf-16")
	require.Error(t, err)
}
