package theme

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	got, err := Create("talk.politics.mideast")
	require.NoError(t, err)
	require.Equal(t, TalkPoliticsMideast, got)
}

func TestCreate_IrregularName(t *testing.T) {
	got, err := Create("comp.os.ms-windows.misc")
	require.NoError(t, err)
	require.Equal(t, CompOsMsWindowsMisc, got)

	_, err = Create("comp.os.ms.windows.misc")
	require.ErrorIs(t, err, ErrInvalidThemeName)
}

func TestCreate_RoundTrip(t *testing.T) {
	for _, th := range All() {
		got, err := Create(th.Name())
		require.NoError(t, err, th.Name())
		require.Equal(t, th, got)
	}
}

func TestCreate_Unknown(t *testing.T) {
	for _, name := range []string{"", "sci", "SCI.MED", "sci.med ", "rec.sport"} {
		_, err := Create(name)
		require.ErrorIs(t, err, ErrInvalidThemeName, "name %q", name)
	}
}

// The name table must be a bijection over the labels.
func TestNamesAreDistinct(t *testing.T) {
	seen := make(map[string]Theme, Count)
	for i, name := range names {
		require.NotEmpty(t, name, "theme %d has no name", i)
		prev, dup := seen[name]
		require.False(t, dup, "%q used by %d and %d", name, prev, i)
		seen[name] = Theme(i)
	}
	require.Len(t, byName, Count)
}

func TestNames_Order(t *testing.T) {
	got := Names()
	require.Len(t, got, Count)
	require.Equal(t, "talk.politics.mideast", got[0])
	require.Equal(t, "sci.med", got[SciMed])
	require.Equal(t, "talk.religion.misc", got[Count-1])
}

func TestValid(t *testing.T) {
	require.True(t, SciMed.Valid())
	require.False(t, Theme(-1).Valid())
	require.False(t, Theme(Count).Valid())
	require.Equal(t, "theme(20)", Theme(Count).Name())
}
