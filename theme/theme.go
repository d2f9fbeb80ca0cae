// Package theme defines the 20 newsgroup labels of the corpus and the
// collections built on top of them.
//
// The label set is closed: every Theme is one of the constants below and the
// name table is the single source for both directory names and CSV values.
package theme

import (
	"errors"
	"fmt"
)

// ErrInvalidThemeName is returned when a string names none of the themes.
var ErrInvalidThemeName = errors.New("invalid theme name")

// Theme is one of the 20 newsgroup labels. Its value is the label ordinal.
type Theme int

const (
	TalkPoliticsMideast Theme = iota
	RecAutos
	CompSysMacHardware
	AltAtheism
	RecSportBaseball
	CompOsMsWindowsMisc
	RecSportHockey
	SciCrypt
	SciMed
	TalkPoliticsMisc
	RecMotorcycles
	CompWindowsX
	CompGraphics
	CompSysIbmPcHardware
	SciElectronics
	TalkPoliticsGuns
	SciSpace
	SocReligionChristian
	MiscForsale
	TalkReligionMisc

	numThemes
)

// Count is the number of themes. Widths derived from the label set (one-hot
// matrices, classifier outputs) use this constant.
const Count = int(numThemes)

// names is indexed by Theme. The array length pins it to Count entries at
// compile time.
var names = [Count]string{
	TalkPoliticsMideast:  "talk.politics.mideast",
	RecAutos:             "rec.autos",
	CompSysMacHardware:   "comp.sys.mac.hardware",
	AltAtheism:           "alt.atheism",
	RecSportBaseball:     "rec.sport.baseball",
	CompOsMsWindowsMisc:  "comp.os.ms-windows.misc",
	RecSportHockey:       "rec.sport.hockey",
	SciCrypt:             "sci.crypt",
	SciMed:               "sci.med",
	TalkPoliticsMisc:     "talk.politics.misc",
	RecMotorcycles:       "rec.motorcycles",
	CompWindowsX:         "comp.windows.x",
	CompGraphics:         "comp.graphics",
	CompSysIbmPcHardware: "comp.sys.ibm.pc.hardware",
	SciElectronics:       "sci.electronics",
	TalkPoliticsGuns:     "talk.politics.guns",
	SciSpace:             "sci.space",
	SocReligionChristian: "soc.religion.christian",
	MiscForsale:          "misc.forsale",
	TalkReligionMisc:     "talk.religion.misc",
}

var byName = func() map[string]Theme {
	m := make(map[string]Theme, Count)
	for i, name := range names {
		m[name] = Theme(i)
	}
	return m
}()

// Name returns the canonical name of the theme, which is also the name of
// the directory holding its postings.
func (t Theme) Name() string {
	if !t.Valid() {
		return fmt.Sprintf("theme(%d)", int(t))
	}
	return names[t]
}

// String implements fmt.Stringer.
func (t Theme) String() string { return t.Name() }

// Valid reports whether t is one of the 20 labels.
func (t Theme) Valid() bool { return t >= 0 && t < numThemes }

// Create returns the theme whose canonical name is name.
func Create(name string) (Theme, error) {
	t, ok := byName[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidThemeName, name)
	}
	return t, nil
}

// All returns every theme in ordinal order.
func All() []Theme {
	out := make([]Theme, Count)
	for i := range out {
		out[i] = Theme(i)
	}
	return out
}

// Names returns the canonical names in ordinal order.
func Names() []string {
	out := make([]string, Count)
	copy(out, names[:])
	return out
}
