package datasets

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/Noofbiz/limelight/theme"
)

// DataPointID identifies a posting inside its theme directory.
type DataPointID int

// String returns the decimal form used as the file name.
func (id DataPointID) String() string { return strconv.Itoa(int(id)) }

// ParseDataPointID parses a decimal id. Only plain digit strings are
// accepted, the same names Scan keeps.
func ParseDataPointID(s string) (DataPointID, error) {
	if !dataPointName.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return DataPointID(v), nil
}

// DataPointMeta pairs an id with its label.
type DataPointMeta struct {
	ID    DataPointID
	Theme theme.Theme
}

// Fields returns the row form of the meta: id and theme name.
func (m DataPointMeta) Fields() map[string]string {
	return map[string]string{
		"id":    m.ID.String(),
		"theme": m.Theme.Name(),
	}
}

// MetaFromFields parses the row form produced by Fields.
func MetaFromFields(fields map[string]string) (DataPointMeta, error) {
	rawID, ok := fields["id"]
	if !ok {
		return DataPointMeta{}, fmt.Errorf("%w: missing id", ErrMalformedRow)
	}
	rawTheme, ok := fields["theme"]
	if !ok {
		return DataPointMeta{}, fmt.Errorf("%w: missing theme", ErrMalformedRow)
	}
	id, err := ParseDataPointID(rawID)
	if err != nil {
		return DataPointMeta{}, err
	}
	th, err := theme.Create(rawTheme)
	if err != nil {
		return DataPointMeta{}, err
	}
	return DataPointMeta{ID: id, Theme: th}, nil
}

// DataPointSource locates one posting: {Directory}/{theme name}/{id}.
type DataPointSource struct {
	Directory string
	Meta      DataPointMeta
}

// NewDataPointSource builds a source from its parts.
func NewDataPointSource(dir string, id DataPointID, th theme.Theme) DataPointSource {
	return DataPointSource{Directory: dir, Meta: DataPointMeta{ID: id, Theme: th}}
}

// Path returns the file holding the posting.
func (s DataPointSource) Path() string {
	return filepath.Join(s.Directory, s.Meta.Theme.Name(), s.Meta.ID.String())
}

// Theme returns the label of the posting.
func (s DataPointSource) Theme() theme.Theme { return s.Meta.Theme }

// Fields returns the row form of the source.
func (s DataPointSource) Fields() map[string]string {
	f := s.Meta.Fields()
	f["directory"] = s.Directory
	return f
}

// SourceFromFields parses the row form produced by Fields.
func SourceFromFields(fields map[string]string) (DataPointSource, error) {
	dir, ok := fields["directory"]
	if !ok {
		return DataPointSource{}, fmt.Errorf("%w: missing directory", ErrMalformedRow)
	}
	meta, err := MetaFromFields(fields)
	if err != nil {
		return DataPointSource{}, err
	}
	return DataPointSource{Directory: dir, Meta: meta}, nil
}

// DataPointSources is an ordered collection of sources.
type DataPointSources []DataPointSource

// Len returns the number of sources.
func (s DataPointSources) Len() int { return len(s) }

// Get returns the source at position i.
func (s DataPointSources) Get(i int) DataPointSource { return s[i] }

// Slice returns the sub-collection [lo, hi).
func (s DataPointSources) Slice(lo, hi int) DataPointSources { return s[lo:hi] }

// Pick returns the sources at the given positions, in that order.
func (s DataPointSources) Pick(indices []int) DataPointSources {
	out := make(DataPointSources, len(indices))
	for i, idx := range indices {
		out[i] = s[idx]
	}
	return out
}

// Themes returns the label of every source.
func (s DataPointSources) Themes() theme.Themes {
	out := make(theme.Themes, len(s))
	for i, src := range s {
		out[i] = src.Meta.Theme
	}
	return out
}
