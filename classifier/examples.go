package classifier

import (
	"fmt"

	"github.com/Noofbiz/limelight/datasets"
	"github.com/Noofbiz/limelight/theme"
)

// Memory is an in-memory Examples.
type Memory struct {
	Texts  []string
	Themes theme.Themes
}

// FromPairs splits materialized (text, theme) pairs into a Memory.
func FromPairs(items []datasets.RawTextTheme) *Memory {
	m := &Memory{
		Texts:  make([]string, len(items)),
		Themes: make(theme.Themes, len(items)),
	}
	for i, it := range items {
		m.Texts[i] = it.Text
		m.Themes[i] = it.Theme
	}
	return m
}

func (m *Memory) Len() int { return len(m.Texts) }

func (m *Memory) Batch(indices []int) ([]string, theme.Themes, error) {
	texts := make([]string, len(indices))
	themes := make(theme.Themes, len(indices))
	for i, idx := range indices {
		if idx < 0 || idx >= len(m.Texts) {
			return nil, nil, fmt.Errorf("index %d out of range [0, %d)", idx, len(m.Texts))
		}
		texts[i] = m.Texts[idx]
		themes[i] = m.Themes[idx]
	}
	return texts, themes, nil
}

// Lazy reads examples from disk on demand.
type Lazy struct {
	Dataset datasets.Dataset[datasets.RawTextTheme]
}

func (l Lazy) Len() int { return l.Dataset.Len() }

func (l Lazy) Batch(indices []int) ([]string, theme.Themes, error) {
	items, err := l.Dataset.Batch(indices)
	if err != nil {
		return nil, nil, err
	}
	m := FromPairs(items)
	return m.Texts, m.Themes, nil
}
