// Package vectorizer turns texts into feature vectors.
//
// Tfidf is the base vectorizer. FeatureSelected decorates any fitted base
// vectorizer with a supervised selector that keeps the columns an estimator
// scores highest. Both persist through Dump and Load.
package vectorizer

import (
	"errors"

	"github.com/Noofbiz/limelight/theme"
	"github.com/Noofbiz/limelight/vector"
)

var (
	// ErrEmptyInput is returned when fitting on no texts.
	ErrEmptyInput = errors.New("empty input")
	// ErrNotFitted is returned when a vectorizer is used before Fit.
	ErrNotFitted = errors.New("vectorizer not fitted")
	// ErrCorruptArtifact is returned when a dumped vectorizer cannot be read.
	ErrCorruptArtifact = errors.New("corrupt vectorizer artifact")
	// ErrThemeCountMismatch is returned when texts and themes differ in length.
	ErrThemeCountMismatch = errors.New("texts and themes differ in length")
)

// Vectorizer fits on a collection of texts and maps texts to feature
// vectors.
type Vectorizer interface {
	// Fit learns from texts. Unsupervised vectorizers ignore themes.
	Fit(texts []string, themes theme.Themes) error
	// Transform maps texts to one row of features each.
	Transform(texts []string) (vector.TextVectors, error)
	// NumFeatures returns the width of Transform's output.
	NumFeatures() (int, error)
}
