package vectorizer

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/Noofbiz/limelight/estimator"
	"github.com/Noofbiz/limelight/theme"
	"github.com/Noofbiz/limelight/vector"
)

// TargetStrategy decides how themes are presented to the selector's
// estimator. Tree ensembles take a one-hot matrix, linear models a class
// index per row.
type TargetStrategy int

const (
	// OneHotTargets yields an n×theme.Count indicator matrix.
	OneHotTargets TargetStrategy = iota
	// ClassIndexTargets yields an n×1 column of theme ordinals.
	ClassIndexTargets
)

func (s TargetStrategy) String() string {
	switch s {
	case OneHotTargets:
		return "one-hot"
	case ClassIndexTargets:
		return "class-index"
	}
	return fmt.Sprintf("strategy(%d)", int(s))
}

// Targets converts themes to the layout of the strategy.
func (s TargetStrategy) Targets(themes theme.Themes) (mat.Matrix, error) {
	switch s {
	case OneHotTargets:
		return themes.IndexMatrix(), nil
	case ClassIndexTargets:
		return themes.IndexVector(), nil
	}
	return nil, fmt.Errorf("unknown target strategy %d", int(s))
}

// FeatureSelected reduces the output of a base vectorizer to the columns
// chosen by a Selector. Its output is Dense.
type FeatureSelected struct {
	base     Vectorizer
	selector *Selector
	strategy TargetStrategy
}

// CreateFromEstimator wraps base with a selector driven by est.
func CreateFromEstimator(est estimator.Estimator, base Vectorizer, maxFeatures int, strategy TargetStrategy) (*FeatureSelected, error) {
	if est == nil || base == nil {
		return nil, errors.New("estimator and base vectorizer are required")
	}
	if maxFeatures < 1 {
		return nil, fmt.Errorf("max features must be positive, got %d", maxFeatures)
	}
	return &FeatureSelected{
		base:     base,
		selector: NewSelector(est, maxFeatures),
		strategy: strategy,
	}, nil
}

// CreateRandomForest selects features by random forest importance. A nil
// forest uses the estimator defaults.
func CreateRandomForest(base Vectorizer, maxFeatures int, forest *estimator.RandomForest) (*FeatureSelected, error) {
	if forest == nil {
		forest = &estimator.RandomForest{}
	}
	return CreateFromEstimator(forest, base, maxFeatures, OneHotTargets)
}

// CreateLogisticRegression selects features by logistic regression
// coefficient magnitude. A nil model uses the estimator defaults; the class
// count defaults to theme.Count. The selector fits its own copy of model.
func CreateLogisticRegression(base Vectorizer, maxFeatures int, model *estimator.LogisticRegression) (*FeatureSelected, error) {
	var m estimator.LogisticRegression
	if model != nil {
		m = *model
	}
	if m.Classes == 0 {
		m.Classes = theme.Count
	}
	return CreateFromEstimator(&m, base, maxFeatures, ClassIndexTargets)
}

// Base returns the wrapped vectorizer.
func (v *FeatureSelected) Base() Vectorizer { return v.base }

// Selector returns the wrapped selector.
func (v *FeatureSelected) Selector() *Selector { return v.selector }

// Strategy returns the target strategy.
func (v *FeatureSelected) Strategy() TargetStrategy { return v.strategy }

func (v *FeatureSelected) baseMatrix(texts []string) (*vector.CSR, error) {
	vecs, err := v.base.Transform(texts)
	if err != nil {
		return nil, fmt.Errorf("base vectorizer: %w", err)
	}
	if s, ok := vecs.(*vector.Sparse); ok {
		return s.CSR(), nil
	}
	return vector.CSRFrom(vecs.Raw()), nil
}

// Fit fits the selector on the base vectorizer's output for texts. The base
// vectorizer must already be fitted.
func (v *FeatureSelected) Fit(texts []string, themes theme.Themes) error {
	if len(texts) == 0 {
		return ErrEmptyInput
	}
	if len(texts) != len(themes) {
		return fmt.Errorf("%w: %d texts, %d themes", ErrThemeCountMismatch, len(texts), len(themes))
	}
	x, err := v.baseMatrix(texts)
	if err != nil {
		return err
	}
	y, err := v.strategy.Targets(themes)
	if err != nil {
		return err
	}
	return v.selector.Fit(x, y)
}

// Transform runs the base vectorizer and keeps the selected columns.
func (v *FeatureSelected) Transform(texts []string) (vector.TextVectors, error) {
	if v.selector.support == nil {
		return nil, ErrNotFitted
	}
	x, err := v.baseMatrix(texts)
	if err != nil {
		return nil, err
	}
	m, err := v.selector.Transform(x)
	if err != nil {
		return nil, err
	}
	if x.Rows == 0 {
		return vector.NewEmptyDense(len(v.selector.support)), nil
	}
	return vector.NewDense(m), nil
}

// NumFeatures returns the number of selected columns.
func (v *FeatureSelected) NumFeatures() (int, error) {
	if v.selector.support == nil {
		return 0, ErrNotFitted
	}
	return len(v.selector.support), nil
}

type featureSelectedState struct {
	Base        Vectorizer
	Estimator   estimator.Estimator
	MaxFeatures int
	Strategy    TargetStrategy
	Support     []int
	Importances []float64
}

// GobEncode implements gob.GobEncoder.
func (v *FeatureSelected) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	err := gob.NewEncoder(&buf).Encode(featureSelectedState{
		Base:        v.base,
		Estimator:   v.selector.Estimator,
		MaxFeatures: v.selector.MaxFeatures,
		Strategy:    v.strategy,
		Support:     v.selector.support,
		Importances: v.selector.importances,
	})
	return buf.Bytes(), err
}

// GobDecode implements gob.GobDecoder.
func (v *FeatureSelected) GobDecode(b []byte) error {
	var st featureSelectedState
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(&st); err != nil {
		return err
	}
	if st.Base == nil || st.Estimator == nil {
		return errors.New("feature selected state lacks base vectorizer or estimator")
	}
	v.base = st.Base
	v.strategy = st.Strategy
	v.selector = &Selector{
		Estimator:   st.Estimator,
		MaxFeatures: st.MaxFeatures,
		support:     st.Support,
		importances: st.Importances,
	}
	return nil
}
