package vectorizer

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/Noofbiz/limelight/estimator"
	"github.com/Noofbiz/limelight/vector"
)

// Selector keeps the MaxFeatures columns an estimator scores highest. No
// importance threshold applies: after Fit exactly min(MaxFeatures, width)
// columns are selected.
type Selector struct {
	Estimator   estimator.Estimator
	MaxFeatures int

	support     []int
	importances []float64
}

// NewSelector binds est with a target column count.
func NewSelector(est estimator.Estimator, maxFeatures int) *Selector {
	return &Selector{Estimator: est, MaxFeatures: maxFeatures}
}

// Fit fits the estimator on (x, y) and ranks its importances. Ties are broken
// by the lower column index.
func (s *Selector) Fit(x *vector.CSR, y mat.Matrix) error {
	if err := s.Estimator.Fit(x, y); err != nil {
		return fmt.Errorf("fit estimator: %w", err)
	}
	imp, err := s.Estimator.FeatureImportances()
	if err != nil {
		return fmt.Errorf("feature importances: %w", err)
	}
	if len(imp) != x.Cols {
		return fmt.Errorf("estimator scored %d features, matrix has %d", len(imp), x.Cols)
	}

	order := make([]int, len(imp))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return imp[order[a]] > imp[order[b]] })
	support := order[:min(s.MaxFeatures, len(order))]
	sort.Ints(support)

	s.support = support
	s.importances = imp
	return nil
}

// Support returns the selected columns in ascending order.
func (s *Selector) Support() ([]int, error) {
	if s.support == nil {
		return nil, ErrNotFitted
	}
	return append([]int(nil), s.support...), nil
}

// Importances returns the estimator's score for every input column.
func (s *Selector) Importances() ([]float64, error) {
	if s.importances == nil {
		return nil, ErrNotFitted
	}
	return append([]float64(nil), s.importances...), nil
}

// Transform keeps the selected columns of x as a dense matrix.
func (s *Selector) Transform(x *vector.CSR) (*mat.Dense, error) {
	if s.support == nil {
		return nil, ErrNotFitted
	}
	if x.Cols != len(s.importances) {
		return nil, fmt.Errorf("selector fitted on %d columns, got %d", len(s.importances), x.Cols)
	}
	return x.DenseColumns(s.support), nil
}
