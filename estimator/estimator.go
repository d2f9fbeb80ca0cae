// Package estimator provides supervised models whose only job here is to
// score features: a random forest (impurity decrease) and a multinomial
// logistic regression (coefficient magnitude).
//
// Estimators are fitted on a sparse feature matrix and a target matrix whose
// layout depends on the model family; see RandomForest.Fit and
// LogisticRegression.Fit.
package estimator

import (
	"encoding/gob"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/Noofbiz/limelight/vector"
)

var (
	// ErrNotFitted is returned when importances are requested before Fit.
	ErrNotFitted = errors.New("estimator not fitted")
	// ErrShapeMismatch is returned when features and targets disagree.
	ErrShapeMismatch = errors.New("shape mismatch")
)

// Estimator is a supervised model exposing per-feature importance scores.
//
// Implementations are persisted with encoding/gob inside vectorizer
// artifacts; custom implementations must be registered with gob.Register.
type Estimator interface {
	Fit(x *vector.CSR, y mat.Matrix) error
	FeatureImportances() ([]float64, error)
}

func init() {
	gob.Register(&RandomForest{})
	gob.Register(&LogisticRegression{})
}

func checkRows(x *vector.CSR, y mat.Matrix) error {
	if x == nil || y == nil {
		return fmt.Errorf("%w: nil input", ErrShapeMismatch)
	}
	yr, _ := y.Dims()
	if x.Rows != yr {
		return fmt.Errorf("%w: %d feature rows, %d target rows", ErrShapeMismatch, x.Rows, yr)
	}
	if x.Rows == 0 || x.Cols == 0 {
		return fmt.Errorf("%w: empty feature matrix", ErrShapeMismatch)
	}
	return nil
}
