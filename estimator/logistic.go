package estimator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/Noofbiz/limelight/vector"
)

// LogisticRegression is a multinomial (softmax) linear classifier trained by
// full-batch gradient descent with an L2 penalty. A feature's importance is
// the L1 norm of its coefficients across classes.
type LogisticRegression struct {
	// Classes is the number of target classes. Required.
	Classes int
	// Epochs is the number of gradient steps. If zero, 100.
	Epochs int
	// LearningRate is the step size. If zero, 1.0.
	LearningRate float64
	// L2 is the penalty weight on the coefficients. If zero, 1e-4.
	L2 float64

	// Coef holds the fitted Classes×features coefficients.
	Coef *mat.Dense
	// Intercept holds one bias per class.
	Intercept []float64
}

// Fit trains the model. y must be an n×1 matrix of class indices in
// [0, Classes).
func (l *LogisticRegression) Fit(x *vector.CSR, y mat.Matrix) error {
	if err := checkRows(x, y); err != nil {
		return err
	}
	if l.Classes < 2 {
		return fmt.Errorf("logistic regression needs at least 2 classes, got %d", l.Classes)
	}
	if _, c := y.Dims(); c != 1 {
		return fmt.Errorf("%w: targets must be a single class-index column, got %d columns", ErrShapeMismatch, c)
	}
	epochs := l.Epochs
	if epochs <= 0 {
		epochs = 100
	}
	lr := l.LearningRate
	if lr <= 0 {
		lr = 1.0
	}
	l2 := l.L2
	if l2 <= 0 {
		l2 = 1e-4
	}

	n, d, k := x.Rows, x.Cols, l.Classes
	labels := make([]int, n)
	for i := range n {
		v := y.At(i, 0)
		c := int(v)
		if float64(c) != v || c < 0 || c >= k {
			return fmt.Errorf("%w: target %v at row %d is not a class index in [0, %d)", ErrShapeMismatch, v, i, k)
		}
		labels[i] = c
	}

	// w is row-major k×d.
	w := make([]float64, k*d)
	b := make([]float64, k)
	gradW := make([]float64, k*d)
	gradB := make([]float64, k)
	scores := make([]float64, k)

	for range epochs {
		clear(gradW)
		clear(gradB)
		for i := range n {
			idx, val := x.Row(i)
			copy(scores, b)
			for c := range k {
				row := w[c*d : (c+1)*d]
				for j, col := range idx {
					scores[c] += row[col] * float64(val[j])
				}
			}
			lse := floats.LogSumExp(scores)
			for c := range k {
				diff := math.Exp(scores[c] - lse)
				if c == labels[i] {
					diff--
				}
				gradB[c] += diff
				row := gradW[c*d : (c+1)*d]
				for j, col := range idx {
					row[col] += diff * float64(val[j])
				}
			}
		}
		inv := 1 / float64(n)
		for p := range w {
			w[p] -= lr * (gradW[p]*inv + l2*w[p])
		}
		floats.AddScaled(b, -lr*inv, gradB)
	}

	l.Coef = mat.NewDense(k, d, w)
	l.Intercept = b
	return nil
}

// FeatureImportances returns, per feature, the sum of absolute coefficients
// over classes.
func (l *LogisticRegression) FeatureImportances() ([]float64, error) {
	if l.Coef == nil {
		return nil, ErrNotFitted
	}
	k, d := l.Coef.Dims()
	out := make([]float64, d)
	for c := range k {
		for j := range d {
			out[j] += math.Abs(l.Coef.At(c, j))
		}
	}
	return out, nil
}

// Predict returns the most probable class of every row of x.
func (l *LogisticRegression) Predict(x *vector.CSR) ([]int, error) {
	if l.Coef == nil {
		return nil, ErrNotFitted
	}
	k, d := l.Coef.Dims()
	if x.Cols != d {
		return nil, fmt.Errorf("%w: model has %d features, input has %d", ErrShapeMismatch, d, x.Cols)
	}
	out := make([]int, x.Rows)
	scores := make([]float64, k)
	for i := range x.Rows {
		idx, val := x.Row(i)
		copy(scores, l.Intercept)
		for c := range k {
			for j, col := range idx {
				scores[c] += l.Coef.At(c, col) * float64(val[j])
			}
		}
		out[i] = floats.MaxIdx(scores)
	}
	return out, nil
}
