// Package vector holds the numeric matrices produced by vectorizers.
//
// Two variants exist: Sparse wraps the CSR output of a TF-IDF vectorizer and
// Dense wraps the reduced matrix of a feature-selected vectorizer. Both are
// created once per Transform call and never mutated afterwards.
package vector

import (
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"gonum.org/v1/gonum/mat"
)

// TextVectors is the result of transforming a batch of texts: one row per
// text, one column per feature.
type TextVectors interface {
	// Dims returns the number of texts and the number of features.
	Dims() (r, c int)
	// Raw exposes the underlying matrix for numeric code.
	Raw() mat.Matrix
}

// Sparse holds feature vectors in compressed sparse row form.
type Sparse struct {
	m *CSR
}

// NewSparse wraps m.
func NewSparse(m *CSR) *Sparse { return &Sparse{m: m} }

func (s *Sparse) Dims() (r, c int) { return s.m.Dims() }

func (s *Sparse) Raw() mat.Matrix { return s.m }

// CSR returns the wrapped matrix.
func (s *Sparse) CSR() *CSR { return s.m }

// Dense holds feature vectors as a dense gonum matrix. gonum has no 0×c
// matrix, so a batch without rows keeps its width in cols.
type Dense struct {
	m    *mat.Dense
	cols int
}

// NewDense wraps m.
func NewDense(m *mat.Dense) *Dense {
	d := &Dense{m: m}
	if !m.IsEmpty() {
		_, d.cols = m.Dims()
	}
	return d
}

// NewEmptyDense returns a matrix with no rows and cols features.
func NewEmptyDense(cols int) *Dense { return &Dense{m: &mat.Dense{}, cols: cols} }

func (d *Dense) Dims() (r, c int) {
	if d.m.IsEmpty() {
		return 0, d.cols
	}
	return d.m.Dims()
}

func (d *Dense) Raw() mat.Matrix { return d.m }

// Rows32 returns a float32 copy of the matrix, row by row.
func (d *Dense) Rows32() [][]float32 {
	r, c := d.Dims()
	out := make([][]float32, r)
	for i := range r {
		row := make([]float32, c)
		for j := range c {
			row[j] = float32(d.m.At(i, j))
		}
		out[i] = row
	}
	return out
}

// Tensor converts the matrix into a float32 gomlx tensor of shape [r, c].
func (d *Dense) Tensor() *tensors.Tensor {
	return tensors.FromAnyValue(d.Rows32())
}
