package theme

import (
	"github.com/gomlx/gomlx/pkg/core/tensors"
	"gonum.org/v1/gonum/mat"
)

// Themes is an ordered collection of labels, typically the targets of a
// batch of texts.
type Themes []Theme

// Len returns the number of themes in the collection.
func (ts Themes) Len() int { return len(ts) }

// Get returns the theme at position i.
func (ts Themes) Get(i int) Theme { return ts[i] }

// Slice returns the sub-collection [lo, hi).
func (ts Themes) Slice(lo, hi int) Themes { return ts[lo:hi] }

// Index returns the ordinal of every theme.
func (ts Themes) Index() []int {
	out := make([]int, len(ts))
	for i, t := range ts {
		out[i] = int(t)
	}
	return out
}

// IndexVector returns the ordinals as an n×1 column, the target layout of
// estimators that expect a class index per row.
func (ts Themes) IndexVector() *mat.VecDense {
	if len(ts) == 0 {
		return &mat.VecDense{}
	}
	data := make([]float64, len(ts))
	for i, t := range ts {
		data[i] = float64(t)
	}
	return mat.NewVecDense(len(ts), data)
}

// IndexMatrix returns an n×Count indicator matrix with a single 1 per row at
// the column of the theme's ordinal.
func (ts Themes) IndexMatrix() *mat.Dense {
	if len(ts) == 0 {
		return &mat.Dense{}
	}
	m := mat.NewDense(len(ts), Count, nil)
	for i, t := range ts {
		m.Set(i, int(t), 1)
	}
	return m
}

// Tensor returns the ordinals as an int32 tensor of shape [n], the label
// layout consumed by the classifier.
func (ts Themes) Tensor() *tensors.Tensor {
	out := make([]int32, len(ts))
	for i, t := range ts {
		out[i] = int32(t)
	}
	return tensors.FromAnyValue(out)
}
