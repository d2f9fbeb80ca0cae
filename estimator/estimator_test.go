package estimator

import (
	"bytes"
	"encoding/gob"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/Noofbiz/limelight/vector"
)

// informative builds n samples over 6 features where feature 2 alone decides
// the class (0 or 1) and the rest is noise.
func informative(t *testing.T, n int) (*vector.CSR, []int) {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	rows := make([][]vector.Entry, n)
	labels := make([]int, n)
	for i := range n {
		label := i % 2
		labels[i] = label
		var row []vector.Entry
		if label == 1 {
			row = append(row, vector.Entry{Col: 2, Value: 0.5 + rng.Float32()/2})
		}
		for _, col := range []int{0, 1, 3, 4, 5} {
			if rng.Float32() < 0.5 {
				row = append(row, vector.Entry{Col: col, Value: rng.Float32()})
			}
		}
		rows[i] = row
	}
	x, err := vector.NewCSR(6, rows)
	require.NoError(t, err)
	return x, labels
}

func oneHot(labels []int, k int) *mat.Dense {
	m := mat.NewDense(len(labels), k, nil)
	for i, l := range labels {
		m.Set(i, l, 1)
	}
	return m
}

func classIndex(labels []int) *mat.VecDense {
	v := mat.NewVecDense(len(labels), nil)
	for i, l := range labels {
		v.SetVec(i, float64(l))
	}
	return v
}

func TestRandomForest_RanksInformativeFeature(t *testing.T) {
	x, labels := informative(t, 120)
	f := &RandomForest{Trees: 20, MaxDepth: 4, Seed: 3}

	_, err := f.FeatureImportances()
	require.ErrorIs(t, err, ErrNotFitted)

	require.NoError(t, f.Fit(x, oneHot(labels, 2)))
	imp, err := f.FeatureImportances()
	require.NoError(t, err)
	require.Len(t, imp, 6)
	require.Equal(t, 2, floats.MaxIdx(imp))
	require.InDelta(t, 1.0, floats.Sum(imp), 1e-9)
}

func TestRandomForest_ShapeMismatch(t *testing.T) {
	x, labels := informative(t, 10)
	f := &RandomForest{Trees: 2, Seed: 1}
	err := f.Fit(x, oneHot(labels[:9], 2))
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestLogisticRegression_RanksInformativeFeature(t *testing.T) {
	x, labels := informative(t, 120)
	l := &LogisticRegression{Classes: 2, Epochs: 200}

	_, err := l.FeatureImportances()
	require.ErrorIs(t, err, ErrNotFitted)

	require.NoError(t, l.Fit(x, classIndex(labels)))
	imp, err := l.FeatureImportances()
	require.NoError(t, err)
	require.Equal(t, 2, floats.MaxIdx(imp))

	pred, err := l.Predict(x)
	require.NoError(t, err)
	correct := 0
	for i := range pred {
		if pred[i] == labels[i] {
			correct++
		}
	}
	require.Greater(t, correct, 100)
}

func TestLogisticRegression_Deterministic(t *testing.T) {
	x, labels := informative(t, 40)
	a := &LogisticRegression{Classes: 2, Epochs: 30}
	b := &LogisticRegression{Classes: 2, Epochs: 30}
	require.NoError(t, a.Fit(x, classIndex(labels)))
	require.NoError(t, b.Fit(x, classIndex(labels)))

	require.True(t, mat.Equal(a.Coef, b.Coef))
	require.Equal(t, a.Intercept, b.Intercept)
}

func TestLogisticRegression_RejectsOneHotTargets(t *testing.T) {
	x, labels := informative(t, 10)
	l := &LogisticRegression{Classes: 2}
	require.ErrorIs(t, l.Fit(x, oneHot(labels, 2)), ErrShapeMismatch)

	bad := classIndex(labels)
	bad.SetVec(0, 5)
	require.ErrorIs(t, l.Fit(x, bad), ErrShapeMismatch)
}

func TestEstimators_GobThroughInterface(t *testing.T) {
	x, labels := informative(t, 40)
	var ests = []Estimator{
		&RandomForest{Trees: 3, Seed: 1},
		&LogisticRegression{Classes: 2, Epochs: 5},
	}
	require.NoError(t, ests[0].Fit(x, oneHot(labels, 2)))
	require.NoError(t, ests[1].Fit(x, classIndex(labels)))

	for _, est := range ests {
		var buf bytes.Buffer
		require.NoError(t, gob.NewEncoder(&buf).Encode(&est))

		var got Estimator
		require.NoError(t, gob.NewDecoder(&buf).Decode(&got))
		want, err := est.FeatureImportances()
		require.NoError(t, err)
		have, err := got.FeatureImportances()
		require.NoError(t, err)
		require.Equal(t, want, have)
	}
}
