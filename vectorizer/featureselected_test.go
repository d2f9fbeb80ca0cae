package vectorizer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Noofbiz/limelight/estimator"
	"github.com/Noofbiz/limelight/theme"
	"github.com/Noofbiz/limelight/vector"
)

// spaceVsHockey returns texts where the space and hockey words decide the
// theme and "common words" appear everywhere.
func spaceVsHockey(n int) ([]string, theme.Themes) {
	texts := make([]string, n)
	themes := make(theme.Themes, n)
	for i := range n {
		if i%2 == 0 {
			texts[i] = "rocket orbit common words"
			themes[i] = theme.SciSpace
		} else {
			texts[i] = "hockey puck common words"
			themes[i] = theme.RecSportHockey
		}
	}
	return texts, themes
}

func fittedTfidf(t *testing.T, texts []string) *Tfidf {
	t.Helper()
	base := NewTfidf(TfidfOptions{})
	require.NoError(t, base.Fit(texts, nil))
	return base
}

func TestTargetStrategy_Targets(t *testing.T) {
	themes := theme.Themes{theme.SciMed, theme.AltAtheism}

	y, err := OneHotTargets.Targets(themes)
	require.NoError(t, err)
	r, c := y.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, theme.Count, c)
	require.Equal(t, 1.0, y.At(0, int(theme.SciMed)))

	y, err = ClassIndexTargets.Targets(themes)
	require.NoError(t, err)
	r, c = y.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 1, c)
	require.Equal(t, float64(theme.AltAtheism), y.At(1, 0))

	_, err = TargetStrategy(9).Targets(themes)
	require.Error(t, err)
}

func TestFeatureSelected_RandomForest(t *testing.T) {
	texts, themes := spaceVsHockey(40)
	base := fittedTfidf(t, texts)

	fs, err := CreateRandomForest(base, 1, &estimator.RandomForest{Trees: 20, Seed: 5})
	require.NoError(t, err)
	require.Equal(t, OneHotTargets, fs.Strategy())
	require.NoError(t, fs.Fit(texts, themes))

	support, err := fs.Selector().Support()
	require.NoError(t, err)
	require.Len(t, support, 1)

	names, err := base.FeatureNames()
	require.NoError(t, err)
	require.Contains(t, []string{"hockey", "orbit", "puck", "rocket"}, names[support[0]])

	out, err := fs.Transform(texts[:3])
	require.NoError(t, err)
	require.IsType(t, &vector.Dense{}, out)
	r, c := out.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 1, c)
}

func TestFeatureSelected_WidthIsCapped(t *testing.T) {
	texts, themes := spaceVsHockey(10)
	base := fittedTfidf(t, texts)
	width, err := base.NumFeatures()
	require.NoError(t, err)

	for _, k := range []int{1, 3, width, width + 10} {
		fs, err := CreateLogisticRegression(base, k, &estimator.LogisticRegression{Epochs: 5})
		require.NoError(t, err)
		require.NoError(t, fs.Fit(texts, themes))

		n, err := fs.NumFeatures()
		require.NoError(t, err)
		require.Equal(t, min(k, width), n)

		support, err := fs.Selector().Support()
		require.NoError(t, err)
		require.IsIncreasing(t, support)

		out, err := fs.Transform(texts)
		require.NoError(t, err)
		_, c := out.Dims()
		require.Equal(t, n, c)
	}
}

func TestFeatureSelected_Errors(t *testing.T) {
	texts, themes := spaceVsHockey(4)
	base := fittedTfidf(t, texts)

	_, err := CreateRandomForest(base, 0, nil)
	require.Error(t, err)
	_, err = CreateFromEstimator(nil, base, 2, OneHotTargets)
	require.Error(t, err)

	fs, err := CreateLogisticRegression(base, 2, nil)
	require.NoError(t, err)
	_, err = fs.Transform(texts)
	require.ErrorIs(t, err, ErrNotFitted)
	_, err = fs.NumFeatures()
	require.ErrorIs(t, err, ErrNotFitted)

	require.ErrorIs(t, fs.Fit(nil, nil), ErrEmptyInput)
	require.ErrorIs(t, fs.Fit(texts, themes[:2]), ErrThemeCountMismatch)

	unfitted, err := CreateRandomForest(NewTfidf(TfidfOptions{}), 2, nil)
	require.NoError(t, err)
	require.ErrorIs(t, unfitted.Fit(texts, themes), ErrNotFitted)
}

func TestFeatureSelected_EmptyBatchKeepsWidth(t *testing.T) {
	texts, themes := spaceVsHockey(10)
	base := fittedTfidf(t, texts)

	fs, err := CreateRandomForest(base, 2, &estimator.RandomForest{Trees: 5, Seed: 2})
	require.NoError(t, err)
	require.NoError(t, fs.Fit(texts, themes))
	n, err := fs.NumFeatures()
	require.NoError(t, err)

	out, err := fs.Transform(nil)
	require.NoError(t, err)
	r, c := out.Dims()
	require.Zero(t, r)
	require.Equal(t, n, c)
}

func TestCreateLogisticRegression_LeavesModelAlone(t *testing.T) {
	texts, themes := spaceVsHockey(10)
	base := fittedTfidf(t, texts)

	model := &estimator.LogisticRegression{Epochs: 5}
	fs, err := CreateLogisticRegression(base, 2, model)
	require.NoError(t, err)
	require.NoError(t, fs.Fit(texts, themes))

	require.Zero(t, model.Classes)
	require.Nil(t, model.Coef)
	require.Equal(t, 5, model.Epochs)
}
