package classifier

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/stretchr/testify/require"

	"github.com/Noofbiz/limelight/datasets"
	"github.com/Noofbiz/limelight/theme"
	"github.com/Noofbiz/limelight/vectorizer"
)

func corpus(n int) *Memory {
	m := &Memory{}
	for i := range n {
		if i%2 == 0 {
			m.Texts = append(m.Texts, "the rocket reached orbit")
			m.Themes = append(m.Themes, theme.SciSpace)
		} else {
			m.Texts = append(m.Texts, "the goalie stopped the puck")
			m.Themes = append(m.Themes, theme.RecSportHockey)
		}
	}
	return m
}

func fitted(t *testing.T, texts []string) vectorizer.Vectorizer {
	t.Helper()
	v := vectorizer.NewTfidf(vectorizer.TfidfOptions{})
	require.NoError(t, v.Fit(texts, nil))
	return v
}

func TestNewModel_Shapes(t *testing.T) {
	m, err := NewModel(5, Config{HiddenSizes: []int{4, 3}, Seed: 1})
	require.NoError(t, err)
	require.Equal(t, 5, m.InputDim())
	require.Equal(t, []int{5, 4, 3, theme.Count}, m.layerSizes)

	probs, err := m.Probabilities([][]float32{{1, 0, 0, 0, 1}})
	require.NoError(t, err)
	require.Len(t, probs[0], theme.Count)
	var sum float64
	for _, p := range probs[0] {
		sum += float64(p)
	}
	require.InDelta(t, 1, sum, 1e-5)

	_, err = m.PredictBatch([][]float32{{1, 2}})
	require.ErrorIs(t, err, ErrInputDim)

	_, err = NewModel(0, Config{})
	require.Error(t, err)
}

func TestTrainer_LowersLoss(t *testing.T) {
	ex := corpus(20)
	tr, err := NewTrainer(fitted(t, ex.Texts), Config{
		HiddenSizes:  []int{16},
		LearningRate: 0.5,
		Epochs:       30,
		BatchSize:    4,
		Seed:         42,
	}, nil)
	require.NoError(t, err)

	var epochs int
	tr.OnEpoch = func(int, float64) { epochs++ }
	losses, err := tr.Train(ex)
	require.NoError(t, err)
	require.Len(t, losses, 30)
	require.Equal(t, 30, epochs)
	require.Less(t, losses[len(losses)-1], losses[0])
	for _, l := range losses {
		require.False(t, math.IsNaN(l))
	}

	acc, err := tr.Accuracy(ex)
	require.NoError(t, err)
	require.Equal(t, 1.0, acc)

	got, err := tr.Predict([]string{"a rocket in orbit"})
	require.NoError(t, err)
	require.Equal(t, theme.Themes{theme.SciSpace}, got)
}

func TestTrainer_RequiresFittedVectorizer(t *testing.T) {
	_, err := NewTrainer(vectorizer.NewTfidf(vectorizer.TfidfOptions{}), Config{}, nil)
	require.ErrorIs(t, err, vectorizer.ErrNotFitted)
	_, err = NewTrainer(nil, Config{}, nil)
	require.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	ex := corpus(8)
	v := fitted(t, ex.Texts)
	tr, err := NewTrainer(v, Config{Epochs: 3, BatchSize: 4, Seed: 7}, nil)
	require.NoError(t, err)
	_, err = tr.Train(ex)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "model.gob")
	require.NoError(t, tr.Model().Save(path))
	m, err := Load(path)
	require.NoError(t, err)

	want, err := tr.Predict(ex.Texts)
	require.NoError(t, err)
	got, err := FromModel(v, m, nil).Predict(ex.Texts)
	require.NoError(t, err)
	require.Equal(t, want, got)

	bad := filepath.Join(t.TempDir(), "bad.gob")
	require.NoError(t, os.WriteFile(bad, []byte("junk"), 0644))
	_, err = Load(bad)
	require.Error(t, err)
}

func TestLazyExamples(t *testing.T) {
	dir := t.TempDir()
	for _, th := range []theme.Theme{theme.SciSpace, theme.RecSportHockey} {
		require.NoError(t, os.MkdirAll(filepath.Join(dir, th.Name()), 0755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, theme.SciSpace.Name(), "1"), []byte("rocket"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, theme.RecSportHockey.Name(), "2"), []byte("puck"), 0644))

	sources := datasets.DataPointSources{
		datasets.NewDataPointSource(dir, 1, theme.SciSpace),
		datasets.NewDataPointSource(dir, 2, theme.RecSportHockey),
	}
	ex := Lazy{Dataset: datasets.New(sources, datasets.ReadRawTextTheme(datasets.Lenient))}
	require.Equal(t, 2, ex.Len())

	texts, themes, err := ex.Batch([]int{1, 0})
	require.NoError(t, err)
	require.Equal(t, []string{"puck", "rocket"}, texts)
	require.Equal(t, theme.Themes{theme.RecSportHockey, theme.SciSpace}, themes)

	_, _, err = corpus(2).Batch([]int{5})
	require.Error(t, err)
}

func TestModel_Tensors(t *testing.T) {
	m, err := NewModel(3, Config{HiddenSizes: []int{4}, LearningRate: 0.5, Seed: 3})
	require.NoError(t, err)

	x := tensors.FromAnyValue([][]float32{{1, 0, 0}, {0, 0, 1}})
	y := theme.Themes{theme.SciMed, theme.AltAtheism}.Tensor()
	first, err := m.TrainTensors(x, y)
	require.NoError(t, err)
	for range 50 {
		_, err = m.TrainTensors(x, y)
		require.NoError(t, err)
	}
	last, err := m.TrainTensors(x, y)
	require.NoError(t, err)
	require.Less(t, last, first)

	got, err := m.PredictTensor(x)
	require.NoError(t, err)
	require.Equal(t, theme.Themes{theme.SciMed, theme.AltAtheism}, got)

	_, err = m.TrainTensors(tensors.FromAnyValue([][]float32{{1, 0}}), theme.Themes{theme.SciMed}.Tensor())
	require.ErrorIs(t, err, ErrInputDim)
	_, err = m.TrainTensors(x, theme.Themes{theme.SciMed}.Tensor())
	require.Error(t, err)
	_, err = m.PredictTensor(tensors.FromAnyValue([]float32{1, 0, 0}))
	require.ErrorIs(t, err, ErrInputDim)
}
