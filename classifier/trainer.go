package classifier

import (
	"errors"
	"fmt"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/Noofbiz/limelight/logger"
	"github.com/Noofbiz/limelight/theme"
	"github.com/Noofbiz/limelight/vector"
	"github.com/Noofbiz/limelight/vectorizer"
)

// Examples is the minimal view of a labelled corpus the trainer needs.
type Examples interface {
	Len() int
	// Batch returns texts and themes for the given indices.
	Batch(indices []int) ([]string, theme.Themes, error)
}

// Trainer fits a Model on the output of a fitted vectorizer.
type Trainer struct {
	vectorizer vectorizer.Vectorizer
	model      *Model
	log        *zap.Logger

	// OnEpoch, if set, is called after every epoch with its mean loss.
	OnEpoch func(epoch int, loss float64)
}

// NewTrainer sizes a fresh model to the vectorizer's output width. The
// vectorizer must already be fitted. A nil logger disables logging.
func NewTrainer(v vectorizer.Vectorizer, cfg Config, log *zap.Logger) (*Trainer, error) {
	if v == nil {
		return nil, errors.New("vectorizer is nil")
	}
	width, err := v.NumFeatures()
	if err != nil {
		return nil, fmt.Errorf("vectorizer width: %w", err)
	}
	m, err := NewModel(width, cfg)
	if err != nil {
		return nil, err
	}
	return FromModel(v, m, log), nil
}

// FromModel pairs an existing model with its vectorizer.
func FromModel(v vectorizer.Vectorizer, m *Model, log *zap.Logger) *Trainer {
	return &Trainer{vectorizer: v, model: m, log: logger.OrNop(log)}
}

// Model returns the trained model.
func (t *Trainer) Model() *Model { return t.model }

// features vectorizes texts into a [len(texts), width] float32 tensor.
func (t *Trainer) features(texts []string) (*tensors.Tensor, error) {
	vecs, err := t.vectorizer.Transform(texts)
	if err != nil {
		return nil, fmt.Errorf("vectorize: %w", err)
	}
	dense, ok := vecs.(*vector.Dense)
	if !ok {
		dense = vector.NewDense(mat.DenseCopyOf(vecs.Raw()))
	}
	return dense.Tensor(), nil
}

// Train runs the configured number of epochs over ex and returns the mean
// loss of every epoch.
func (t *Trainer) Train(ex Examples) ([]float64, error) {
	if ex == nil {
		return nil, errors.New("examples are nil")
	}
	n := ex.Len()
	if n == 0 {
		return nil, errors.New("no examples")
	}
	cfg := t.model.Config
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}

	losses := make([]float64, 0, cfg.Epochs)
	for ep := range cfg.Epochs {
		t.model.rng.Shuffle(n, func(i, j int) {
			indices[i], indices[j] = indices[j], indices[i]
		})
		var total float64
		for start := 0; start < n; start += cfg.BatchSize {
			batch := indices[start:min(start+cfg.BatchSize, n)]
			texts, themes, err := ex.Batch(batch)
			if err != nil {
				return losses, fmt.Errorf("batch at %d: %w", start, err)
			}
			inputs, err := t.features(texts)
			if err != nil {
				return losses, err
			}
			loss, err := t.model.TrainTensors(inputs, themes.Tensor())
			if err != nil {
				return losses, fmt.Errorf("train batch at %d: %w", start, err)
			}
			total += loss * float64(len(batch))
		}
		mean := total / float64(n)
		losses = append(losses, mean)
		t.log.Debug("epoch done", zap.Int("epoch", ep+1), zap.Float64("loss", mean))
		if t.OnEpoch != nil {
			t.OnEpoch(ep+1, mean)
		}
	}
	t.log.Info("training finished", zap.Int("examples", n), zap.Int("epochs", cfg.Epochs))
	return losses, nil
}

// Predict returns the most probable theme of every text.
func (t *Trainer) Predict(texts []string) (theme.Themes, error) {
	if len(texts) == 0 {
		return theme.Themes{}, nil
	}
	inputs, err := t.features(texts)
	if err != nil {
		return nil, err
	}
	return t.model.PredictTensor(inputs)
}

// Accuracy returns the share of ex whose predicted theme matches its label.
// Examples are scored in batches of the configured size.
func (t *Trainer) Accuracy(ex Examples) (float64, error) {
	n := ex.Len()
	if n == 0 {
		return 0, errors.New("no examples")
	}
	step := t.model.Config.BatchSize
	correct := 0
	for start := 0; start < n; start += step {
		batch := make([]int, 0, step)
		for i := start; i < min(start+step, n); i++ {
			batch = append(batch, i)
		}
		texts, want, err := ex.Batch(batch)
		if err != nil {
			return 0, fmt.Errorf("batch at %d: %w", start, err)
		}
		got, err := t.Predict(texts)
		if err != nil {
			return 0, err
		}
		for i := range got {
			if got[i] == want[i] {
				correct++
			}
		}
	}
	return float64(correct) / float64(n), nil
}
