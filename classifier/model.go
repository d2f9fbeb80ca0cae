// Package classifier trains a small multilayer perceptron that assigns a
// theme to feature vectors produced by a fitted vectorizer.
//
// The network is implemented in pure Go: ReLU hidden layers, a softmax
// output over theme.Count classes and cross-entropy loss minimized by
// mini-batch SGD. Batches travel between the vectorizer and the model as
// gomlx tensors.
package classifier

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/gomlx/gomlx/pkg/core/tensors"

	"github.com/Noofbiz/limelight/theme"
)

// ErrInputDim is returned when an input row does not match the model width.
var ErrInputDim = errors.New("input has incorrect dimension")

// Config holds the network and training hyperparameters.
type Config struct {
	// HiddenSizes is the list of hidden layer sizes. If empty, a single
	// hidden layer of 64 units is used.
	HiddenSizes []int `yaml:"hidden_sizes" validate:"dive,gt=0"`

	// LearningRate is the SGD step size. If zero, 0.1.
	LearningRate float64 `yaml:"learning_rate" validate:"gte=0"`

	// Epochs to train for. If zero, 10.
	Epochs int `yaml:"epochs" validate:"gte=0"`

	// BatchSize for mini-batch updates. If zero, 32.
	BatchSize int `yaml:"batch_size" validate:"gte=0"`

	// Seed controls weight init and shuffling. If zero, a time-based seed
	// is used.
	Seed int64 `yaml:"seed"`
}

func (c Config) withDefaults() Config {
	if len(c.HiddenSizes) == 0 {
		c.HiddenSizes = []int{64}
	}
	if c.LearningRate <= 0 {
		c.LearningRate = 0.1
	}
	if c.Epochs <= 0 {
		c.Epochs = 10
	}
	if c.BatchSize <= 0 {
		c.BatchSize = 32
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c
}

// Model is an MLP mapping inputDim features to theme.Count class scores.
type Model struct {
	Config Config

	// layerSizes includes input size, hidden sizes, then output size.
	layerSizes []int

	// weights[l] has shape [out][in] for layer l -> l+1.
	weights [][][]float32

	// biases[l] has length out for layer l -> l+1.
	biases [][]float32

	rng *rand.Rand
}

// NewModel builds a model for inputs of width inputDim with small random
// weights.
func NewModel(inputDim int, cfg Config) (*Model, error) {
	if inputDim <= 0 {
		return nil, fmt.Errorf("input dimension must be positive, got %d", inputDim)
	}
	cfg = cfg.withDefaults()
	m := &Model{
		Config: cfg,
		rng:    rand.New(rand.NewSource(cfg.Seed)),
	}

	sizes := make([]int, 0, 2+len(cfg.HiddenSizes))
	sizes = append(sizes, inputDim)
	sizes = append(sizes, cfg.HiddenSizes...)
	sizes = append(sizes, theme.Count)
	m.layerSizes = sizes

	L := len(sizes) - 1
	m.weights = make([][][]float32, L)
	m.biases = make([][]float32, L)
	for l := range L {
		in, out := sizes[l], sizes[l+1]
		// Glorot uniform
		limit := float32(math.Sqrt(6.0 / float64(in+out)))
		w := make([][]float32, out)
		for j := range out {
			row := make([]float32, in)
			for i := range row {
				row[i] = (m.rng.Float32()*2 - 1) * limit
			}
			w[j] = row
		}
		m.weights[l] = w
		m.biases[l] = make([]float32, out)
	}
	return m, nil
}

// InputDim returns the expected feature count.
func (m *Model) InputDim() int { return m.layerSizes[0] }

func relu(x []float32) {
	for i := range x {
		if x[i] < 0 {
			x[i] = 0
		}
	}
}

// softmax turns scores into probabilities in place.
func softmax(x []float32) {
	hi := x[0]
	for _, v := range x[1:] {
		hi = max(hi, v)
	}
	var sum float64
	for i, v := range x {
		e := math.Exp(float64(v - hi))
		x[i] = float32(e)
		sum += e
	}
	for i := range x {
		x[i] = float32(float64(x[i]) / sum)
	}
}

// forward returns the pre-activations of every layer and the activations
// (acts[0] is the input, the last entry holds the class probabilities).
func (m *Model) forward(input []float32) (preActs, acts [][]float32, err error) {
	if len(input) != m.layerSizes[0] {
		return nil, nil, fmt.Errorf("%w: got %d, want %d", ErrInputDim, len(input), m.layerSizes[0])
	}
	L := len(m.weights)
	acts = make([][]float32, L+1)
	acts[0] = input
	preActs = make([][]float32, L)
	for l := range L {
		in := acts[l]
		pre := make([]float32, len(m.biases[l]))
		for j, row := range m.weights[l] {
			sum := m.biases[l][j]
			for i, x := range in {
				if x != 0 {
					sum += row[i] * x
				}
			}
			pre[j] = sum
		}
		preActs[l] = pre

		act := append([]float32(nil), pre...)
		if l < L-1 {
			relu(act)
		} else {
			softmax(act)
		}
		acts[l+1] = act
	}
	return preActs, acts, nil
}

// Probabilities returns the class distribution of every input row.
func (m *Model) Probabilities(inputs [][]float32) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		_, acts, err := m.forward(in)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = acts[len(acts)-1]
	}
	return out, nil
}

// PredictBatch returns the most probable theme of every input row.
func (m *Model) PredictBatch(inputs [][]float32) (theme.Themes, error) {
	probs, err := m.Probabilities(inputs)
	if err != nil {
		return nil, err
	}
	out := make(theme.Themes, len(probs))
	for i, p := range probs {
		best := 0
		for c := range p {
			if p[c] > p[best] {
				best = c
			}
		}
		out[i] = theme.Theme(best)
	}
	return out, nil
}

// TrainBatch applies one averaged SGD step on the batch and returns the
// mean cross-entropy loss measured before the update.
func (m *Model) TrainBatch(inputs [][]float32, labels []int32) (float64, error) {
	if len(inputs) != len(labels) {
		return 0, fmt.Errorf("%d inputs, %d labels", len(inputs), len(labels))
	}
	batchN := len(inputs)
	if batchN == 0 {
		return 0, nil
	}

	L := len(m.weights)
	gradW := make([][][]float32, L)
	gradB := make([][]float32, L)
	for l := range L {
		gradW[l] = make([][]float32, len(m.biases[l]))
		for j := range gradW[l] {
			gradW[l][j] = make([]float32, len(m.weights[l][j]))
		}
		gradB[l] = make([]float32, len(m.biases[l]))
	}

	var loss float64
	for ex, in := range inputs {
		label := int(labels[ex])
		if label < 0 || label >= theme.Count {
			return 0, fmt.Errorf("label %d at row %d: %w", label, ex, theme.ErrInvalidThemeName)
		}
		preActs, acts, err := m.forward(in)
		if err != nil {
			return 0, fmt.Errorf("row %d: %w", ex, err)
		}

		// Softmax with cross-entropy: dLoss/dScores = p - onehot(label).
		probs := acts[len(acts)-1]
		loss -= math.Log(math.Max(float64(probs[label]), 1e-12))
		delta := append([]float32(nil), probs...)
		delta[label]--

		for l := L - 1; l >= 0; l-- {
			inAct := acts[l]
			for j, d := range delta {
				gradB[l][j] += d
				if d == 0 {
					continue
				}
				gw := gradW[l][j]
				for i, a := range inAct {
					gw[i] += d * a
				}
			}
			if l == 0 {
				break
			}
			prev := make([]float32, len(inAct))
			for i := range prev {
				if preActs[l-1][i] <= 0 {
					continue
				}
				var sum float32
				for j, d := range delta {
					sum += m.weights[l][j][i] * d
				}
				prev[i] = sum
			}
			delta = prev
		}
	}

	lr := float32(m.Config.LearningRate)
	inv := 1 / float32(batchN)
	for l := range L {
		for j := range m.biases[l] {
			m.biases[l][j] -= lr * gradB[l][j] * inv
			row := m.weights[l][j]
			for i, g := range gradW[l][j] {
				row[i] -= lr * g * inv
			}
		}
	}
	return loss / float64(batchN), nil
}

// inputRows checks that x is a [batch, InputDim] float32 tensor and returns
// its rows.
func (m *Model) inputRows(x *tensors.Tensor) ([][]float32, error) {
	if x == nil {
		return nil, errors.New("nil input tensor")
	}
	dims := x.Shape().Dimensions
	if len(dims) != 2 || dims[1] != m.InputDim() {
		return nil, fmt.Errorf("%w: input tensor shape %v, want [batch %d]", ErrInputDim, dims, m.InputDim())
	}
	rows, ok := x.Value().([][]float32)
	if !ok {
		return nil, fmt.Errorf("input tensor %s is not float32", x.Shape())
	}
	return rows, nil
}

// TrainTensors is TrainBatch over a [batch, InputDim] float32 input tensor
// and a [batch] int32 label tensor, the layouts of vector.Dense.Tensor and
// theme.Themes.Tensor.
func (m *Model) TrainTensors(x, y *tensors.Tensor) (float64, error) {
	inputs, err := m.inputRows(x)
	if err != nil {
		return 0, err
	}
	if y == nil {
		return 0, errors.New("nil label tensor")
	}
	if dims := y.Shape().Dimensions; len(dims) != 1 || dims[0] != len(inputs) {
		return 0, fmt.Errorf("label tensor shape %v, want [%d]", dims, len(inputs))
	}
	labels, ok := y.Value().([]int32)
	if !ok {
		return 0, fmt.Errorf("label tensor %s is not int32", y.Shape())
	}
	return m.TrainBatch(inputs, labels)
}

// PredictTensor is PredictBatch over a [batch, InputDim] float32 tensor.
func (m *Model) PredictTensor(x *tensors.Tensor) (theme.Themes, error) {
	inputs, err := m.inputRows(x)
	if err != nil {
		return nil, err
	}
	return m.PredictBatch(inputs)
}
