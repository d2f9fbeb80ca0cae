package classifier

import (
	"encoding/gob"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/Noofbiz/limelight/internal/atomicfile"
)

// modelVersion is incremented when the on-disk model format changes.
const modelVersion = 1

type modelFormat struct {
	Version    int
	CreatedAt  int64
	Config     Config
	LayerSizes []int
	Weights    [][][]float32
	Biases     [][]float32
}

// Save writes the model to path using encoding/gob. The write is atomic.
func (m *Model) Save(path string) error {
	if path == "" {
		return fmt.Errorf("empty model path")
	}
	return atomicfile.Write(path, func(w io.Writer) error {
		err := gob.NewEncoder(w).Encode(&modelFormat{
			Version:    modelVersion,
			CreatedAt:  time.Now().Unix(),
			Config:     m.Config,
			LayerSizes: m.layerSizes,
			Weights:    m.weights,
			Biases:     m.biases,
		})
		if err != nil {
			return fmt.Errorf("encode model: %w", err)
		}
		return nil
	})
}

// Load reads a model written by Save.
func Load(path string) (*Model, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open model file %s: %w", path, err)
	}
	defer fh.Close()

	var mf modelFormat
	if err := gob.NewDecoder(fh).Decode(&mf); err != nil {
		return nil, fmt.Errorf("decode model %s: %w", path, err)
	}
	if mf.Version != modelVersion {
		return nil, fmt.Errorf("model version mismatch: file=%d expected=%d", mf.Version, modelVersion)
	}
	if len(mf.LayerSizes) < 2 || len(mf.Weights) != len(mf.LayerSizes)-1 || len(mf.Biases) != len(mf.Weights) {
		return nil, fmt.Errorf("model %s: inconsistent layer shapes", path)
	}
	return &Model{
		Config:     mf.Config,
		layerSizes: mf.LayerSizes,
		weights:    mf.Weights,
		biases:     mf.Biases,
		rng:        rand.New(rand.NewSource(mf.Config.Seed)),
	}, nil
}
