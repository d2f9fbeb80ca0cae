// Package datasets provides lazy views over the on-disk newsgroup corpus.
//
// A corpus lives under a root directory as root/{theme name}/{numeric id},
// one posting per file. Scanning the root yields DataPointSources, which only
// locate postings; a Dataset pairs those sources with a Transform and reads a
// file only when its item is requested.
//
// Layout and intended usage:
//
//	ds, _ := datasets.CreateSources(root)
//	train, test, _ := ds.TrainTestSplit(datasets.SplitOptions{Seed: 1})
//	_ = train.SaveSourcesCSV("train.csv")
//	texts, _ := datasets.ReadDatasetCSV("train.csv", datasets.ReadRawText(datasets.Lenient))
//
// Transforms are never serialized: a CSV carries locations only and the
// reader supplies the transform again.
package datasets

import (
	"fmt"
	"math"
	"math/rand"
	"path/filepath"
	"time"
)

// Dataset is a lazy, transform-applied view over an ordered collection of
// sources. The zero value is an empty dataset.
type Dataset[T any] struct {
	sources   DataPointSources
	transform Transform[T]
}

// New builds a dataset over sources.
func New[T any](sources DataPointSources, transform Transform[T]) Dataset[T] {
	return Dataset[T]{sources: sources, transform: transform}
}

// Create scans root and builds a dataset over its postings. root is made
// absolute first so that saved sources stay valid from any working directory.
func Create[T any](root string, transform Transform[T]) (Dataset[T], error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return Dataset[T]{}, fmt.Errorf("resolve %s: %w", root, err)
	}
	sources, err := Scan(abs)
	if err != nil {
		return Dataset[T]{}, err
	}
	return New(sources, transform), nil
}

// CreateSources is Create with the identity transform.
func CreateSources(root string) (Dataset[DataPointSource], error) {
	return Create(root, Identity)
}

// ReadDatasetCSV reads sources written by SaveSourcesCSV and binds them to
// transform.
func ReadDatasetCSV[T any](path string, transform Transform[T]) (Dataset[T], error) {
	sources, err := ReadCSV(path)
	if err != nil {
		return Dataset[T]{}, err
	}
	return New(sources, transform), nil
}

// Len returns the number of items.
func (d Dataset[T]) Len() int { return len(d.sources) }

// Sources returns the underlying sources.
func (d Dataset[T]) Sources() DataPointSources { return d.sources }

// Get reads item i through the transform.
func (d Dataset[T]) Get(i int) (T, error) {
	if i < 0 || i >= len(d.sources) {
		var zero T
		return zero, fmt.Errorf("index %d out of range [0, %d)", i, len(d.sources))
	}
	return d.transform(d.sources[i])
}

// Slice returns a view over items [lo, hi) with the same transform. Nothing is
// read.
func (d Dataset[T]) Slice(lo, hi int) Dataset[T] {
	return New(d.sources.Slice(lo, hi), d.transform)
}

// Batch reads the items at the given indices, in that order.
func (d Dataset[T]) Batch(indices []int) ([]T, error) {
	out := make([]T, len(indices))
	for i, idx := range indices {
		v, err := d.Get(idx)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// WithTransform returns a view over the same sources with fn substituted.
func (d Dataset[T]) WithTransform(fn Transform[T]) Dataset[T] {
	return New(d.sources, fn)
}

// Retransform returns a view over the sources of d yielding a different type.
func Retransform[T, U any](d Dataset[T], fn Transform[U]) Dataset[U] {
	return New(d.sources, fn)
}

// SaveSourcesCSV writes the dataset's sources to path. See WriteCSV.
func (d Dataset[T]) SaveSourcesCSV(path string) error {
	return WriteCSV(d.sources, path)
}

// DefaultTestRatio is the share of items put in the test half of a split.
const DefaultTestRatio = 0.25

// SplitOptions configures TrainTestSplit.
type SplitOptions struct {
	// TestRatio is the share of items in the test half, in (0, 1).
	// If zero DefaultTestRatio is used.
	TestRatio float64
	// Seed drives the permutation. If zero a time-based seed is used.
	Seed int64
}

// TrainTestSplit shuffles the items and partitions them into a train and a
// test view. The test view holds ceil(TestRatio*n) items; every item lands
// in exactly one view. Both views keep the transform of d.
func (d Dataset[T]) TrainTestSplit(opts SplitOptions) (train, test Dataset[T], err error) {
	ratio := opts.TestRatio
	if ratio == 0 {
		ratio = DefaultTestRatio
	}
	if ratio <= 0 || ratio >= 1 {
		return Dataset[T]{}, Dataset[T]{}, fmt.Errorf("test ratio must be in (0, 1), got %v", ratio)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	n := len(d.sources)
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	nTest := int(math.Ceil(ratio * float64(n)))

	test = New(d.sources.Pick(perm[:nTest]), d.transform)
	train = New(d.sources.Pick(perm[nTest:]), d.transform)
	return train, test, nil
}
