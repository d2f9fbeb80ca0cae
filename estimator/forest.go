package estimator

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/Noofbiz/limelight/vector"
)

// RandomForest is an ensemble of bootstrap CART trees split on Gini
// impurity. Its feature importance is the impurity decrease each feature
// achieves, normalized per tree and averaged over the ensemble.
type RandomForest struct {
	// Trees is the ensemble size. If zero, 100 trees are grown.
	Trees int
	// MaxDepth bounds tree depth. If zero, trees grow until nodes are pure
	// or too small to split.
	MaxDepth int
	// MinSamplesSplit is the smallest node that may be split. If zero, 2.
	MinSamplesSplit int
	// MaxFeatures is the number of candidate features per split. If zero,
	// sqrt of the feature count is used.
	MaxFeatures int
	// Seed drives bootstrapping and feature sampling. If zero a time-based
	// seed is used.
	Seed int64

	// Importances holds the fitted scores, one per feature.
	Importances []float64
}

// Fit grows the forest. y holds one row per sample; each row is read as a
// class distribution (a one-hot row for a single label).
func (f *RandomForest) Fit(x *vector.CSR, y mat.Matrix) error {
	if err := checkRows(x, y); err != nil {
		return err
	}
	trees := f.Trees
	if trees <= 0 {
		trees = 100
	}
	minSplit := f.MinSamplesSplit
	if minSplit < 2 {
		minSplit = 2
	}
	maxFeatures := f.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Max(1, math.Sqrt(float64(x.Cols))))
	}
	maxFeatures = min(maxFeatures, x.Cols)
	seed := f.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	n := x.Rows
	_, k := y.Dims()
	targets := make([][]float64, n)
	for i := range n {
		targets[i] = mat.Row(nil, i, y)
	}

	g := &grower{
		csc:         x.ToCSC(),
		y:           targets,
		classes:     k,
		maxDepth:    f.MaxDepth,
		minSplit:    minSplit,
		maxFeatures: maxFeatures,
		rng:         rand.New(rand.NewSource(seed)),
		mult:        make([]int, n),
		values:      make([]float64, n),
	}

	total := make([]float64, x.Cols)
	for range trees {
		g.importance = make([]float64, x.Cols)
		samples := make([]int, n)
		for i := range samples {
			samples[i] = g.rng.Intn(n)
		}
		g.grow(samples, 0)

		if sum := floats.Sum(g.importance); sum > 0 {
			floats.AddScaled(total, 1/sum, g.importance)
		}
	}
	floats.Scale(1/float64(trees), total)
	f.Importances = total
	return nil
}

// FeatureImportances returns the fitted scores.
func (f *RandomForest) FeatureImportances() ([]float64, error) {
	if f.Importances == nil {
		return nil, ErrNotFitted
	}
	out := make([]float64, len(f.Importances))
	copy(out, f.Importances)
	return out, nil
}

// grower holds the state shared by every node of a tree. Only importances are
// kept; the split structure is not needed once they are accumulated.
type grower struct {
	csc         *vector.CSC
	y           [][]float64
	classes     int
	maxDepth    int
	minSplit    int
	maxFeatures int
	rng         *rand.Rand

	// mult[i] is how many times sample i occurs in the current node.
	mult []int
	// values is scratch space indexed by sample.
	values []float64

	importance []float64
}

type split struct {
	feature   int
	threshold float64
	gain      float64
}

func (g *grower) distribution(samples []int) []float64 {
	dist := make([]float64, g.classes)
	for _, s := range samples {
		floats.Add(dist, g.y[s])
	}
	return dist
}

func gini(dist []float64, n float64) float64 {
	if n == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range dist {
		p := c / n
		sum += p * p
	}
	return 1 - sum
}

func (g *grower) grow(samples []int, depth int) {
	n := float64(len(samples))
	dist := g.distribution(samples)
	impurity := gini(dist, n)
	if impurity <= 1e-12 || len(samples) < g.minSplit || (g.maxDepth > 0 && depth >= g.maxDepth) {
		return
	}

	for _, s := range samples {
		g.mult[s]++
	}
	best := split{feature: -1}
	for _, feat := range g.candidates() {
		if s, ok := g.bestSplit(feat, samples, dist, impurity); ok && s.gain > best.gain {
			best = s
		}
	}
	for _, s := range samples {
		g.mult[s] = 0
	}
	if best.feature < 0 {
		return
	}
	g.importance[best.feature] += best.gain

	rows, vals := g.csc.Column(best.feature)
	for _, s := range samples {
		g.values[s] = 0
	}
	for k, r := range rows {
		g.values[r] = float64(vals[k])
	}
	var left, right []int
	for _, s := range samples {
		if g.values[s] <= best.threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	g.grow(left, depth+1)
	g.grow(right, depth+1)
}

// candidates samples maxFeatures distinct feature indices.
func (g *grower) candidates() []int {
	cols := g.csc.Cols
	if g.maxFeatures*2 >= cols {
		return g.rng.Perm(cols)[:g.maxFeatures]
	}
	seen := make(map[int]struct{}, g.maxFeatures)
	out := make([]int, 0, g.maxFeatures)
	for len(out) < g.maxFeatures {
		c := g.rng.Intn(cols)
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

type point struct {
	value float64
	count float64
	dist  []float64
}

// bestSplit finds the threshold on feature feat maximizing the weighted Gini
// decrease. Samples absent from the column hold the value zero.
func (g *grower) bestSplit(feat int, samples []int, dist []float64, impurity float64) (split, bool) {
	rows, vals := g.csc.Column(feat)

	zero := point{count: float64(len(samples)), dist: append([]float64(nil), dist...)}
	var pts []point
	for k, r := range rows {
		m := g.mult[r]
		if m == 0 {
			continue
		}
		p := point{value: float64(vals[k]), count: float64(m), dist: make([]float64, g.classes)}
		floats.AddScaled(p.dist, float64(m), g.y[r])
		floats.Sub(zero.dist, p.dist)
		zero.count -= p.count
		pts = append(pts, p)
	}
	if len(pts) == 0 {
		return split{}, false
	}
	if zero.count > 0 {
		pts = append(pts, zero)
	}
	sort.Slice(pts, func(a, b int) bool { return pts[a].value < pts[b].value })

	n := float64(len(samples))
	leftDist := make([]float64, g.classes)
	rightDist := make([]float64, g.classes)
	leftN := 0.0
	best := split{feature: feat}
	found := false
	for i := 0; i < len(pts)-1; i++ {
		floats.Add(leftDist, pts[i].dist)
		leftN += pts[i].count
		if pts[i].value == pts[i+1].value {
			continue
		}
		floats.SubTo(rightDist, dist, leftDist)
		rightN := n - leftN
		gain := n*impurity - leftN*gini(leftDist, leftN) - rightN*gini(rightDist, rightN)
		if gain > best.gain {
			best.gain = gain
			best.threshold = (pts[i].value + pts[i+1].value) / 2
			found = true
		}
	}
	return best, found
}

func (f *RandomForest) String() string {
	return fmt.Sprintf("RandomForest(trees=%d, max_depth=%d)", f.Trees, f.MaxDepth)
}
