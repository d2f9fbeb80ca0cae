// Package report renders feature importance charts.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Feature is a named importance score.
type Feature struct {
	Name  string
	Score float64
}

// Top returns the top highest-scored features, best first. Ties keep the
// lower column first. A non-positive top returns every feature.
func Top(names []string, scores []float64, top int) ([]Feature, error) {
	if len(names) != len(scores) {
		return nil, fmt.Errorf("%d names, %d scores", len(names), len(scores))
	}
	features := lo.Map(names, func(name string, i int) Feature {
		return Feature{Name: name, Score: scores[i]}
	})
	sort.SliceStable(features, func(a, b int) bool { return features[a].Score > features[b].Score })
	if top > 0 && top < len(features) {
		features = features[:top]
	}
	return features, nil
}

// PlotImportances writes a horizontal bar chart of the top features to path.
// The image format follows the file extension (png, svg, pdf, ...).
func PlotImportances(path string, names []string, scores []float64, top int) error {
	features, err := Top(names, scores, top)
	if err != nil {
		return err
	}
	if len(features) == 0 {
		return errors.New("no features to plot")
	}
	// Bars are drawn bottom-up; reverse so the best feature sits on top.
	slices.Reverse(features)

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Top %d features by importance", len(features))
	p.X.Label.Text = "importance"

	values := plotter.Values(lo.Map(features, func(f Feature, _ int) float64 { return f.Score }))
	bars, err := plotter.NewBarChart(values, vg.Points(10))
	if err != nil {
		return err
	}
	bars.Horizontal = true
	bars.Color = color.RGBA{R: 20, G: 80, B: 200, A: 220}
	bars.LineStyle.Width = 0
	p.Add(bars)
	p.Add(plotter.NewGrid())
	p.NominalY(lo.Map(features, func(f Feature, _ int) string { return f.Name })...)

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	height := vg.Length(len(features))*14*vg.Millimeter/4 + 2*vg.Inch
	if err := p.Save(8*vg.Inch, height, path); err != nil {
		return fmt.Errorf("save chart %s: %w", path, err)
	}
	return nil
}
