package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/Noofbiz/limelight/classifier"
	"github.com/Noofbiz/limelight/config"
	"github.com/Noofbiz/limelight/datasets"
	"github.com/Noofbiz/limelight/download"
	"github.com/Noofbiz/limelight/report"
	"github.com/Noofbiz/limelight/theme"
	"github.com/Noofbiz/limelight/vectorizer"
)

// plotTop is the number of features drawn by featuresel --plot.
const plotTop = 30

type app struct {
	cfg config.Config
	log *zap.Logger
}

func override[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func (a *app) download(ctx context.Context, c *downloadCmd) error {
	d := &download.Downloader{URL: c.URL, Progress: os.Stderr, Log: a.log}
	return d.Prepare(ctx, c.Dest)
}

func (a *app) split(c *splitCmd) error {
	opts := a.cfg.Split.Options()
	override(&opts.TestRatio, c.TestRatio)
	override(&opts.Seed, c.Seed)

	ds, err := datasets.CreateSources(c.Dataset)
	if err != nil {
		return err
	}
	train, test, err := ds.TrainTestSplit(opts)
	if err != nil {
		return err
	}
	if err := train.SaveSourcesCSV(c.Train); err != nil {
		return err
	}
	if err := test.SaveSourcesCSV(c.Test); err != nil {
		return err
	}
	a.log.Info("split written",
		zap.Int("sources", ds.Len()),
		zap.Int("train", train.Len()),
		zap.Int("test", test.Len()),
		zap.Float64("test_ratio", opts.TestRatio))
	for th, n := range lo.CountValues(train.Sources().Themes()) {
		a.log.Debug("train theme", zap.Stringer("theme", th), zap.Int("count", n))
	}
	return nil
}

// readLabelled materializes the (text, theme) pairs of a sources CSV with a
// progress bar on stderr.
func (a *app) readLabelled(ctx context.Context, path string) ([]datasets.RawTextTheme, error) {
	policy, err := a.cfg.IO.Policy()
	if err != nil {
		return nil, err
	}
	ds, err := datasets.ReadDatasetCSV(path, datasets.ReadRawTextTheme(policy))
	if err != nil {
		return nil, err
	}
	if ds.Len() == 0 {
		return nil, fmt.Errorf("%s holds no sources", path)
	}
	bar := pb.StartNew(ds.Len())
	defer bar.Finish()
	items, err := datasets.Collect(ctx, ds, datasets.CollectOptions{
		Workers: a.cfg.IO.Workers,
		OnItem:  func() { bar.Increment() },
	})
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	a.log.Debug("texts read", zap.String("csv", path), zap.Int("count", len(items)), zap.Stringer("decoding", policy))
	return items, nil
}

func (a *app) sparsevec(ctx context.Context, c *sparsevecCmd) error {
	opts := a.cfg.Tfidf.Options()
	override(&opts.StopWords, c.StopWords)
	override(&opts.Stem, c.Stem)

	items, err := a.readLabelled(ctx, c.Train)
	if err != nil {
		return err
	}
	ex := classifier.FromPairs(items)
	v := vectorizer.NewTfidf(opts)
	if err := v.Fit(ex.Texts, ex.Themes); err != nil {
		return fmt.Errorf("fit tf-idf: %w", err)
	}
	n, _ := v.NumFeatures()
	a.log.Info("tf-idf fitted", zap.Int("texts", len(items)), zap.Int("features", n))
	return vectorizer.Dump(c.Out, v)
}

func (a *app) featuresel(ctx context.Context, c *featureselCmd) error {
	sel := a.cfg.Selection
	override(&sel.Strategy, c.Strategy)
	override(&sel.MaxFeatures, c.MaxFeatures)

	base, err := vectorizer.Load(c.Vectorizer)
	if err != nil {
		return err
	}
	var fs *vectorizer.FeatureSelected
	switch sel.Strategy {
	case config.StrategyForest:
		fs, err = vectorizer.CreateRandomForest(base, sel.MaxFeatures, sel.Forest.Estimator())
	case config.StrategyLogistic:
		fs, err = vectorizer.CreateLogisticRegression(base, sel.MaxFeatures, sel.Logistic.Estimator())
	default:
		err = fmt.Errorf("unknown strategy %q", sel.Strategy)
	}
	if err != nil {
		return err
	}

	items, err := a.readLabelled(ctx, c.Train)
	if err != nil {
		return err
	}
	ex := classifier.FromPairs(items)
	a.log.Info("fitting feature selection", zap.String("strategy", sel.Strategy), zap.Int("max_features", sel.MaxFeatures))
	if err := fs.Fit(ex.Texts, ex.Themes); err != nil {
		return fmt.Errorf("fit feature selection: %w", err)
	}
	if err := vectorizer.Dump(c.Out, fs); err != nil {
		return err
	}
	n, _ := fs.NumFeatures()
	a.log.Info("feature selection fitted", zap.Int("features", n), zap.String("out", c.Out))

	importances, err := fs.Selector().Importances()
	if err != nil {
		return err
	}
	names := featureNames(base, len(importances))
	top, err := report.Top(names, importances, 10)
	if err != nil {
		return err
	}
	for _, f := range top {
		a.log.Debug("top feature", zap.String("name", f.Name), zap.Float64("importance", f.Score))
	}
	if c.Plot != "" {
		if err := report.PlotImportances(c.Plot, names, importances, min(plotTop, n)); err != nil {
			return err
		}
		a.log.Info("importance chart written", zap.String("path", c.Plot))
	}
	return nil
}

// featureNames returns the vocabulary of a tf-idf base, or positional names
// for any other vectorizer.
func featureNames(v vectorizer.Vectorizer, width int) []string {
	if t, ok := v.(*vectorizer.Tfidf); ok {
		if names, err := t.FeatureNames(); err == nil && len(names) == width {
			return names
		}
	}
	return lo.Times(width, func(i int) string { return fmt.Sprintf("f%d", i) })
}

func (a *app) train(ctx context.Context, c *trainCmd) error {
	cfg := a.cfg.Classifier
	override(&cfg.Epochs, c.Epochs)

	v, err := vectorizer.Load(c.Vectorizer)
	if err != nil {
		return err
	}
	tr, err := classifier.NewTrainer(v, cfg, a.log)
	if err != nil {
		return err
	}
	items, err := a.readLabelled(ctx, c.Train)
	if err != nil {
		return err
	}
	tr.OnEpoch = func(epoch int, loss float64) {
		a.log.Info("epoch", zap.Int("epoch", epoch), zap.Float64("loss", loss))
	}
	if _, err := tr.Train(classifier.FromPairs(items)); err != nil {
		return err
	}
	return tr.Model().Save(c.Out)
}

func (a *app) evaluate(ctx context.Context, c *evaluateCmd) error {
	v, err := vectorizer.Load(c.Vectorizer)
	if err != nil {
		return err
	}
	m, err := classifier.Load(c.Model)
	if err != nil {
		return err
	}
	n, err := v.NumFeatures()
	if err != nil {
		return err
	}
	if n != m.InputDim() {
		return fmt.Errorf("model expects %d features, vectorizer yields %d", m.InputDim(), n)
	}
	items, err := a.readLabelled(ctx, c.Test)
	if err != nil {
		return err
	}
	ex := classifier.FromPairs(items)
	tr := classifier.FromModel(v, m, a.log)

	// Predict chunk by chunk; a dense batch of the whole test set may not fit.
	predicted := make(theme.Themes, 0, ex.Len())
	for _, chunk := range lo.Chunk(ex.Texts, max(m.Config.BatchSize, 1)) {
		got, err := tr.Predict(chunk)
		if err != nil {
			return err
		}
		predicted = append(predicted, got...)
	}

	hits := lo.CountBy(lo.Range(len(predicted)), func(i int) bool { return predicted[i] == ex.Themes[i] })
	fmt.Printf("accuracy\t%.4f\t(%d/%d)\n", float64(hits)/float64(len(predicted)), hits, len(predicted))
	for _, th := range theme.All() {
		idx := lo.Filter(lo.Range(len(predicted)), func(i int, _ int) bool { return ex.Themes[i] == th })
		if len(idx) == 0 {
			continue
		}
		ok := lo.CountBy(idx, func(i int) bool { return predicted[i] == th })
		fmt.Printf("%s\t%.4f\t(%d/%d)\n", th, float64(ok)/float64(len(idx)), ok, len(idx))
	}
	return nil
}
