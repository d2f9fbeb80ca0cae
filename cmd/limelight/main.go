// Command limelight prepares the 20 Newsgroups corpus and trains text
// vectorizers and a classifier on it.
//
//	limelight download data/20news
//	limelight split data/20news train.csv test.csv
//	limelight sparsevec train.csv tfidf.vec --stem
//	limelight featuresel train.csv tfidf.vec selected.vec --strategy logistic
//	limelight train train.csv selected.vec model.gob
//	limelight evaluate test.csv selected.vec model.gob
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/alexflint/go-arg"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Noofbiz/limelight/config"
	"github.com/Noofbiz/limelight/logger"
)

type downloadCmd struct {
	Dest string `arg:"positional,required" help:"directory to place the corpus in"`
	URL  string `arg:"--url" help:"archive location (default: the qwone.com archive)"`
}

type splitCmd struct {
	Dataset   string   `arg:"positional,required" help:"corpus directory"`
	Train     string   `arg:"positional,required" help:"CSV file for the training sources"`
	Test      string   `arg:"positional,required" help:"CSV file for the test sources"`
	TestRatio *float64 `arg:"--test-ratio" help:"share of sources held out for testing"`
	Seed      *int64   `arg:"--seed" help:"shuffle seed, 0 for time-based"`
}

type sparsevecCmd struct {
	Train     string  `arg:"positional,required" help:"training sources CSV"`
	Out       string  `arg:"positional,required" help:"vectorizer artifact to write"`
	StopWords *string `arg:"--stop-words" help:"language code of stop words to drop"`
	Stem      *bool   `arg:"--stem" help:"apply the Porter stemmer"`
}

type featureselCmd struct {
	Train       string  `arg:"positional,required" help:"training sources CSV"`
	Vectorizer  string  `arg:"positional,required" help:"fitted base vectorizer artifact"`
	Out         string  `arg:"positional,required" help:"vectorizer artifact to write"`
	Strategy    *string `arg:"--strategy" help:"forest or logistic"`
	MaxFeatures *int    `arg:"--max-features" help:"number of features to keep"`
	Plot        string  `arg:"--plot" help:"write an importance chart to this image file"`
}

type trainCmd struct {
	Train      string `arg:"positional,required" help:"training sources CSV"`
	Vectorizer string `arg:"positional,required" help:"fitted vectorizer artifact"`
	Out        string `arg:"positional,required" help:"model file to write"`
	Epochs     *int   `arg:"--epochs" help:"training epochs"`
}

type evaluateCmd struct {
	Test       string `arg:"positional,required" help:"test sources CSV"`
	Vectorizer string `arg:"positional,required" help:"fitted vectorizer artifact"`
	Model      string `arg:"positional,required" help:"trained model file"`
}

type args struct {
	Download   *downloadCmd   `arg:"subcommand:download" help:"fetch and unpack the corpus"`
	Split      *splitCmd      `arg:"subcommand:split" help:"split a corpus into train and test CSVs"`
	Sparsevec  *sparsevecCmd  `arg:"subcommand:sparsevec" help:"fit a tf-idf vectorizer"`
	Featuresel *featureselCmd `arg:"subcommand:featuresel" help:"fit a feature selecting vectorizer"`
	Train      *trainCmd      `arg:"subcommand:train" help:"train the classifier"`
	Evaluate   *evaluateCmd   `arg:"subcommand:evaluate" help:"report classifier accuracy"`

	Config  string `arg:"--config,env:LIMELIGHT_CONFIG" help:"YAML configuration file"`
	Verbose bool   `arg:"-v,--verbose" help:"log at debug level"`
}

func (args) Description() string {
	return "Prepare the 20 Newsgroups corpus and train text classifiers on it."
}

func main() {
	_ = godotenv.Load()

	var a args
	p := arg.MustParse(&a)
	if p.Subcommand() == nil {
		p.Fail("missing subcommand")
	}

	cfg, err := config.Load(a.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	if a.Verbose {
		cfg.Log.Level = "debug"
	}
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(2)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	app := &app{cfg: cfg, log: log}
	switch {
	case a.Download != nil:
		err = app.download(ctx, a.Download)
	case a.Split != nil:
		err = app.split(a.Split)
	case a.Sparsevec != nil:
		err = app.sparsevec(ctx, a.Sparsevec)
	case a.Featuresel != nil:
		err = app.featuresel(ctx, a.Featuresel)
	case a.Train != nil:
		err = app.train(ctx, a.Train)
	case a.Evaluate != nil:
		err = app.evaluate(ctx, a.Evaluate)
	}
	if err != nil {
		log.Error("command failed", zap.Error(err))
		_ = log.Sync()
		os.Exit(1)
	}
}
