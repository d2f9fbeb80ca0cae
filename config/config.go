// Package config loads limelight settings: defaults, then an optional YAML
// file, then LIMELIGHT_* environment overrides, then validation.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	env "github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/Noofbiz/limelight/classifier"
	"github.com/Noofbiz/limelight/datasets"
	"github.com/Noofbiz/limelight/estimator"
	"github.com/Noofbiz/limelight/vectorizer"
)

// Strategy names accepted in selection.strategy.
const (
	StrategyForest   = "forest"
	StrategyLogistic = "logistic"
)

// Config holds the limelight configuration.
type Config struct {
	Log        LogConfig         `yaml:"log"`
	Split      SplitConfig       `yaml:"split"`
	Tfidf      TfidfConfig       `yaml:"tfidf"`
	Selection  SelectionConfig   `yaml:"selection"`
	Classifier classifier.Config `yaml:"classifier"`
	IO         IOConfig          `yaml:"io"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=console json"`
}

// SplitConfig holds train/test split settings.
type SplitConfig struct {
	TestRatio float64 `yaml:"test_ratio" validate:"gt=0,lt=1"`
	Seed      int64   `yaml:"seed"` // 0 = time-based
}

// TfidfConfig holds text analysis settings.
type TfidfConfig struct {
	StopWords    string `yaml:"stop_words"` // language code, empty = none
	Stem         bool   `yaml:"stem"`
	StripAccents bool   `yaml:"strip_accents"`
	MinDF        int    `yaml:"min_df" validate:"gte=0"`
}

// SelectionConfig holds feature selection settings.
type SelectionConfig struct {
	Strategy    string         `yaml:"strategy" validate:"oneof=forest logistic"`
	MaxFeatures int            `yaml:"max_features" validate:"gt=0"`
	Forest      ForestConfig   `yaml:"forest"`
	Logistic    LogisticConfig `yaml:"logistic"`
}

// ForestConfig holds random forest settings. Zero values use the estimator
// defaults.
type ForestConfig struct {
	Trees           int   `yaml:"trees" validate:"gte=0"`
	MaxDepth        int   `yaml:"max_depth" validate:"gte=0"`
	MinSamplesSplit int   `yaml:"min_samples_split" validate:"gte=0"`
	MaxFeatures     int   `yaml:"max_features" validate:"gte=0"`
	Seed            int64 `yaml:"seed"`
}

// LogisticConfig holds logistic regression settings. Zero values use the
// estimator defaults.
type LogisticConfig struct {
	Epochs       int     `yaml:"epochs" validate:"gte=0"`
	LearningRate float64 `yaml:"learning_rate" validate:"gte=0"`
	L2           float64 `yaml:"l2" validate:"gte=0"`
}

// IOConfig holds corpus reading settings.
type IOConfig struct {
	Workers  int    `yaml:"workers" validate:"gt=0"`
	Decoding string `yaml:"decoding" validate:"oneof=lenient strict latin1"`
}

// envOverrides lists the variables that may override file values. Unset
// variables leave the field nil.
type envOverrides struct {
	LogLevel     *string  `env:"LIMELIGHT_LOG_LEVEL"`
	LogFormat    *string  `env:"LIMELIGHT_LOG_FORMAT"`
	TestRatio    *float64 `env:"LIMELIGHT_SPLIT_TEST_RATIO"`
	SplitSeed    *int64   `env:"LIMELIGHT_SPLIT_SEED"`
	StopWords    *string  `env:"LIMELIGHT_TFIDF_STOP_WORDS"`
	Stem         *bool    `env:"LIMELIGHT_TFIDF_STEM"`
	Strategy     *string  `env:"LIMELIGHT_SELECTION_STRATEGY"`
	MaxFeatures  *int     `env:"LIMELIGHT_SELECTION_MAX_FEATURES"`
	Epochs       *int     `env:"LIMELIGHT_CLASSIFIER_EPOCHS"`
	LearningRate *float64 `env:"LIMELIGHT_CLASSIFIER_LEARNING_RATE"`
	Workers      *int     `env:"LIMELIGHT_IO_WORKERS"`
	Decoding     *string  `env:"LIMELIGHT_IO_DECODING"`
}

var validate = validator.New()

// Default returns the configuration used when nothing else is given.
func Default() Config {
	var c Config
	c.ApplyDefaults()
	return c
}

// Load builds the configuration. path may be empty, in which case only
// defaults and environment overrides apply.
func Load(path string) (Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.ApplyDefaults()

	if err := cfg.applyEnv(); err != nil {
		return Config{}, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
	if c.Split.TestRatio == 0 {
		c.Split.TestRatio = datasets.DefaultTestRatio
	}
	if c.Selection.Strategy == "" {
		c.Selection.Strategy = StrategyForest
	}
	if c.Selection.MaxFeatures == 0 {
		c.Selection.MaxFeatures = 1000
	}
	if c.IO.Workers == 0 {
		c.IO.Workers = runtime.NumCPU()
	}
	if c.IO.Decoding == "" {
		c.IO.Decoding = datasets.Lenient.String()
	}
}

func (c *Config) applyEnv() error {
	var o envOverrides
	if _, err := env.UnmarshalFromEnviron(&o); err != nil {
		return err
	}
	set(&c.Log.Level, o.LogLevel)
	set(&c.Log.Format, o.LogFormat)
	set(&c.Split.TestRatio, o.TestRatio)
	set(&c.Split.Seed, o.SplitSeed)
	set(&c.Tfidf.StopWords, o.StopWords)
	set(&c.Tfidf.Stem, o.Stem)
	set(&c.Selection.Strategy, o.Strategy)
	set(&c.Selection.MaxFeatures, o.MaxFeatures)
	set(&c.Classifier.Epochs, o.Epochs)
	set(&c.Classifier.LearningRate, o.LearningRate)
	set(&c.IO.Workers, o.Workers)
	set(&c.IO.Decoding, o.Decoding)
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		f := verrs[0]
		return fmt.Errorf("%s: failed %q check (value %v)", f.Namespace(), f.Tag(), f.Value())
	}
	return err
}

// Options converts the section to vectorizer options.
func (t TfidfConfig) Options() vectorizer.TfidfOptions {
	return vectorizer.TfidfOptions{
		StopWords:    t.StopWords,
		Stem:         t.Stem,
		StripAccents: t.StripAccents,
		MinDF:        t.MinDF,
	}
}

// Options converts the section to split options.
func (s SplitConfig) Options() datasets.SplitOptions {
	return datasets.SplitOptions{TestRatio: s.TestRatio, Seed: s.Seed}
}

// Estimator returns a fresh random forest.
func (f ForestConfig) Estimator() *estimator.RandomForest {
	return &estimator.RandomForest{
		Trees:           f.Trees,
		MaxDepth:        f.MaxDepth,
		MinSamplesSplit: f.MinSamplesSplit,
		MaxFeatures:     f.MaxFeatures,
		Seed:            f.Seed,
	}
}

// Estimator returns a fresh logistic regression.
func (l LogisticConfig) Estimator() *estimator.LogisticRegression {
	return &estimator.LogisticRegression{
		Epochs:       l.Epochs,
		LearningRate: l.LearningRate,
		L2:           l.L2,
	}
}

// Policy parses the decoding policy.
func (i IOConfig) Policy() (datasets.Decoding, error) {
	return datasets.ParseDecoding(i.Decoding)
}
