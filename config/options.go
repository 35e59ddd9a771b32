// Package config loads and validates the top-level analysis Options (spec
// §6), strictly decoded from YAML following the teacher's
// LoadPolicyBundle/Validate pattern.
package config

import (
	"bytes"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/lifetracker/eventmodel/internal/basis"
	"github.com/lifetracker/eventmodel/internal/summary"
)

// Options controls a single analysis run end to end: basis size, Adam
// hyperparameters, regularization strength, edge-reporting threshold, and
// insight cap (spec §6).
type Options struct {
	NumBases     int     `yaml:"num_bases"`
	MaxIter      int     `yaml:"max_iter"`
	LearningRate float64 `yaml:"learning_rate"`
	Lambda1      float64 `yaml:"lambda1"`
	Lambda2      float64 `yaml:"lambda2"`
	MinStrength  float64 `yaml:"min_strength"`
	MaxInsights  int     `yaml:"max_insights"`
}

// Default returns the spec §6 default Options.
func Default() Options {
	return Options{
		NumBases:     basis.DefaultNumBases,
		MaxIter:      150,
		LearningRate: 0.01,
		Lambda1:      0.01,
		Lambda2:      0.001,
		MinStrength:  summary.DefaultMinStrength,
		MaxInsights:  20,
	}
}

// Load reads a YAML options file, strictly decoded (unrecognized keys are
// rejected) over the spec defaults, and validates the result.
func Load(path string) (Options, error) {
	opts := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("reading options file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&opts); err != nil {
		return Options{}, fmt.Errorf("parsing options file: %w", err)
	}

	if err := opts.Validate(); err != nil {
		return Options{}, err
	}
	return opts, nil
}

// Validate checks every field is within the range the model's math assumes,
// returning an error describing the first violation found.
func (o Options) Validate() error {
	if o.NumBases < 1 || o.NumBases > basis.MaxBases {
		return fmt.Errorf("num_bases must be in [1,%d], got %d", basis.MaxBases, o.NumBases)
	}
	if o.MaxIter <= 0 {
		return fmt.Errorf("max_iter must be positive, got %d", o.MaxIter)
	}
	if err := validatePositive("learning_rate", o.LearningRate); err != nil {
		return err
	}
	if err := validateNonNegative("lambda1", o.Lambda1); err != nil {
		return err
	}
	if err := validateNonNegative("lambda2", o.Lambda2); err != nil {
		return err
	}
	if o.MinStrength < 0 || o.MinStrength >= 1 {
		return fmt.Errorf("min_strength must be in [0,1), got %v", o.MinStrength)
	}
	if o.MaxInsights < 0 {
		return fmt.Errorf("max_insights must be non-negative, got %d", o.MaxInsights)
	}
	return nil
}

func validatePositive(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return fmt.Errorf("%s must be a positive finite number, got %v", name, v)
	}
	return nil
}

func validateNonNegative(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return fmt.Errorf("%s must be a non-negative finite number, got %v", name, v)
	}
	return nil
}
