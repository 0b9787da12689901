// Package config loads repair-loop configuration from a YAML file and
// supplies the documented defaults when no file is present.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Targets holds the per-metric target thresholds. They are used only to
// prioritize issues for the decision policy, never as hard gates.
type Targets struct {
	TextSimilarity  float64 `yaml:"text_similarity"`
	TableStructure  float64 `yaml:"table_structure_score"`
	FormulaFidelity float64 `yaml:"formula_fidelity"`
	Structure       float64 `yaml:"structure_score"`
}

// TrackBWeights blends the rule-based structure score with the semantic
// score in production mode. The 0.6/0.4 split is a default, not a law.
type TrackBWeights struct {
	Structure float64 `yaml:"structure"`
	Semantic  float64 `yaml:"semantic"`
}

// AdapterConfig tunes the decision policy adapter's client behavior.
type AdapterConfig struct {
	Model          string `yaml:"model,omitempty"`
	Timeout        string `yaml:"timeout,omitempty"`         // e.g. "45s"
	MaxRetries     int    `yaml:"max_retries,omitempty"`
	RequestsPerMin int    `yaml:"requests_per_minute,omitempty"`
	MaxConcurrent  int    `yaml:"max_concurrent,omitempty"`
}

// Config is the full configuration surface of the repair loop.
type Config struct {
	MaxIterations    int           `yaml:"max_iterations"`
	SuccessThreshold float64       `yaml:"success_threshold"`
	Targets          Targets       `yaml:"targets"`
	TrackB           TrackBWeights `yaml:"track_b"`
	Adapter          AdapterConfig `yaml:"adapter"`
}

// Default returns the documented default configuration.
func Default() Config {
	return Config{
		MaxIterations:    3,
		SuccessThreshold: 70,
		Targets: Targets{
			TextSimilarity:  0.85,
			TableStructure:  0.80,
			FormulaFidelity: 0.85,
			Structure:       0.70,
		},
		TrackB: TrackBWeights{
			Structure: 0.6,
			Semantic:  0.4,
		},
		Adapter: AdapterConfig{
			Timeout:        "45s",
			MaxRetries:     3,
			RequestsPerMin: 30,
			MaxConcurrent:  2,
		},
	}
}

// Load reads a YAML config file, layering it over the defaults. Fields the
// file omits keep their default value.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects configurations that would break the loop's safety
// guarantees.
func (c Config) Validate() error {
	if c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", c.MaxIterations)
	}
	if c.SuccessThreshold < 0 || c.SuccessThreshold > 100 {
		return fmt.Errorf("success_threshold must be in [0,100], got %v", c.SuccessThreshold)
	}
	if c.TrackB.Structure < 0 || c.TrackB.Semantic < 0 {
		return fmt.Errorf("track_b weights must be non-negative")
	}
	if sum := c.TrackB.Structure + c.TrackB.Semantic; sum <= 0 {
		return fmt.Errorf("track_b weights must not both be zero")
	}
	if _, err := c.AdapterTimeout(); err != nil {
		return err
	}
	return nil
}

// AdapterTimeout parses the adapter timeout string. An empty value falls
// back to the default.
func (c Config) AdapterTimeout() (time.Duration, error) {
	s := c.Adapter.Timeout
	if s == "" {
		s = Default().Adapter.Timeout
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid adapter timeout %q: %w", s, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("adapter timeout must be positive, got %v", d)
	}
	return d, nil
}
