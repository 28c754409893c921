// Package config holds the engine configuration and loads it from defaults,
// an optional YAML or TOML file, and SPECTRA_ environment variables.
package config

import (
	"fmt"

	"github.com/RyanBlaney/spectra/logging"
	"github.com/RyanBlaney/spectra/photometrics"
	"github.com/RyanBlaney/spectra/reference"
	"github.com/RyanBlaney/spectra/spectrum"
	"github.com/RyanBlaney/spectra/spectrum/parser"
)

// Config is the full engine configuration
type Config struct {
	// LogLevel is one of debug, info, warn, error
	LogLevel string `json:"log_level" yaml:"log_level" koanf:"log_level"`

	// Shape is the canonical grid every distribution is reshaped onto
	Shape spectrum.Shape `json:"shape" yaml:"shape" koanf:"shape"`

	// ReferencePath replaces the bundled reference table when set
	ReferencePath string `json:"reference_path" yaml:"reference_path" koanf:"reference_path"`

	Import    ImportConfig    `json:"import" yaml:"import" koanf:"import"`
	Metrics   MetricsConfig   `json:"metrics" yaml:"metrics" koanf:"metrics"`
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry" koanf:"telemetry"`
}

// ImportConfig sets the defaults for spectral file import
type ImportConfig struct {
	Format      string  `json:"format" yaml:"format" koanf:"format"` // "auto", "generic", "vendor-tab"
	Normalize   bool    `json:"normalize" yaml:"normalize" koanf:"normalize"`
	Weight      float64 `json:"weight" yaml:"weight" koanf:"weight"`
	SkipInvalid bool    `json:"skip_invalid" yaml:"skip_invalid" koanf:"skip_invalid"`
}

// MetricsConfig tunes the metric calculators
type MetricsConfig struct {
	MelanopicRatioFactor float64 `json:"melanopic_ratio_factor" yaml:"melanopic_ratio_factor" koanf:"melanopic_ratio_factor"`
}

// TelemetryConfig controls metric export
type TelemetryConfig struct {
	// Textfile is where Prometheus counters are written on exit; empty disables
	Textfile string `json:"textfile" yaml:"textfile" koanf:"textfile"`
}

// DefaultConfig returns the configuration used when nothing overrides it
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "info",
		Shape:     spectrum.DefaultShape,
		Import:    DefaultImportConfig(),
		Metrics:   DefaultMetricsConfig(),
		Telemetry: TelemetryConfig{},
	}
}

// DefaultImportConfig returns strict, auto-detected, unweighted import
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		Format:      string(parser.Auto),
		Normalize:   false,
		Weight:      1.0,
		SkipInvalid: false,
	}
}

// DefaultMetricsConfig returns the standard melanopic ratio factor
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MelanopicRatioFactor: photometrics.MelanopicRatioFactor,
	}
}

// Validate rejects configurations the engine cannot run with
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := c.Shape.Validate(); err != nil {
		return fmt.Errorf("%w: shape: %v", ErrInvalidConfig, err)
	}
	if _, err := parser.ParseFormat(c.Import.Format); err != nil {
		return fmt.Errorf("%w: import: %v", ErrInvalidConfig, err)
	}
	if c.Import.Weight <= 0 {
		return fmt.Errorf("%w: import weight %g must be positive", ErrInvalidConfig, c.Import.Weight)
	}
	if c.Metrics.MelanopicRatioFactor <= 0 {
		return fmt.Errorf("%w: melanopic ratio factor %g must be positive", ErrInvalidConfig, c.Metrics.MelanopicRatioFactor)
	}
	return nil
}

// ImportOptions converts the import section into spectrum.ImportOptions.
// Validate must have passed.
func (c *Config) ImportOptions() spectrum.ImportOptions {
	format, _ := parser.ParseFormat(c.Import.Format)
	mode := parser.Strict
	if c.Import.SkipInvalid {
		mode = parser.SkipInvalid
	}
	return spectrum.ImportOptions{
		Format:    format,
		Mode:      mode,
		Normalize: c.Import.Normalize,
		Weight:    c.Import.Weight,
		Shape:     c.Shape,
	}
}

// RegistryOptions returns the reference registry options for this config
func (c *Config) RegistryOptions() []reference.Option {
	opts := []reference.Option{reference.WithShape(c.Shape)}
	if c.ReferencePath != "" {
		opts = append(opts, reference.WithSource(reference.FileSource(c.ReferencePath)))
	}
	return opts
}

// CalculatorOptions returns the metric calculator options for this config
func (c *Config) CalculatorOptions() []photometrics.Option {
	return []photometrics.Option{photometrics.WithRatioFactor(c.Metrics.MelanopicRatioFactor)}
}
