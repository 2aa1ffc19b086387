// Package config provides unified configuration loading for polsweep.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/opdyn/polsweep/internal/pathutil"
	"github.com/opdyn/polsweep/internal/trend"
	"gopkg.in/yaml.v3"
)

// Config contains all polsweep configuration settings.
type Config struct {
	// Classifier holds the polarization thresholds. These are tied to
	// the study's reported tables; they are never inferred from data.
	Classifier trend.Thresholds `json:"classifier" yaml:"classifier"`

	// Results configures where simulation output is read from.
	Results ResultsConfig `json:"results" yaml:"results"`

	// Plot configures chart output.
	Plot PlotConfig `json:"plot" yaml:"plot"`

	// Logging contains settings for operational and decision logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// ResultsConfig configures result loading.
type ResultsConfig struct {
	// Root is the results directory tree. Supports ${VAR} expansion.
	Root string `json:"root,omitempty" yaml:"root,omitempty"`
}

// PlotConfig configures chart rendering.
type PlotConfig struct {
	// Dir is where PNG output is written. Defaults to .polsweep/plots
	// under the project root. Supports ${VAR} expansion.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty"`

	// Width and Height are the chart dimensions in pixels.
	Width  int `json:"width,omitempty" yaml:"width,omitempty"`
	Height int `json:"height,omitempty" yaml:"height,omitempty"`
}

// LoggingConfig configures polsweep's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables classification decision logging to
	// .polsweep/decisions.jsonl. "trace" additionally includes the full
	// mean series of each condition.
	Level string `json:"level" yaml:"level"`
}

// Default returns a Config with the thresholds and dimensions used for
// the study's tables and figures.
func Default() *Config {
	return &Config{
		Classifier: trend.DefaultThresholds(),
		Plot: PlotConfig{
			Width:  1024,
			Height: 512,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> <root>/.polsweep/config.yaml -> environment variables
func Load(root string) (*Config, error) {
	config := Default()

	configPath := pathutil.ConfigPath(root)
	if _, statErr := os.Stat(configPath); statErr == nil {
		fileConfig, loadErr := LoadFromFile(configPath)
		if loadErr != nil {
			return nil, fmt.Errorf("loading config file: %w", loadErr)
		}
		config = fileConfig
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", pathutil.RedactPath(path), err)
	}

	// Expand environment variables in paths
	config.Results.Root = expandEnvVars(config.Results.Root)
	config.Plot.Dir = expandEnvVars(config.Plot.Dir)

	return config, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Classifier.MaxVariance < 0 {
		return fmt.Errorf("max_variance must be non-negative, got %f", c.Classifier.MaxVariance)
	}

	if c.Plot.Width < 0 || c.Plot.Height < 0 {
		return fmt.Errorf("plot dimensions must be non-negative, got %dx%d", c.Plot.Width, c.Plot.Height)
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *Config) {
	if v := os.Getenv("POLSWEEP_MIN_SLOPE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Classifier.MinSlope = f
		}
	}

	if v := os.Getenv("POLSWEEP_MIN_DELTA"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Classifier.MinDelta = f
		}
	}

	if v := os.Getenv("POLSWEEP_MAX_VARIANCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			config.Classifier.MaxVariance = f
		}
	}

	if v := os.Getenv("POLSWEEP_RESULTS_ROOT"); v != "" {
		config.Results.Root = v
	}

	if v := os.Getenv("POLSWEEP_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
