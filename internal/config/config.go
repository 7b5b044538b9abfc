// Package config loads the YAML configuration file that turns on the
// core's optional analysis passes. Grounded on the YAML-config-struct-plus-
// loader pattern used elsewhere in the corpus for project config files
// (unmarshal into a tagged struct with yaml.v3, tolerate a missing file),
// adapted from a single-file project config to the analyzer's pass-toggle
// surface.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the recognized configuration surface the core consumes.
type Config struct {
	// MemoizeProperties caches property-access types under the access
	// path, reused across reads until invalidated by assignment.
	MemoizeProperties bool `yaml:"memoize_properties"`

	// AnalyzeEffects enables purity/mutation-freeness checks.
	AnalyzeEffects bool `yaml:"analyze_effects"`

	// FindUnusedExpressions enables detection of useless statements and
	// @must-use violations.
	FindUnusedExpressions bool `yaml:"find_unused_expressions"`

	// AnalyzeDeadCode continues analyzing statements after has_returned
	// rather than skipping the rest of the block as unreachable.
	AnalyzeDeadCode bool `yaml:"analyze_dead_code"`

	// Paths to analyze; empty means the current directory.
	Paths []string `yaml:"paths"`

	// Exclude lists glob patterns to skip.
	Exclude []string `yaml:"exclude"`

	// Workers bounds the file worker pool's concurrency; 0 means the
	// coordinator picks a default (GOMAXPROCS).
	Workers int `yaml:"workers"`

	// Plugins lists the framework adapters to load by name ("laravel",
	// "magento").
	Plugins []string `yaml:"plugins"`
}

// Default returns the configuration the core runs with when no config file
// is present: every optional pass off, no plugins, Workers 0 (the
// coordinator's default).
func Default() Config {
	return Config{}
}

// Load reads and parses path. A missing file is not an error — the caller
// gets Default() back, matching the "zero-config works" behavior the rest
// of the corpus's project-config loaders follow.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
