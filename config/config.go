// Package config loads and validates the ICP driver's tuning parameters
// (spec.md §6) from YAML, and watches the source file for edits so a
// long-running caller can pick up changes without restarting — the same
// load-then-watch shape the teacher's own config package is built around,
// narrowed from robot-component/frame-system configuration down to the
// five parameters this spec names.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/simpleicp/icpgo/pointcloud"
)

// Config mirrors spec.md §6's configuration table.
type Config struct {
	MaxOverlapDistance float64 `yaml:"max_overlap_distance"`
	Correspondences    int     `yaml:"correspondences"`
	Neighbors          int     `yaml:"neighbors"`
	MaxIterations      int     `yaml:"max_iterations"`
	MinPlanarity       float64 `yaml:"min_planarity"`
}

// Default returns spec.md §6's documented defaults.
func Default() Config {
	return Config{
		MaxOverlapDistance: 0,
		Correspondences:    1000,
		Neighbors:          10,
		MaxIterations:      100,
		MinPlanarity:       0.3,
	}
}

// Load reads and validates a YAML config file, starting from Default() so
// that a file which omits a field keeps the spec's documented default for
// it rather than YAML's zero value.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the preconditions spec.md §7 requires of these
// parameters, failing closed with pointcloud.ErrPreconditionViolation
// rather than letting a bad config silently misbehave downstream.
func (c Config) Validate() error {
	if c.MaxOverlapDistance < 0 {
		return fmt.Errorf("%w: max_overlap_distance must be non-negative, got %v",
			pointcloud.ErrPreconditionViolation, c.MaxOverlapDistance)
	}
	if c.Correspondences <= 0 {
		return fmt.Errorf("%w: correspondences must be positive, got %d",
			pointcloud.ErrPreconditionViolation, c.Correspondences)
	}
	if c.Neighbors < 3 {
		return fmt.Errorf("%w: neighbors must be >= 3, got %d",
			pointcloud.ErrPreconditionViolation, c.Neighbors)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("%w: max_iterations must be positive, got %d",
			pointcloud.ErrPreconditionViolation, c.MaxIterations)
	}
	if c.MinPlanarity < 0 || c.MinPlanarity > 1 {
		return fmt.Errorf("%w: min_planarity must be in [0, 1], got %v",
			pointcloud.ErrPreconditionViolation, c.MinPlanarity)
	}
	return nil
}

// ToDriverConfig translates the YAML-facing Config into the pointcloud
// package's driver Config (pointcloud.Config).
func (c Config) ToDriverConfig() pointcloud.Config {
	return pointcloud.Config{
		MaxOverlapDistance: c.MaxOverlapDistance,
		Correspondences:    c.Correspondences,
		Neighbors:          c.Neighbors,
		MaxIterations:      c.MaxIterations,
		MinPlanarity:       c.MinPlanarity,
	}
}
