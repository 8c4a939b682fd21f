package config

import (
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "icp.yaml")
	test.That(t, os.WriteFile(path, []byte("correspondences: 500\n"), 0o644), test.ShouldBeNil)

	cfg, err := Load(path)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.Correspondences, test.ShouldEqual, 500)
	test.That(t, cfg.Neighbors, test.ShouldEqual, Default().Neighbors)
	test.That(t, cfg.MaxIterations, test.ShouldEqual, Default().MaxIterations)
}

func TestValidateRejectsBadValues(t *testing.T) {
	for _, tc := range []struct {
		name string
		cfg  Config
	}{
		{"negative overlap", Config{MaxOverlapDistance: -1, Correspondences: 1, Neighbors: 3, MaxIterations: 1, MinPlanarity: 0}},
		{"zero correspondences", Config{Correspondences: 0, Neighbors: 3, MaxIterations: 1, MinPlanarity: 0}},
		{"too few neighbors", Config{Correspondences: 1, Neighbors: 2, MaxIterations: 1, MinPlanarity: 0}},
		{"zero iterations", Config{Correspondences: 1, Neighbors: 3, MaxIterations: 0, MinPlanarity: 0}},
		{"planarity out of range", Config{Correspondences: 1, Neighbors: 3, MaxIterations: 1, MinPlanarity: 1.5}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			test.That(t, tc.cfg.Validate(), test.ShouldNotBeNil)
		})
	}
}
