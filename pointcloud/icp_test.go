package pointcloud

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

// cornerCloud builds points on three mutually orthogonal faces of a cube
// corner (the xy, xz, and yz planes), so that normals span all three axes
// and a translation in any direction is observable by at least one face —
// a flat single plane cannot constrain translation within its own surface,
// so a single-plane fixture would not exercise the solver's full rank.
func cornerCloud(n int, spacing float64) []r3.Vector {
	var points []r3.Vector
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a, b := float64(i)*spacing, float64(j)*spacing
			points = append(points, r3.Vector{X: a, Y: b, Z: 0})
			points = append(points, r3.Vector{X: a, Y: 0, Z: b})
			points = append(points, r3.Vector{X: 0, Y: a, Z: b})
		}
	}
	return points
}

func TestICPRegistrationRecoversKnownTranslation(t *testing.T) {
	fixedPts := cornerCloud(12, 1.0)
	fixed := NewCloud(fixedPts)
	test.That(t, fixed.EstimateNormals(10), test.ShouldBeNil)

	offset := r3.Vector{X: 0.3, Y: -0.2, Z: 0.15}
	movedPts := make([]r3.Vector, len(fixedPts))
	for i, p := range fixedPts {
		movedPts[i] = p.Add(offset)
	}
	moved := NewCloud(movedPts)

	cfg := Config{
		MaxOverlapDistance: 0,
		Correspondences:    len(fixedPts),
		Neighbors:          10,
		MaxIterations:      30,
		MinPlanarity:       0,
	}
	result, err := RegisterICP(fixed, moved, cfg, DefaultConvergenceOptions(), nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result, test.ShouldNotBeNil)
	test.That(t, len(result.Iterations), test.ShouldBeGreaterThan, 0)

	last := result.Iterations[len(result.Iterations)-1]
	test.That(t, math.Abs(last.RMS), test.ShouldBeLessThan, 1e-2)

	recovered := result.Transform.Translation()
	test.That(t, math.Abs(recovered.X-(-offset.X)), test.ShouldBeLessThan, 5e-2)
	test.That(t, math.Abs(recovered.Y-(-offset.Y)), test.ShouldBeLessThan, 5e-2)
	test.That(t, math.Abs(recovered.Z-(-offset.Z)), test.ShouldBeLessThan, 5e-2)
}

func TestICPRegistrationTooFewCorrespondences(t *testing.T) {
	fixedPts := cornerCloud(3, 1.0)
	fixed := NewCloud(fixedPts)
	test.That(t, fixed.EstimateNormals(6), test.ShouldBeNil)

	moved := NewCloud(cornerCloud(3, 1.0))

	cfg := Config{
		Correspondences: 9,
		Neighbors:       3,
		MaxIterations:   5,
		// An unreasonably high planarity floor drops every correspondence.
		MinPlanarity: 1.1,
	}
	_, err := RegisterICP(fixed, moved, cfg, DefaultConvergenceOptions(), nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestICPRegistrationIdenticalClouds(t *testing.T) {
	pts := cornerCloud(8, 1.0)
	fixed := NewCloud(pts)
	test.That(t, fixed.EstimateNormals(10), test.ShouldBeNil)

	moved := NewCloud(append([]r3.Vector(nil), pts...))

	cfg := Config{
		Correspondences: len(pts),
		Neighbors:       10,
		MaxIterations:   1,
		MinPlanarity:    0,
	}
	result, err := RegisterICP(fixed, moved, cfg, DefaultConvergenceOptions(), nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(result.Iterations), test.ShouldEqual, 1)

	m := result.Transform.Matrix()
	ident := [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}
	for i := range m {
		test.That(t, math.Abs(m[i]-ident[i]), test.ShouldBeLessThan, 1e-9)
	}

	for i, p := range result.Registered.Points() {
		want := pts[i]
		test.That(t, math.Abs(p.X-want.X), test.ShouldBeLessThan, 1e-9)
		test.That(t, math.Abs(p.Y-want.Y), test.ShouldBeLessThan, 1e-9)
		test.That(t, math.Abs(p.Z-want.Z), test.ShouldBeLessThan, 1e-9)
	}
}
