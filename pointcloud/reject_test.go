package pointcloud

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"github.com/montanaflynn/stats"
	"go.viam.com/test"
)

func TestMedianOdd(t *testing.T) {
	med, err := stats.Median([]float64{3.0, 0.0, 1.0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, med, test.ShouldEqual, 1.0)
}

func TestMedianEven(t *testing.T) {
	med, err := stats.Median([]float64{1, 2, 3, 4, 5, 6, 7, 8})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, med, test.ShouldEqual, 4.5)
}

func TestRejectMADGating(t *testing.T) {
	residuals := []float64{-0.1, 0.0, 0.05, 0.1, 10.0}

	med, err := stats.Median(residuals)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, med, test.ShouldEqual, 0.05)

	absDev := make([]float64, len(residuals))
	for i, r := range residuals {
		absDev[i] = abs(r - med)
	}
	mad, err := stats.Median(absDev)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, mad, test.ShouldEqual, 0.05)

	sigma := madToSigma * mad
	test.That(t, sigma, test.ShouldAlmostEqual, 0.0741, 0.001)

	wantKeep := []bool{true, true, true, true, false}
	for i, r := range residuals {
		keep := abs(r-med) <= 3*sigma
		test.That(t, keep, test.ShouldEqual, wantKeep[i])
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func TestRejectIntegration(t *testing.T) {
	// A fixed cloud with 5 well-planar points and a lone low-planarity
	// point, so the planarity gate has something to drop in
	// addition to the MAD-based residual gate.
	fixed := &Cloud{
		points:    make([]r3.Vector, 6),
		normals:   make([]r3.Vector, 6),
		planarity: []float64{0.9, 0.9, 0.9, 0.9, 0.9, 0.1},
		selected:  []int{0, 1, 2, 3, 4, 5},
	}
	for i := range fixed.normals {
		fixed.normals[i] = r3.Vector{X: 0, Y: 0, Z: 1}
	}

	residuals := []float64{-0.1, 0.0, 0.05, 0.1, 10.0, 0.02}
	corrs := make([]Correspondence, len(residuals))
	for i, r := range residuals {
		corrs[i] = Correspondence{IFix: i, JMov: i, R: r}
	}

	kept, med, sigma, err := Reject(corrs, fixed, 0.5)
	test.That(t, err, test.ShouldNotBeNil) // only 4 survive both gates, below the 6-correspondence floor
	test.That(t, kept, test.ShouldBeNil)
	test.That(t, math.IsNaN(med), test.ShouldBeFalse)
	test.That(t, sigma, test.ShouldBeGreaterThanOrEqualTo, 0)
}
