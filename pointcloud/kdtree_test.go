package pointcloud

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestKDTreeNearestNeighbor(t *testing.T) {
	points := []r3.Vector{
		{X: 0, Y: 0, Z: 0},
		{X: 10, Y: 0, Z: 0},
		{X: 0, Y: 10, Z: 0},
		{X: 5, Y: 5, Z: 0},
	}
	tree := NewKDTree(points)

	nn, ok := tree.NearestNeighbor(r3.Vector{X: 1, Y: 1, Z: 0})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, nn.Index, test.ShouldEqual, 0)
	test.That(t, nn.DistSq, test.ShouldEqual, 2.0)
}

func TestKDTreeNearestNeighborEmpty(t *testing.T) {
	tree := NewKDTree(nil)
	_, ok := tree.NearestNeighbor(r3.Vector{X: 0, Y: 0, Z: 0})
	test.That(t, ok, test.ShouldBeFalse)
}

func TestKDTreeKNN(t *testing.T) {
	points := []r3.Vector{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 2, Y: 0, Z: 0},
		{X: 3, Y: 0, Z: 0},
		{X: 100, Y: 0, Z: 0},
	}
	tree := NewKDTree(points)

	res := tree.KNN(r3.Vector{X: 0, Y: 0, Z: 0}, 3)
	test.That(t, len(res), test.ShouldEqual, 3)
	test.That(t, res[0].Index, test.ShouldEqual, 0)
	test.That(t, res[1].Index, test.ShouldEqual, 1)
	test.That(t, res[2].Index, test.ShouldEqual, 2)
	for i := 1; i < len(res); i++ {
		test.That(t, res[i].DistSq, test.ShouldBeGreaterThanOrEqualTo, res[i-1].DistSq)
	}
}

func TestKDTreeKNNMoreThanAvailable(t *testing.T) {
	points := []r3.Vector{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}}
	tree := NewKDTree(points)

	res := tree.KNN(r3.Vector{X: 0, Y: 0, Z: 0}, 10)
	test.That(t, len(res), test.ShouldEqual, 2)
}

func TestKDTreeTieBreakByIndex(t *testing.T) {
	// Two points equidistant from the query; the lower index must win the
	// single-nearest-neighbor result, and sort first in a KNN tie.
	points := []r3.Vector{
		{X: -1, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
	}
	tree := NewKDTree(points)

	nn, ok := tree.NearestNeighbor(r3.Vector{X: 0, Y: 0, Z: 0})
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, nn.Index, test.ShouldEqual, 0)

	res := tree.KNN(r3.Vector{X: 0, Y: 0, Z: 0}, 2)
	test.That(t, res[0].Index, test.ShouldEqual, 0)
	test.That(t, res[1].Index, test.ShouldEqual, 1)
}

func TestKDTreeLargeGrid(t *testing.T) {
	var points []r3.Vector
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			points = append(points, r3.Vector{X: float64(x), Y: float64(y), Z: 0})
		}
	}
	tree := NewKDTree(points)

	query := r3.Vector{X: 3.4, Y: 5.6, Z: 0}
	got, ok := tree.NearestNeighbor(query)
	test.That(t, ok, test.ShouldBeTrue)

	// Brute-force cross-check.
	best := math.Inf(1)
	bestIdx := -1
	for i, p := range points {
		d := distSq(p, query)
		if d < best {
			best = d
			bestIdx = i
		}
	}
	test.That(t, got.Index, test.ShouldEqual, bestIdx)
	test.That(t, got.DistSq, test.ShouldEqual, best)
}
