package pointcloud

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestSelectNPtsUniformSubsample(t *testing.T) {
	points := make([]r3.Vector, 9)
	for i := range points {
		points[i] = r3.Vector{X: float64(i), Y: 0, Z: 0}
	}
	c := NewCloud(points)

	test.That(t, c.SelectNPts(4), test.ShouldBeNil)
	test.That(t, c.Selected(), test.ShouldResemble, []int{0, 2, 5, 8})
}

func TestSelectNPtsNoOpWhenNGreaterOrEqual(t *testing.T) {
	points := make([]r3.Vector, 5)
	c := NewCloud(points)
	test.That(t, c.SelectNPts(10), test.ShouldBeNil)
	test.That(t, len(c.Selected()), test.ShouldEqual, 5)
}

func TestSelectInRangeEmptyOverlap(t *testing.T) {
	fixed := NewCloud([]r3.Vector{{X: 0, Y: 0, Z: 0}})
	other := NewCloud([]r3.Vector{{X: 1000, Y: 1000, Z: 1000}})

	err := fixed.SelectInRange(other, 1.0)
	test.That(t, err, test.ShouldEqual, ErrEmptyOverlap)
}

func TestSelectInRangeKeepsNearbyPoints(t *testing.T) {
	fixed := NewCloud([]r3.Vector{{X: 0, Y: 0, Z: 0}, {X: 100, Y: 100, Z: 100}})
	other := NewCloud([]r3.Vector{{X: 0.1, Y: 0, Z: 0}})

	test.That(t, fixed.SelectInRange(other, 1.0), test.ShouldBeNil)
	test.That(t, fixed.Selected(), test.ShouldResemble, []int{0})
}

func TestApplyTransformSkipsUndefinedNormals(t *testing.T) {
	c := NewCloud([]r3.Vector{{X: 1, Y: 0, Z: 0}})
	test.That(t, math.IsNaN(c.Normal(0).X), test.ShouldBeTrue)

	tr := FromIncrement(Increment{Tx: 1, Ty: 2, Tz: 3})
	c.ApplyTransform(tr)

	test.That(t, c.Point(0), test.ShouldResemble, r3.Vector{X: 2, Y: 2, Z: 3})
	test.That(t, math.IsNaN(c.Normal(0).X), test.ShouldBeTrue)
}
