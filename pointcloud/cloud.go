// Package pointcloud implements a point-to-plane Iterative Closest Point
// (ICP) registration engine: point selection and subsampling, a k-d tree
// spatial index, local-plane normal/planarity estimation, correspondence
// matching, MAD-based residual rejection, a linearized rigid-body
// least-squares solver, and the driver loop that ties them together.
package pointcloud

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// Cloud is the point cloud container from spec.md §4.2. It owns points,
// normals, planarity, and a selection; all selection-mutating operations are
// monotone non-increasing and leave points/normals/planarity byte-identical.
type Cloud struct {
	points    []r3.Vector
	normals   []r3.Vector
	planarity []float64

	// selected holds the currently selected indices into points/normals/
	// planarity, strictly increasing. It is the canonical representation;
	// a boolean mask is derived on demand (Mask) rather than stored, per
	// spec.md §9's design note.
	selected []int
}

// NewCloud builds a Cloud from an ordered array of points. All points start
// selected; normals and planarity start undefined (NaN) until
// EstimateNormals fills them in.
func NewCloud(points []r3.Vector) *Cloud {
	n := len(points)
	normals := make([]r3.Vector, n)
	planarity := make([]float64, n)
	selected := make([]int, n)
	nan := r3.Vector{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}
	for i := range points {
		normals[i] = nan
		planarity[i] = math.NaN()
		selected[i] = i
	}
	return &Cloud{points: points, normals: normals, planarity: planarity, selected: selected}
}

// Len returns N, the full (unselected) point count.
func (c *Cloud) Len() int { return len(c.points) }

// Selected returns a copy of the currently selected, strictly increasing
// index list.
func (c *Cloud) Selected() []int {
	out := make([]int, len(c.selected))
	copy(out, c.selected)
	return out
}

// Mask derives the boolean selection mask from the index list. The two
// representations are required to be consistent at every observable
// boundary; since the index list is canonical, Mask is always in sync.
func (c *Cloud) Mask() []bool {
	mask := make([]bool, len(c.points))
	for _, i := range c.selected {
		mask[i] = true
	}
	return mask
}

// Point returns the point at original index i (selected or not).
func (c *Cloud) Point(i int) r3.Vector { return c.points[i] }

// Normal returns the normal at original index i; NaN if undefined.
func (c *Cloud) Normal(i int) r3.Vector { return c.normals[i] }

// Planarity returns the planarity score at original index i; NaN if
// undefined.
func (c *Cloud) Planarity(i int) float64 { return c.planarity[i] }

// Points returns the full, unselected point array. Spatial-index
// construction over "the full cloud, including itself" (spec.md §4.2,
// EstimateNormals) uses this rather than SelectedPoints.
func (c *Cloud) Points() []r3.Vector { return c.points }

// SelectedPoints materializes the points at the currently selected indices,
// in selection order.
func (c *Cloud) SelectedPoints() []r3.Vector {
	out := make([]r3.Vector, len(c.selected))
	for i, idx := range c.selected {
		out[i] = c.points[idx]
	}
	return out
}

// SelectedNormals materializes the normals at the currently selected
// indices, in selection order.
func (c *Cloud) SelectedNormals() []r3.Vector {
	out := make([]r3.Vector, len(c.selected))
	for i, idx := range c.selected {
		out[i] = c.normals[idx]
	}
	return out
}

// SelectedPlanarity materializes the planarity scores at the currently
// selected indices, in selection order.
func (c *Cloud) SelectedPlanarity() []float64 {
	out := make([]float64, len(c.selected))
	for i, idx := range c.selected {
		out[i] = c.planarity[idx]
	}
	return out
}

// SelectInRange deselects, in self, any currently selected point whose
// nearest neighbor in other's current selection is farther than maxRange.
// Deselection only (spec.md §4.2). Returns ErrEmptyOverlap if the resulting
// selection is empty.
func (c *Cloud) SelectInRange(other *Cloud, maxRange float64) error {
	if maxRange < 0 || math.IsNaN(maxRange) || math.IsInf(maxRange, 0) {
		return fmt.Errorf("%w: max_range must be non-negative and finite, got %v", ErrPreconditionViolation, maxRange)
	}
	tree := NewKDTree(other.SelectedPoints())

	kept := c.selected[:0:0] // fresh backing array; never alias c.selected while iterating it
	for _, idx := range c.selected {
		nn, ok := tree.NearestNeighbor(c.points[idx])
		if !ok {
			continue
		}
		if math.Sqrt(nn.DistSq) <= maxRange {
			kept = append(kept, idx)
		}
	}
	c.selected = kept
	if len(c.selected) == 0 {
		return ErrEmptyOverlap
	}
	return nil
}

// SelectNPts replaces the current selection with n indices drawn uniformly
// by position from the current selection (spec.md §4.2, E4): index
// floor(i*(|sel|-1)/(n-1)) for i in [0, n), mapped through the current
// selection list. No-op if n >= |selection|.
func (c *Cloud) SelectNPts(n int) error {
	if n <= 0 {
		return fmt.Errorf("%w: n must be positive, got %d", ErrPreconditionViolation, n)
	}
	cur := c.selected
	if n >= len(cur) {
		return nil
	}
	if n == 1 {
		c.selected = []int{cur[0]}
		return nil
	}
	out := make([]int, n)
	denom := float64(len(cur) - 1)
	for i := 0; i < n; i++ {
		pos := int(math.Floor(float64(i) * denom / float64(n-1)))
		out[i] = cur[pos]
	}
	c.selected = out
	return nil
}

// EstimateNormals fills normals[i] and planarity[i] for every currently
// selected index i, using the k nearest neighbors of point i in the full
// cloud (including itself). Unselected indices are left NaN. Per spec.md
// §4.3, a degenerate neighborhood (λ1 == 0) leaves planarity NaN at that
// index and is implicitly excluded downstream by the rejector's planarity
// gate — it is not an error returned here.
func (c *Cloud) EstimateNormals(k int) error {
	if k < 3 {
		return fmt.Errorf("%w: neighbors must be >= 3, got %d", ErrPreconditionViolation, k)
	}
	tree := NewKDTree(c.points)

	type result struct {
		idx       int
		normal    r3.Vector
		planarity float64
	}
	results := make([]result, len(c.selected))

	parallelRange(len(c.selected), func(lo, hi int) {
		for j := lo; j < hi; j++ {
			idx := c.selected[j]
			neighbors := tree.KNN(c.points[idx], k)
			nbrPts := make([]r3.Vector, len(neighbors))
			for m, nb := range neighbors {
				nbrPts[m] = c.points[nb.Index]
			}
			normal, planarity := EstimateNormal(nbrPts)
			results[j] = result{idx: idx, normal: normal, planarity: planarity}
		}
	})

	for _, r := range results {
		c.normals[r.idx] = r.normal
		c.planarity[r.idx] = r.planarity
	}
	return nil
}

// ApplyTransform applies t to every point (and, where defined, every
// normal — normals rotate but do not translate) in the cloud. Used by the
// ICP driver to update the moved cloud after each iteration's increment.
func (c *Cloud) ApplyTransform(t *Transform) {
	for i := range c.points {
		c.points[i] = t.Apply(c.points[i])
	}
	for i := range c.normals {
		if math.IsNaN(c.normals[i].X) {
			continue
		}
		c.normals[i] = t.ApplyRotation(c.normals[i])
	}
}

// Clone returns a deep copy of c, including its current selection.
func (c *Cloud) Clone() *Cloud {
	out := &Cloud{
		points:    append([]r3.Vector(nil), c.points...),
		normals:   append([]r3.Vector(nil), c.normals...),
		planarity: append([]float64(nil), c.planarity...),
		selected:  append([]int(nil), c.selected...),
	}
	return out
}
