package pointcloud

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"
)

// EstimateNormal computes the local-plane normal and planarity score for a
// neighborhood of points (spec.md §4.3), grounded on
// original_source/rust/src/pointcloud.rs's normal_from_neighbors: build the
// 3x3 covariance of the neighborhood, eigendecompose it, and take the
// eigenvector of the smallest eigenvalue as the normal. Eigenvalues are
// returned by gonum's EigenSym in ascending order; the Rust original sorts
// descending and reads index 2, which is the same eigenvalue under either
// convention.
//
// planarity = (λ2 - λ3) / λ1, using descending-order naming (λ1 >= λ2 >= λ3).
// If λ1 == 0 (a degenerate, single-point-repeated neighborhood), planarity is
// NaN rather than a divide-by-zero panic; callers must treat NaN planarity as
// "reject this point" per spec.md §4.5.
func EstimateNormal(neighbors []r3.Vector) (r3.Vector, float64) {
	n := len(neighbors)
	if n == 0 {
		return r3.Vector{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}, math.NaN()
	}

	var mean r3.Vector
	for _, p := range neighbors {
		mean = mean.Add(p)
	}
	mean = mean.Mul(1.0 / float64(n))

	// Sample covariance (Bessel's correction, ddof=1), matching ndarray's
	// cov(1.) in the Rust original.
	denom := float64(n - 1)
	if denom <= 0 {
		denom = 1
	}
	var sxx, sxy, sxz, syy, syz, szz float64
	for _, p := range neighbors {
		d := p.Sub(mean)
		sxx += d.X * d.X
		sxy += d.X * d.Y
		sxz += d.X * d.Z
		syy += d.Y * d.Y
		syz += d.Y * d.Z
		szz += d.Z * d.Z
	}
	cov := mat.NewSymDense(3, []float64{
		sxx / denom, sxy / denom, sxz / denom,
		sxy / denom, syy / denom, syz / denom,
		sxz / denom, syz / denom, szz / denom,
	})

	var eig mat.EigenSym
	if ok := eig.Factorize(cov, true); !ok {
		return r3.Vector{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}, math.NaN()
	}

	// EigenSym returns eigenvalues ascending: values[0] <= values[1] <= values[2].
	values := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	lambda1, lambda2, lambda3 := values[2], values[1], values[0]
	normalVec := r3.Vector{X: vecs.At(0, 0), Y: vecs.At(1, 0), Z: vecs.At(2, 0)}

	if lambda1 == 0 {
		return normalVec, math.NaN()
	}
	planarity := (lambda2 - lambda3) / lambda1
	return normalVec, planarity
}
