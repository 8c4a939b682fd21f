package pointcloud

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Increment is the linearized small-angle rigid-body update solved per
// iteration (spec.md §4.6): a rotation vector (alpha, beta, gamma), solved
// under the first-order approximation R ~= I + [alpha]_x (FromIncrement then
// applies it as an exact rotation), and a translation (tx, ty, tz).
type Increment struct {
	Alpha, Beta, Gamma float64
	Tx, Ty, Tz         float64
}

// MaxAbs returns the largest-magnitude component among the rotation terms
// and, separately, among the translation terms — exactly what the
// convergence test (SPEC_FULL.md §9) compares against epsRot/epsTrans.
func (inc Increment) MaxAbs() (rot, trans float64) {
	rot = math.Max(math.Abs(inc.Alpha), math.Max(math.Abs(inc.Beta), math.Abs(inc.Gamma)))
	trans = math.Max(math.Abs(inc.Tx), math.Max(math.Abs(inc.Ty), math.Abs(inc.Tz)))
	return rot, trans
}

// Solve computes the linearized point-to-plane rigid-body increment from a
// set of correspondences (spec.md §4.6), grounded on
// original_source/rust/src/rigid_body_transformation.rs: for fixed point
// p1 (with normal n1) and moved point p2, row i of the design matrix A is
//
//	[-z2*ny1 + y2*nz1, z2*nx1 - x2*nz1, -y2*nx1 + x2*ny1, nx1, ny1, nz1]
//
// and entry i of the observation vector l is n1 . (p1 - p2). x = [alpha,
// beta, gamma, tx, ty, tz] solves A x = l in the least-squares sense via
// SVD, per spec.md §4.6; if any singular value is at or below
// tol = max(n,6) * sigma_max * eps, A is treated as rank-deficient.
//
// Requires at least 6 correspondences (the system is otherwise
// underdetermined); returns ErrNotEnoughCorrespondences or ErrSingularSystem
// per spec.md §7.
func Solve(corrs []Correspondence, fixed, moved *Cloud) (Increment, error) {
	n := len(corrs)
	if n < 6 {
		return Increment{}, ErrNotEnoughCorrespondences
	}

	fixedPts := fixed.SelectedPoints()
	fixedNormals := fixed.SelectedNormals()
	movedPts := moved.SelectedPoints()

	a := mat.NewDense(n, 6, nil)
	l := mat.NewVecDense(n, nil)

	parallelRange(n, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			c := corrs[i]
			p1 := fixedPts[c.IFix]
			n1 := fixedNormals[c.IFix]
			p2 := movedPts[c.JMov]

			a.Set(i, 0, -p2.Z*n1.Y+p2.Y*n1.Z)
			a.Set(i, 1, p2.Z*n1.X-p2.X*n1.Z)
			a.Set(i, 2, -p2.Y*n1.X+p2.X*n1.Y)
			a.Set(i, 3, n1.X)
			a.Set(i, 4, n1.Y)
			a.Set(i, 5, n1.Z)
			l.SetVec(i, n1.X*(p1.X-p2.X)+n1.Y*(p1.Y-p2.Y)+n1.Z*(p1.Z-p2.Z))
		}
	})

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return Increment{}, ErrSingularSystem
	}

	values := svd.Values(nil)
	sigmaMax := values[0]
	tol := float64(maxInt(n, 6)) * sigmaMax * epsMachine

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// x = V * diag(1/sigma_i, truncated) * U^T * l
	rank := 0
	for _, s := range values {
		if s > tol {
			rank++
		}
	}
	if rank < 6 {
		return Increment{}, ErrSingularSystem
	}

	utl := make([]float64, len(values))
	for j := range values {
		var sum float64
		for i := 0; i < n; i++ {
			sum += u.At(i, j) * l.AtVec(i)
		}
		utl[j] = sum
	}

	x := make([]float64, 6)
	for k := 0; k < 6; k++ {
		var sum float64
		for j, s := range values {
			if s <= tol {
				continue
			}
			sum += v.At(k, j) * (utl[j] / s)
		}
		x[k] = sum
	}

	return Increment{
		Alpha: x[0], Beta: x[1], Gamma: x[2],
		Tx: x[3], Ty: x[4], Tz: x[5],
	}, nil
}

const epsMachine = 2.220446049250313e-16

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
