package pointcloud

import "math"

// Correspondence is one point-to-plane pairing between a selected point in
// the fixed cloud and its nearest selected point in the moved cloud
// (spec.md §3), carrying the signed point-to-plane residual used by both the
// rejector and the solver.
type Correspondence struct {
	// IFix is the index, within the fixed cloud's SelectedPoints/
	// SelectedNormals arrays, of the fixed point this correspondence was
	// built from.
	IFix int
	// JMov is the index, within the moved cloud's SelectedPoints array, of
	// the matched moved point.
	JMov int
	// R is the signed point-to-plane residual: n_fix . (p_mov - p_fix).
	R float64
}

// BuildCorrespondences matches every selected fixed point (that carries a
// defined normal) to its nearest selected point in moved (by Euclidean
// distance in point space) and computes the point-to-plane residual against
// the fixed point's normal. Grounded on
// original_source/rust/src/pointcloud.rs::cloud_to_cloud_distance, which
// calls cloud_to_cloud_distance(pc1=fixed, pc2=moved) ->
// knn_search(reference=pc2, query=pc1, 1): the tree is built over moved (the
// reference) and queried once per fixed point (the query), per spec.md
// §4.4's "for each selected index i of the fixed cloud ... compute 1-NN
// j = NN_moved(p_i)".
//
// Fixed points with an undefined (NaN) normal are skipped entirely; they
// cannot contribute a point-to-plane residual.
func BuildCorrespondences(fixed, moved *Cloud) []Correspondence {
	// IFix indexes into these — the full selected-fixed arrays — so that
	// Reject and Solve (which re-derive the same arrays via
	// fixed.SelectedPoints/SelectedNormals/SelectedPlanarity) see the same
	// index space a returned Correspondence's IFix refers to.
	fixedPts := fixed.SelectedPoints()
	fixedNormals := fixed.SelectedNormals()
	movedPts := moved.SelectedPoints()

	tree := NewKDTree(movedPts)
	raw := make([]Correspondence, len(fixedPts))
	valid := make([]bool, len(fixedPts))

	parallelRange(len(fixedPts), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			nFix := fixedNormals[i]
			if math.IsNaN(nFix.X) {
				continue
			}
			pFix := fixedPts[i]
			nn, ok := tree.NearestNeighbor(pFix)
			if !ok {
				continue
			}
			pMov := movedPts[nn.Index]
			d := pMov.Sub(pFix)
			raw[i] = Correspondence{IFix: i, JMov: nn.Index, R: nFix.Dot(d)}
			valid[i] = true
		}
	})

	out := make([]Correspondence, 0, len(fixedPts))
	for i, ok := range valid {
		if ok {
			out = append(out, raw[i])
		}
	}
	return out
}
