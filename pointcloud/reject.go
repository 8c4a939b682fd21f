package pointcloud

import (
	"math"

	"github.com/montanaflynn/stats"
)

// madToSigma is the normal-consistent scale estimator: for data drawn
// from a Gaussian, 1.4826*MAD converges to the standard deviation. Used by
// Reject to turn the median absolute deviation into a robust sigma without
// assuming the residuals are outlier-free.
const madToSigma = 1.4826

// Reject implements the MAD-based correspondence filter from spec.md §4.5,
// grounded on original_source/rust/src/corrpts.rs: compute the median and
// MAD of the surviving residuals, derive sigma = 1.4826*MAD, and keep a
// correspondence iff |r - median| <= 3*sigma AND its fixed point's
// planarity >= minPlanarity (and is not NaN). Correspondences with a
// negative IFix or a NaN residual are always dropped (BuildCorrespondences
// itself never emits them; it skips fixed points without a normal or a
// neighbor).
//
// Returns the surviving correspondences and the residual statistics
// (median, sigma) the iteration log line reports.
func Reject(corrs []Correspondence, fixed *Cloud, minPlanarity float64) (kept []Correspondence, median, sigma float64, err error) {
	fixedPlanarity := fixed.SelectedPlanarity()

	residuals := make([]float64, 0, len(corrs))
	for _, c := range corrs {
		if c.IFix < 0 || math.IsNaN(c.R) {
			continue
		}
		residuals = append(residuals, c.R)
	}
	if len(residuals) == 0 {
		return nil, math.NaN(), math.NaN(), ErrNotEnoughCorrespondences
	}

	med, statErr := stats.Median(residuals)
	if statErr != nil {
		return nil, math.NaN(), math.NaN(), ErrNotEnoughCorrespondences
	}

	absDev := make([]float64, len(residuals))
	for i, r := range residuals {
		absDev[i] = math.Abs(r - med)
	}
	mad, statErr := stats.Median(absDev)
	if statErr != nil {
		return nil, math.NaN(), math.NaN(), ErrNotEnoughCorrespondences
	}
	sig := madToSigma * mad

	kept = make([]Correspondence, 0, len(corrs))
	for _, c := range corrs {
		if c.IFix < 0 || math.IsNaN(c.R) {
			continue
		}
		p := fixedPlanarity[c.IFix]
		if math.IsNaN(p) || p < minPlanarity {
			continue
		}
		if sig > 0 && math.Abs(c.R-med) > 3*sig {
			continue
		}
		kept = append(kept, c)
	}

	if len(kept) < 6 {
		return nil, med, sig, ErrNotEnoughCorrespondences
	}
	return kept, med, sig, nil
}

// RMS returns the root-mean-square of the correspondences' residuals, used
// by the ICP driver's convergence test (SPEC_FULL.md §9) and iteration log
// line.
func RMS(corrs []Correspondence) float64 {
	if len(corrs) == 0 {
		return math.NaN()
	}
	var sumSq float64
	for _, c := range corrs {
		sumSq += c.R * c.R
	}
	return math.Sqrt(sumSq / float64(len(corrs)))
}
