package pointcloud

import (
	"fmt"
	"math"
	"time"
)

// Config holds the tuning parameters of the ICP driver, mirroring
// spec.md §6's configuration table. It is the pointcloud-level counterpart
// of the config package's YAML-loaded struct; cmd/icpalign translates one
// into the other.
type Config struct {
	MaxOverlapDistance float64
	Correspondences    int
	Neighbors          int
	MaxIterations      int
	MinPlanarity       float64
}

// ConvergenceOptions are the driver's stopping-criterion epsilons
// (SPEC_FULL.md §9), deliberately not part of the YAML-facing Config: they
// are an internal tuning knob, not a user-facing parameter spec.md §6 names.
type ConvergenceOptions struct {
	EpsRot   float64
	EpsTrans float64
	EpsRMS   float64
}

// DefaultConvergenceOptions returns the SPEC_FULL.md §9 defaults.
func DefaultConvergenceOptions() ConvergenceOptions {
	return ConvergenceOptions{EpsRot: 1e-6, EpsTrans: 1e-6, EpsRMS: 1e-6}
}

// StageTimings records how long each pipeline stage of one iteration took
// (SPEC_FULL.md §8, supplementing spec.md with the original source's
// per-stage Instant::now()/elapsed() granularity).
type StageTimings struct {
	Correspondence time.Duration
	Reject         time.Duration
	Solve          time.Duration
	Total          time.Duration
}

// IterationInfo is the per-iteration diagnostic record the driver logs and
// returns (spec.md §6's "Diagnostics emitted").
type IterationInfo struct {
	Iteration       int
	Correspondences int
	Median          float64
	Sigma           float64
	RMS             float64
	Increment       Increment
	Timings         StageTimings
}

// Result is RegisterICP's return value: the final accumulated transform,
// the registered (moved, then transformed) cloud, and one IterationInfo per
// completed iteration.
type Result struct {
	Transform  *Transform
	Registered *Cloud
	Iterations []IterationInfo
}

// RegisterICP runs point-to-plane ICP registration of moved onto fixed
// (spec.md §4.7). Both clouds are used as given — preprocessing
// (SelectInRange, SelectNPts, EstimateNormals) is the caller's
// responsibility, matching original_source/rust/src/main.rs's pipeline
// shape where selection happens once, up front, before the (never closed,
// in the source) registration loop begins.
//
// moved is not mutated; a clone is transformed iteration by iteration and
// returned as Result.Registered.
func RegisterICP(fixed, moved *Cloud, cfg Config, conv ConvergenceOptions, log func(IterationInfo)) (*Result, error) {
	if cfg.MaxIterations <= 0 {
		return nil, fmt.Errorf("%w: max_iterations must be positive, got %d", ErrPreconditionViolation, cfg.MaxIterations)
	}

	working := moved.Clone()
	transform := Identity()
	infos := make([]IterationInfo, 0, cfg.MaxIterations)

	prevRMS := math.Inf(1)

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		iterStart := time.Now()

		t0 := time.Now()
		corrs := BuildCorrespondences(fixed, working)
		corrTime := time.Since(t0)

		t0 = time.Now()
		kept, median, sigma, err := Reject(corrs, fixed, cfg.MinPlanarity)
		rejectTime := time.Since(t0)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iter, err)
		}

		t0 = time.Now()
		inc, err := Solve(kept, fixed, working)
		solveTime := time.Since(t0)
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", iter, err)
		}

		delta := FromIncrement(inc)
		working.ApplyTransform(delta)
		transform = transform.Compose(delta)

		rms := RMS(kept)
		info := IterationInfo{
			Iteration:       iter,
			Correspondences: len(kept),
			Median:          median,
			Sigma:           sigma,
			RMS:             rms,
			Increment:       inc,
			Timings: StageTimings{
				Correspondence: corrTime,
				Reject:         rejectTime,
				Solve:          solveTime,
				Total:          time.Since(iterStart),
			},
		}
		infos = append(infos, info)
		if log != nil {
			log(info)
		}

		rot, trans := inc.MaxAbs()
		converged := rot < conv.EpsRot && trans < conv.EpsTrans
		if iter > 0 {
			rmsChange := math.Abs(rms-prevRMS) / math.Max(prevRMS, 1e-300)
			converged = converged || rmsChange < conv.EpsRMS
		}
		prevRMS = rms
		if converged {
			break
		}
	}

	return &Result{Transform: transform, Registered: working, Iterations: infos}, nil
}
