package pointcloud

import "errors"

// Error kinds from spec.md §7. Structural failures that invalidate an
// iteration or the whole run are returned as one of these sentinels (often
// wrapped with fmt.Errorf("...: %w", ...) for context); numerical/local
// conditions are represented as NaN and filtered downstream instead of
// erroring.
var (
	// ErrEmptyOverlap is returned when SelectInRange leaves zero points
	// selected in the fixed cloud.
	ErrEmptyOverlap = errors.New("pointcloud: point clouds do not overlap within max_overlap_distance; " +
		"consider increasing max_overlap_distance")

	// ErrNotEnoughCorrespondences is returned when fewer than 6
	// correspondences survive rejection.
	ErrNotEnoughCorrespondences = errors.New("pointcloud: fewer than 6 correspondences survived rejection")

	// ErrSingularSystem is returned when the design matrix is rank-deficient
	// below the SVD truncation tolerance.
	ErrSingularSystem = errors.New("pointcloud: design matrix is singular")

	// ErrPreconditionViolation marks programmer errors: NaN/Inf inputs,
	// k <= 0, mismatched lengths, and similar invariant violations that must
	// never be silently masked.
	ErrPreconditionViolation = errors.New("pointcloud: precondition violation")
)
