package pointcloud

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/golang/geo/r3"
)

// Transform is the accumulated rigid-body transform from spec.md §3/§4.8: a
// 4x4 homogeneous matrix, built up across iterations by composing each
// iteration's solved Increment onto the running total. Composition and
// point application are delegated to mgl64, the matrix/quaternion library
// the teacher's go.mod already carries for exactly this purpose.
type Transform struct {
	h mgl64.Mat4
}

// Identity returns the identity transform.
func Identity() *Transform {
	return &Transform{h: mgl64.Ident4()}
}

// FromIncrement builds the small rotation/translation solved by Solve into
// a Transform, per spec.md §4.6's "R ~= I + [alpha]_x" first-order
// approximation realized as an exact rotation: the increment is applied as
// a proper rotation of angle |(alpha,beta,gamma)| about that vector's axis,
// rather than the non-orthogonal I+[alpha]_x matrix itself, so repeated
// composition does not accumulate a scale/shear drift. For the small angles
// ICP increments actually produce, the two agree to first order.
func FromIncrement(inc Increment) *Transform {
	axis := mgl64.Vec3{inc.Alpha, inc.Beta, inc.Gamma}
	angle := axis.Len()
	var rot mgl64.Mat4
	if angle < 1e-15 {
		rot = mgl64.Ident4()
	} else {
		q := mgl64.QuatRotate(angle, axis.Normalize())
		rot = q.Mat4()
	}
	translate := mgl64.Translate3D(inc.Tx, inc.Ty, inc.Tz)
	return &Transform{h: translate.Mul4(rot)}
}

// Compose returns delta * t — delta applied to the cloud in its current
// (already t-transformed) frame, matching the ICP driver's per-iteration
// update H_new = delta_H * H_old (spec.md §4.7).
func (t *Transform) Compose(delta *Transform) *Transform {
	return &Transform{h: delta.h.Mul4(t.h)}
}

// Apply transforms a point by the full homogeneous matrix (rotation +
// translation).
func (t *Transform) Apply(p r3.Vector) r3.Vector {
	v := t.h.Mul4x1(mgl64.Vec4{p.X, p.Y, p.Z, 1})
	return r3.Vector{X: v.X(), Y: v.Y(), Z: v.Z()}
}

// ApplyRotation rotates a vector (e.g. a normal) by the transform's
// rotation block only, without translating it.
func (t *Transform) ApplyRotation(v r3.Vector) r3.Vector {
	r := t.h.Mat3()
	out := r.Mul3x1(mgl64.Vec3{v.X, v.Y, v.Z})
	return r3.Vector{X: out.X(), Y: out.Y(), Z: out.Z()}
}

// Matrix returns the underlying 4x4 homogeneous matrix in column-major
// order, as mgl64 stores it — used by callers (e.g. the CLI) that need to
// print or serialize the transform.
func (t *Transform) Matrix() [16]float64 {
	return t.h
}

// Translation returns the transform's translation component.
func (t *Transform) Translation() r3.Vector {
	return r3.Vector{X: t.h[12], Y: t.h[13], Z: t.h[14]}
}

// RotationAngle returns the rotation angle, in radians, of the transform's
// rotation block (via its equivalent quaternion) — a convenient summary
// statistic for the driver's final log line.
func (t *Transform) RotationAngle() float64 {
	q := mgl64.Mat4ToQuat(t.h)
	w := q.W
	if w > 1 {
		w = 1
	}
	if w < -1 {
		w = -1
	}
	return 2 * math.Acos(w)
}
