// Package camera computes camera poses: look-at bases, orbit placement
// around a scene and the automatic choice of missing orbit parameters.
package camera

import (
	"errors"
	"fmt"

	"github.com/Faultbox/ezrender/pkg/math"
)

// Camera errors.
var (
	ErrDegenerateBasis = errors.New("degenerate camera basis")
	ErrInvalidDistance = errors.New("camera distance must be positive")
	ErrNoOrbit         = errors.New("neither distance nor azimuth given")
	ErrNoRand          = errors.New("random azimuth requested without a random source")
	ErrNonFinite       = errors.New("camera center and azimuth must be finite")
)

// epsilon is the length below which a basis vector counts as zero.
const epsilon = 1e-9

// DefaultUp is the up hint used by the renderer: +Y.
var DefaultUp = math.Vec3{X: 0, Y: 1, Z: 0}

// DegenerateBasisError reports inputs from which no look-at basis exists.
type DegenerateBasisError struct {
	Eye, Target, Up math.Vec3
	Reason          string
}

func (e *DegenerateBasisError) Error() string {
	return fmt.Sprintf("%v: %s (eye %v, target %v, up %v)", ErrDegenerateBasis, e.Reason, e.Eye, e.Target, e.Up)
}

func (e *DegenerateBasisError) Unwrap() error { return ErrDegenerateBasis }

// Pose is a world-to-camera rigid transform.
//
// Right, Up and Forward are an orthonormal basis with Forward pointing from
// the eye to the target. The view rotation has rows Right, Up and -Forward
// (the camera looks down its -Z axis); Translation is -rotation * eye.
type Pose struct {
	Right       math.Vec3
	Up          math.Vec3
	Forward     math.Vec3
	Translation math.Vec3
}

// LookAt builds the pose of a camera at eye looking at target.
//
// It fails when eye and target coincide, when up is parallel to the view
// direction or when any input is NaN or infinite. No fallback up vector is
// chosen.
func LookAt(eye, target, up math.Vec3) (Pose, error) {
	if !eye.IsFinite() || !target.IsFinite() || !up.IsFinite() {
		return Pose{}, &DegenerateBasisError{Eye: eye, Target: target, Up: up, Reason: "non-finite input"}
	}
	dir := target.Sub(eye)
	if dir.Length() < epsilon {
		return Pose{}, &DegenerateBasisError{Eye: eye, Target: target, Up: up, Reason: "eye coincides with target"}
	}
	forward := dir.Normalize()

	side := forward.Cross(up)
	if side.Length() < epsilon*max(1, up.Length()) {
		return Pose{}, &DegenerateBasisError{Eye: eye, Target: target, Up: up, Reason: "up hint is parallel to view direction"}
	}
	right := side.Normalize()
	trueUp := right.Cross(forward)

	p := Pose{Right: right, Up: trueUp, Forward: forward}
	p.Translation = math.Vec3{
		X: -right.Dot(eye),
		Y: -trueUp.Dot(eye),
		Z: forward.Dot(eye),
	}
	return p, nil
}

// ViewMatrix returns the world-to-camera matrix.
func (p Pose) ViewMatrix() math.Mat4 {
	return math.FromRows(p.Right, p.Up, p.Forward.Negate(), p.Translation)
}

// CameraToWorld returns the inverse of the view matrix, the pose a scene
// graph places the camera and its light with.
func (p Pose) CameraToWorld() (math.Mat4, error) {
	inv, ok := p.ViewMatrix().Inverse()
	if !ok {
		return math.Mat4{}, &DegenerateBasisError{Reason: "view matrix is singular"}
	}
	return inv, nil
}

// Eye recovers the camera position from the pose.
func (p Pose) Eye() math.Vec3 {
	t := p.Translation
	return p.Right.Scale(-t.X).Add(p.Up.Scale(-t.Y)).Add(p.Forward.Scale(t.Z))
}
