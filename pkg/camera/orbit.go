package camera

import (
	"fmt"
	gomath "math"
	"math/rand"

	"github.com/Faultbox/ezrender/pkg/math"
)

const (
	// DistanceFactor times the scene scale is the default orbit radius.
	DistanceFactor = 2.0

	// ElevationFactor times the distance is added to the eye height so the
	// camera never looks exactly level at the subject.
	ElevationFactor = 0.1
)

// Bounds describes the scene a camera is framed on.
type Bounds struct {
	Center math.Vec3
	Scale  float64 // bounding-box diagonal length
}

// BoundsFromExtent returns the bounds of the box [lo, hi].
func BoundsFromExtent(lo, hi math.Vec3) Bounds {
	return Bounds{
		Center: lo.Add(hi).Scale(0.5),
		Scale:  hi.Sub(lo).Length(),
	}
}

// SphericalPosition places an eye on a horizontal circle of radius
// distance around center, at azimuthDeg degrees measured from +X towards
// +Z, raised by distance*ElevationFactor. Azimuth wraps naturally but must
// be finite.
func SphericalPosition(center math.Vec3, distance, azimuthDeg float64) (math.Vec3, error) {
	if !(distance > 0) || gomath.IsInf(distance, 1) {
		return math.Vec3{}, ErrInvalidDistance
	}
	if gomath.IsNaN(azimuthDeg) || gomath.IsInf(azimuthDeg, 0) || !center.IsFinite() {
		return math.Vec3{}, fmt.Errorf("%w: center %v, azimuth %g", ErrNonFinite, center, azimuthDeg)
	}
	theta := azimuthDeg * gomath.Pi / 180
	return center.Add(math.Vec3{
		X: distance * gomath.Cos(theta),
		Y: distance * ElevationFactor,
		Z: distance * gomath.Sin(theta),
	}), nil
}

// Orbit is a resolved (distance, azimuth) pair.
type Orbit struct {
	Distance float64
	Azimuth  float64 // degrees

	// Which values were filled in rather than supplied.
	AutoDistance  bool
	RandomAzimuth bool
}

// ResolveOrbit completes a partially specified orbit. A missing azimuth is
// drawn uniformly from [0, 360) using rng; a missing distance becomes
// DistanceFactor*scale. With both supplied the result is deterministic and
// rng is not touched.
func ResolveOrbit(distance, azimuth *float64, scale float64, rng *rand.Rand) (Orbit, error) {
	if distance == nil && azimuth == nil {
		return Orbit{}, ErrNoOrbit
	}

	var o Orbit
	if azimuth != nil {
		o.Azimuth = *azimuth
	} else {
		if rng == nil {
			return Orbit{}, ErrNoRand
		}
		o.Azimuth = rng.Float64() * 360
		o.RandomAzimuth = true
	}

	if distance != nil {
		o.Distance = *distance
	} else {
		o.Distance = DistanceFactor * scale
		o.AutoDistance = true
	}
	if !(o.Distance > 0) {
		return Orbit{}, ErrInvalidDistance
	}
	return o, nil
}

// Eye returns the eye position of the orbit around b.
func (o Orbit) Eye(b Bounds) (math.Vec3, error) {
	return SphericalPosition(b.Center, o.Distance, o.Azimuth)
}
