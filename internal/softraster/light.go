package softraster

import (
	gomath "math"

	"github.com/Faultbox/ezrender/pkg/color"
	"github.com/Faultbox/ezrender/pkg/math"
)

// PointLight is an omnidirectional light with inverse-square falloff.
type PointLight struct {
	Position  math.Vec3 // World position
	Color     color.RGB // Linear RGB (0-1 range)
	Intensity float64   // Radiant intensity multiplier
}

// Irradiance returns the light arriving at p on a surface with unit normal n.
// Surfaces facing away from the light receive nothing.
func (l PointLight) Irradiance(p, n math.Vec3) float64 {
	toLight := l.Position.Sub(p)
	dist2 := toLight.Dot(toLight)
	if dist2 == 0 {
		return 0
	}
	cos := n.Dot(toLight.Normalize())
	if cos <= 0 {
		return 0
	}
	return l.Intensity * cos / dist2
}

// Shade returns the outgoing linear radiance of a Lambertian surface with
// the given albedo: albedo/π · E · light color.
func (l PointLight) Shade(albedo color.RGB, p, n math.Vec3) color.RGB {
	e := l.Irradiance(p, n) / gomath.Pi
	return color.RGB{
		R: albedo.R * l.Color.R * e,
		G: albedo.G * l.Color.G * e,
		B: albedo.B * l.Color.B * e,
	}
}
