package math

import "math"

// Vec2 is a 2D vector, used for projected (screen or plane) coordinates.
type Vec2 struct {
	X, Y float64
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Cross returns the z component of the 3D cross product of v and other.
func (v Vec2) Cross(other Vec2) float64 {
	return v.X*other.Y - v.Y*other.X
}

// Length returns the magnitude.
func (v Vec2) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// SignedArea returns the signed area of triangle (a, b, c).
// Positive means counter-clockwise.
func SignedArea(a, b, c Vec2) float64 {
	return 0.5 * b.Sub(a).Cross(c.Sub(a))
}
