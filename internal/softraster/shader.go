package softraster

import (
	"github.com/fogleman/fauxgl"

	"github.com/Faultbox/ezrender/pkg/color"
	"github.com/Faultbox/ezrender/pkg/math"
)

// lambertShader lights interpolated vertex albedo with one point light and
// writes sRGB-encoded opaque pixels. It is read-only while drawing, so the
// fauxgl workers may share it.
type lambertShader struct {
	matrix fauxgl.Matrix // projection * view
	eye    math.Vec3
	light  PointLight
}

func (s *lambertShader) Vertex(v fauxgl.Vertex) fauxgl.Vertex {
	v.Output = s.matrix.MulPositionW(v.Position)
	return v
}

func (s *lambertShader) Fragment(v fauxgl.Vertex) fauxgl.Color {
	p := fromVector(v.Position)
	n := fromVector(v.Normal)
	// Back faces only get here with culling off; light them as seen.
	if n.Dot(s.eye.Sub(p)) < 0 {
		n = n.Negate()
	}
	c := s.light.Shade(color.RGB{R: v.Color.R, G: v.Color.G, B: v.Color.B}, p, n)
	return fauxgl.Color{
		R: quantize(color.SRGBChannel(c.R)),
		G: quantize(color.SRGBChannel(c.G)),
		B: quantize(color.SRGBChannel(c.B)),
		A: 1,
	}
}
