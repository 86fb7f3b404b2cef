// Package softraster renders vertex-colored triangle meshes headless on the
// CPU. Triangle setup, clipping, culling and the depth buffer come from
// fauxgl; this package supplies the camera matrices and the Lambert shader.
// It serves as the pixel collaborator of the view synthesizer.
package softraster

import (
	"errors"
	"fmt"
	"image"

	"github.com/fogleman/fauxgl"
	"golang.org/x/image/draw"

	"github.com/Faultbox/ezrender/internal/scene"
	"github.com/Faultbox/ezrender/pkg/camera"
	"github.com/Faultbox/ezrender/pkg/color"
	"github.com/Faultbox/ezrender/pkg/math"
	"github.com/Faultbox/ezrender/pkg/view"
)

// nearRatio is the near clip plane as a fraction of the far plane.
const nearRatio = 1e-4

var (
	ErrClosed   = errors.New("render target is closed")
	ErrShotSize = errors.New("shot size does not match render target")
)

// Options controls image formation.
type Options struct {
	FOVDegrees    float64    // vertical field of view
	Background    [4]float64 // linear RGBA
	CullBackFaces bool
}

// DefaultOptions returns a 30° vertical field of view on a mid-gray
// background with back-face culling.
func DefaultOptions() Options {
	return Options{
		FOVDegrees:    30,
		Background:    [4]float64{0.5, 0.5, 0.5, 1},
		CullBackFaces: true,
	}
}

// Rasterizer draws the meshes of one scene.
type Rasterizer struct {
	mesh   *fauxgl.Mesh
	bounds camera.Bounds
	opts   Options
}

// New binds a scene to a rasterizer. The scene's triangles are converted
// once; later changes to s are not seen.
func New(s *scene.Scene, opts Options) *Rasterizer {
	r := &Rasterizer{
		mesh: fauxgl.NewTriangleMesh(triangles(s.Meshes)),
		opts: opts,
	}
	if b, err := s.Bounds(); err == nil {
		r.bounds = b
	}
	return r
}

// Open allocates a color and depth buffer of the given size.
func (r *Rasterizer) Open(width, height int) (view.Target, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", view.ErrInvalidSize, width, height)
	}
	ctx := fauxgl.NewContext(width, height)
	ctx.Cull = fauxgl.CullNone
	if r.opts.CullBackFaces {
		ctx.Cull = fauxgl.CullBack
	}
	return &target{r: r, ctx: ctx}, nil
}

type target struct {
	r   *Rasterizer
	ctx *fauxgl.Context
}

// Render draws the scene from the shot's camera, lit by a point light at
// the shot's light pose. The returned image is owned by the caller.
func (t *target) Render(shot view.Shot) (image.Image, error) {
	if t.ctx == nil {
		return nil, ErrClosed
	}
	if shot.Width != t.ctx.Width || shot.Height != t.ctx.Height {
		return nil, fmt.Errorf("%w: shot %dx%d, target %dx%d",
			ErrShotSize, shot.Width, shot.Height, t.ctx.Width, t.ctx.Height)
	}

	eye := shot.Eye()
	near, far := t.r.clipRange(eye)
	proj := fauxgl.Perspective(t.r.opts.FOVDegrees,
		float64(shot.Width)/float64(shot.Height), near, far)

	t.ctx.ClearColorBufferWith(t.r.background())
	t.ctx.ClearDepthBuffer()
	t.ctx.Shader = &lambertShader{
		matrix: proj.Mul(toMatrix(shot.View.ViewMatrix())),
		eye:    eye,
		light: PointLight{
			Position:  shot.LightPose.Translation(),
			Color:     color.White,
			Intensity: shot.LightIntensity,
		},
	}
	t.ctx.DrawMesh(t.r.mesh)

	b := t.ctx.ColorBuffer.Bounds()
	out := image.NewRGBA(b)
	draw.Draw(out, b, t.ctx.ColorBuffer, b.Min, draw.Src)
	return out, nil
}

// Close releases the buffers.
func (t *target) Close() error {
	if t.ctx == nil {
		return ErrClosed
	}
	t.ctx = nil
	return nil
}

// clipRange returns near and far planes enclosing the scene seen from eye.
func (r *Rasterizer) clipRange(eye math.Vec3) (near, far float64) {
	far = eye.Sub(r.bounds.Center).Length() + r.bounds.Scale
	if !(far > 0) {
		far = 1
	}
	return far * nearRatio, far
}

func (r *Rasterizer) background() fauxgl.Color {
	bg := r.opts.Background
	return fauxgl.Color{
		R: quantize(color.SRGBChannel(bg[0])),
		G: quantize(color.SRGBChannel(bg[1])),
		B: quantize(color.SRGBChannel(bg[2])),
		A: quantize(bg[3]),
	}
}

// triangles converts indexed meshes into fauxgl triangles with flat normals
// and linear vertex albedo. Zero-area triangles are dropped.
func triangles(meshes []*scene.Mesh) []*fauxgl.Triangle {
	var out []*fauxgl.Triangle
	for _, m := range meshes {
		for i := 0; i+2 < len(m.Indices); i += 3 {
			idx := [3]uint32{m.Indices[i], m.Indices[i+1], m.Indices[i+2]}
			p0, p1, p2 := m.Positions[idx[0]], m.Positions[idx[1]], m.Positions[idx[2]]

			n := p1.Sub(p0).Cross(p2.Sub(p0))
			if n.Length() == 0 {
				continue
			}
			n = n.Normalize()

			var v [3]fauxgl.Vertex
			for k, j := range idx {
				c := m.Color(j)
				v[k] = fauxgl.Vertex{
					Position: toVector(m.Positions[j]),
					Normal:   toVector(n),
					Color:    fauxgl.Color{R: c.R, G: c.G, B: c.B, A: 1},
				}
			}
			out = append(out, &fauxgl.Triangle{V1: v[0], V2: v[1], V3: v[2]})
		}
	}
	return out
}

// toMatrix converts a column-major matrix to fauxgl's row-major fields.
func toMatrix(m math.Mat4) fauxgl.Matrix {
	return fauxgl.Matrix{
		X00: m[0], X01: m[4], X02: m[8], X03: m[12],
		X10: m[1], X11: m[5], X12: m[9], X13: m[13],
		X20: m[2], X21: m[6], X22: m[10], X23: m[14],
		X30: m[3], X31: m[7], X32: m[11], X33: m[15],
	}
}

func toVector(v math.Vec3) fauxgl.Vector {
	return fauxgl.Vector{X: v.X, Y: v.Y, Z: v.Z}
}

func fromVector(v fauxgl.Vector) math.Vec3 {
	return math.Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// quantize biases a [0, 1] value by half an 8-bit step. fauxgl truncates
// when it stores a color, so the stored byte is the rounded value.
func quantize(v float64) float64 {
	return v + 0.5/255
}

// encode converts a linear channel value to the 8-bit sRGB value a render
// stores for it.
func encode(v float64) uint8 {
	c := quantize(color.SRGBChannel(v))
	if c >= 1 {
		return 255
	}
	return uint8(c * 255)
}
