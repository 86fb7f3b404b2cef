package view

import (
	"errors"
	"image"
	"image/color"
	gomath "math"
	"math/rand"
	"testing"

	"github.com/Faultbox/ezrender/pkg/camera"
	"github.com/Faultbox/ezrender/pkg/math"
)

// fakeRasterizer paints frame k with gray level k+1 and records every shot.
type fakeRasterizer struct {
	shots     []Shot
	opened    int
	closed    int
	openErr   error
	renderErr error
	closeErr  error
	wrongSize bool
}

type fakeTarget struct {
	r    *fakeRasterizer
	w, h int
}

func (f *fakeRasterizer) Open(w, h int) (Target, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.opened++
	return &fakeTarget{r: f, w: w, h: h}, nil
}

func (t *fakeTarget) Render(shot Shot) (image.Image, error) {
	if t.r.renderErr != nil {
		return nil, t.r.renderErr
	}
	t.r.shots = append(t.r.shots, shot)
	w := t.w
	if t.r.wrongSize {
		w++
	}
	img := image.NewRGBA(image.Rect(0, 0, w, t.h))
	level := uint8(len(t.r.shots))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = level, level, level, 255
	}
	return img, nil
}

func (t *fakeTarget) Close() error {
	t.r.closed++
	return t.r.closeErr
}

var unitBounds = camera.Bounds{Center: math.Vec3{}, Scale: 1}

func ptr(v float64) *float64 { return &v }

func TestTurntableStrip(t *testing.T) {
	r := &fakeRasterizer{}
	s := New(r, nil)

	img, err := s.Render(unitBounds, Request{Width: 512, Height: 512})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := img.Bounds().Size(); got != (image.Point{X: 2048, Y: 512}) {
		t.Fatalf("strip size = %v, want 2048x512", got)
	}
	if len(r.shots) != 4 {
		t.Fatalf("rendered %d frames, want 4", len(r.shots))
	}

	// Frame k covers columns [512k, 512k+512).
	for k := 0; k < 4; k++ {
		for _, x := range []int{512 * k, 512*k + 511} {
			want := color.RGBA{uint8(k + 1), uint8(k + 1), uint8(k + 1), 255}
			if got := img.RGBAAt(x, 100); got != want {
				t.Errorf("pixel (%d, 100) = %v, want %v", x, got, want)
			}
		}
	}

	// Azimuths in fixed order at distance 2*scale, raised by 0.1*distance.
	for k, az := range []float64{0, 90, 180, 270} {
		want, _ := camera.SphericalPosition(unitBounds.Center, 2, az)
		if got := r.shots[k].Eye(); got.Distance(want) > 1e-9 {
			t.Errorf("frame %d eye = %v, want %v", k, got, want)
		}
	}

	if r.opened != 4 || r.closed != 4 {
		t.Errorf("opened %d closed %d targets, want 4 and 4", r.opened, r.closed)
	}
}

func TestSingleFrameOrbit(t *testing.T) {
	r := &fakeRasterizer{}
	s := New(r, nil)
	b := camera.Bounds{Center: math.Vec3{X: 1}, Scale: 4}

	img, err := s.Render(b, Request{Width: 64, Height: 32, Distance: ptr(10), Azimuth: ptr(90)})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if img.Bounds().Size() != (image.Point{X: 64, Y: 32}) {
		t.Errorf("image size = %v, want 64x32", img.Bounds().Size())
	}
	if len(r.shots) != 1 {
		t.Fatalf("rendered %d frames, want 1", len(r.shots))
	}
	shot := r.shots[0]
	if shot.Eye().Distance(math.Vec3{X: 1, Y: 1, Z: 10}) > 1e-9 {
		t.Errorf("eye = %v, want (1, 1, 10)", shot.Eye())
	}
	if shot.LightPose != shot.CameraPose {
		t.Error("light must share the camera pose")
	}
	if shot.LightIntensity != 40 {
		t.Errorf("light intensity = %v, want 10*scale = 40", shot.LightIntensity)
	}
}

func TestAutoParameters(t *testing.T) {
	r := &fakeRasterizer{}
	s := New(r, nil)
	b := camera.Bounds{Scale: 3}

	if _, err := s.Render(b, Request{Width: 8, Height: 8, Azimuth: ptr(0)}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := r.shots[0].Eye().Distance(math.Vec3{X: 6, Y: 0.6}); got > 1e-9 {
		t.Errorf("auto distance eye off by %v", got)
	}

	if _, err := s.Render(b, Request{Width: 8, Height: 8, Distance: ptr(5)}); err == nil {
		t.Error("distance without azimuth needs a random source")
	}

	s.Rand = rand.New(rand.NewSource(1))
	if _, err := s.Render(b, Request{Width: 8, Height: 8, Distance: ptr(5)}); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	eye := r.shots[len(r.shots)-1].Eye()
	if r := gomath.Hypot(eye.X, eye.Z); gomath.Abs(r-5) > 1e-9 {
		t.Errorf("random-azimuth eye radius = %v, want 5", r)
	}
}

func TestExplicitEyeAndIntensity(t *testing.T) {
	r := &fakeRasterizer{}
	s := New(r, nil)
	eye := math.Vec3{X: 0, Y: 2, Z: 5}

	_, err := s.Render(unitBounds, Request{Width: 8, Height: 8, Eye: &eye, LightIntensity: ptr(3)})
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if r.shots[0].Eye().Distance(eye) > 1e-9 {
		t.Errorf("eye = %v, want %v", r.shots[0].Eye(), eye)
	}
	if r.shots[0].LightIntensity != 3 {
		t.Errorf("light intensity = %v, want 3", r.shots[0].LightIntensity)
	}

	if _, err := s.Render(unitBounds, Request{Width: 8, Height: 8, Eye: &eye, Distance: ptr(1)}); !errors.Is(err, ErrConflictingCamera) {
		t.Errorf("eye+distance error = %v, want ErrConflictingCamera", err)
	}
}

func TestDegenerateEye(t *testing.T) {
	r := &fakeRasterizer{}
	s := New(r, nil)
	eye := unitBounds.Center

	_, err := s.Render(unitBounds, Request{Width: 8, Height: 8, Eye: &eye})
	if !errors.Is(err, camera.ErrDegenerateBasis) {
		t.Errorf("error = %v, want ErrDegenerateBasis", err)
	}
	if r.opened != 0 {
		t.Error("no target should be acquired for an impossible pose")
	}
}

func TestCollaboratorFailures(t *testing.T) {
	boom := errors.New("device lost")

	t.Run("open", func(t *testing.T) {
		r := &fakeRasterizer{openErr: boom}
		_, err := New(r, nil).Render(unitBounds, Request{Width: 8, Height: 8})
		assertStage(t, err, "open", boom)
	})

	t.Run("render releases target", func(t *testing.T) {
		r := &fakeRasterizer{renderErr: boom}
		_, err := New(r, nil).Render(unitBounds, Request{Width: 8, Height: 8})
		assertStage(t, err, "render", boom)
		if r.opened != 1 || r.closed != 1 {
			t.Errorf("opened %d closed %d, want 1 and 1", r.opened, r.closed)
		}
	})

	t.Run("release", func(t *testing.T) {
		r := &fakeRasterizer{closeErr: boom}
		img, err := New(r, nil).Render(unitBounds, Request{Width: 8, Height: 8})
		assertStage(t, err, "release", boom)
		if img != nil {
			t.Error("no image on release failure")
		}
	})

	t.Run("wrong frame size", func(t *testing.T) {
		r := &fakeRasterizer{wrongSize: true}
		_, err := New(r, nil).Render(unitBounds, Request{Width: 8, Height: 8})
		if !errors.Is(err, ErrFrameSize) {
			t.Errorf("error = %v, want ErrFrameSize", err)
		}
	})
}

func assertStage(t *testing.T, err error, stage string, cause error) {
	t.Helper()
	var ce *CollaboratorError
	if !errors.As(err, &ce) {
		t.Fatalf("error %v is not a CollaboratorError", err)
	}
	if ce.Stage != stage {
		t.Errorf("stage = %q, want %q", ce.Stage, stage)
	}
	if !errors.Is(err, cause) {
		t.Errorf("error %v does not wrap %v", err, cause)
	}
}

func TestInvalidSize(t *testing.T) {
	if _, err := New(&fakeRasterizer{}, nil).Render(unitBounds, Request{Width: 0, Height: 8}); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("error = %v, want ErrInvalidSize", err)
	}
}

func TestCompose(t *testing.T) {
	if _, err := Compose(nil, 4, 4); !errors.Is(err, ErrNoFrames) {
		t.Errorf("Compose(nil) error = %v, want ErrNoFrames", err)
	}

	// Frames with a non-zero origin are copied from their own Min.
	a := image.NewRGBA(image.Rect(10, 10, 12, 11))
	a.SetRGBA(10, 10, color.RGBA{R: 255, A: 255})
	b := image.NewRGBA(image.Rect(0, 0, 2, 1))
	b.SetRGBA(1, 0, color.RGBA{B: 255, A: 255})

	strip, err := Compose([]image.Image{a, b}, 2, 1)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if strip.RGBAAt(0, 0) != (color.RGBA{R: 255, A: 255}) {
		t.Errorf("pixel 0 = %v", strip.RGBAAt(0, 0))
	}
	if strip.RGBAAt(3, 0) != (color.RGBA{B: 255, A: 255}) {
		t.Errorf("pixel 3 = %v", strip.RGBAAt(3, 0))
	}

	if _, err := Compose([]image.Image{a, image.NewRGBA(image.Rect(0, 0, 3, 1))}, 2, 1); !errors.Is(err, ErrFrameSize) {
		t.Errorf("mismatched frame error = %v, want ErrFrameSize", err)
	}
}
