package view

import (
	"fmt"
	"image"
	"math/rand"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/ezrender/pkg/camera"
	"github.com/Faultbox/ezrender/pkg/math"
)

// DefaultLightFactor times the scene scale is the light intensity when
// none is given.
const DefaultLightFactor = 10.0

// DefaultTurntable is the azimuth sequence used when no camera is requested.
var DefaultTurntable = []float64{0, 90, 180, 270}

// Request describes the image wanted. With Eye, Distance and Azimuth all
// unset the result is a turntable strip.
type Request struct {
	Width, Height int

	Eye      *math.Vec3
	Distance *float64
	Azimuth  *float64

	LightIntensity *float64
}

// Synthesizer renders views of one scene.
type Synthesizer struct {
	Rasterizer Rasterizer
	Log        *zap.Logger

	// Rand supplies the azimuth when only a distance is requested.
	Rand *rand.Rand

	Up             math.Vec3
	Turntable      []float64
	DistanceFactor float64
	LightFactor    float64
}

// New returns a synthesizer with default framing policy.
func New(r Rasterizer, log *zap.Logger) *Synthesizer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Synthesizer{
		Rasterizer:     r,
		Log:            log,
		Up:             camera.DefaultUp,
		Turntable:      DefaultTurntable,
		DistanceFactor: camera.DistanceFactor,
		LightFactor:    DefaultLightFactor,
	}
}

// Render produces the requested image of a scene with bounds b.
func (s *Synthesizer) Render(b camera.Bounds, req Request) (*image.RGBA, error) {
	if req.Width <= 0 || req.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, req.Width, req.Height)
	}

	intensity := s.LightFactor * b.Scale
	if req.LightIntensity != nil {
		intensity = *req.LightIntensity
	} else {
		s.Log.Info("auto light intensity", zap.Float64("intensity", intensity), zap.Float64("scale", b.Scale))
	}

	switch {
	case req.Eye != nil:
		if req.Distance != nil || req.Azimuth != nil {
			return nil, ErrConflictingCamera
		}
		return s.single(b, *req.Eye, req, intensity)

	case req.Distance != nil || req.Azimuth != nil:
		orbit, err := camera.ResolveOrbit(req.Distance, req.Azimuth, b.Scale, s.Rand)
		if err != nil {
			return nil, err
		}
		if orbit.RandomAzimuth {
			s.Log.Info("random azimuth assigned", zap.Float64("azimuth", orbit.Azimuth))
		}
		if orbit.AutoDistance {
			orbit.Distance = s.DistanceFactor * b.Scale
			s.Log.Info("auto distance", zap.Float64("distance", orbit.Distance))
		}
		eye, err := orbit.Eye(b)
		if err != nil {
			return nil, err
		}
		return s.single(b, eye, req, intensity)

	default:
		return s.turntable(b, req, intensity)
	}
}

func (s *Synthesizer) single(b camera.Bounds, eye math.Vec3, req Request, intensity float64) (*image.RGBA, error) {
	frame, err := s.Frame(b.Center, eye, req.Width, req.Height, intensity)
	if err != nil {
		return nil, err
	}
	return Compose([]image.Image{frame}, req.Width, req.Height)
}

// turntable renders one frame per azimuth, in order, and lays them out
// left to right.
func (s *Synthesizer) turntable(b camera.Bounds, req Request, intensity float64) (*image.RGBA, error) {
	distance := s.DistanceFactor * b.Scale
	frames := make([]image.Image, 0, len(s.Turntable))
	for _, az := range s.Turntable {
		eye, err := camera.SphericalPosition(b.Center, distance, az)
		if err != nil {
			return nil, err
		}
		frame, err := s.Frame(b.Center, eye, req.Width, req.Height, intensity)
		if err != nil {
			return nil, fmt.Errorf("turntable frame at %g°: %w", az, err)
		}
		frames = append(frames, frame)
	}
	return Compose(frames, req.Width, req.Height)
}

// Frame renders a single view from eye towards target. The render target is
// released before Frame returns, also when rendering fails.
func (s *Synthesizer) Frame(target, eye math.Vec3, width, height int, intensity float64) (img image.Image, err error) {
	pose, err := camera.LookAt(eye, target, s.Up)
	if err != nil {
		return nil, err
	}
	c2w, err := pose.CameraToWorld()
	if err != nil {
		return nil, err
	}
	shot := Shot{
		Width:          width,
		Height:         height,
		View:           pose,
		CameraPose:     c2w,
		LightPose:      c2w,
		LightIntensity: intensity,
	}

	s.Log.Debug("rendering frame",
		zap.Stringer("eye", eye),
		zap.Stringer("target", target),
		zap.Int("width", width),
		zap.Int("height", height))

	t, err := s.Rasterizer.Open(width, height)
	if err != nil {
		return nil, &CollaboratorError{Stage: "open", Err: err}
	}
	defer func() {
		if cerr := t.Close(); cerr != nil {
			err = multierr.Append(err, &CollaboratorError{Stage: "release", Err: cerr})
			img = nil
		}
	}()

	img, err = t.Render(shot)
	if err != nil {
		return nil, &CollaboratorError{Stage: "render", Err: err}
	}
	if sz := img.Bounds().Size(); sz.X != width || sz.Y != height {
		return nil, &CollaboratorError{Stage: "render", Err: fmt.Errorf("%w: got %dx%d, want %dx%d", ErrFrameSize, sz.X, sz.Y, width, height)}
	}
	return img, nil
}
