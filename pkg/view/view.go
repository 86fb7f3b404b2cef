// Package view synthesizes still images of a scene from camera poses.
//
// The pixels come from a Rasterizer collaborator. This package decides where
// the camera and its light go, acquires one render target per frame and
// releases it whatever the outcome. It also lays multiple frames out as a
// turntable strip.
package view

import (
	"errors"
	"fmt"
	"image"

	"github.com/Faultbox/ezrender/pkg/camera"
	"github.com/Faultbox/ezrender/pkg/math"
)

// View errors.
var (
	ErrInvalidSize       = errors.New("frame size must be positive")
	ErrConflictingCamera = errors.New("explicit eye cannot be combined with distance or azimuth")
	ErrFrameSize         = errors.New("rasterizer returned a frame of the wrong size")
	ErrNoFrames          = errors.New("no frames to compose")
)

// Shot is everything a rasterizer needs for one frame.
type Shot struct {
	Width, Height int

	// View is the world-to-camera pose; CameraPose is its explicit inverse.
	View       camera.Pose
	CameraPose math.Mat4

	// The point light shares the camera pose.
	LightPose      math.Mat4
	LightIntensity float64
}

// Eye returns the camera position of the shot.
func (s Shot) Eye() math.Vec3 {
	return s.CameraPose.Translation()
}

// Target is a render target acquired for a single frame.
type Target interface {
	Render(shot Shot) (image.Image, error)
	// Close releases the target's resources. It is called exactly once.
	Close() error
}

// Rasterizer turns scene geometry into pixels. The geometry is bound when
// the rasterizer is constructed.
type Rasterizer interface {
	Open(width, height int) (Target, error)
}

// CollaboratorError wraps a rasterizer failure with the stage it happened in.
type CollaboratorError struct {
	Stage string // "open", "render" or "release"
	Err   error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("rasterizer %s: %v", e.Stage, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }
