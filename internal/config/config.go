// Package config handles ezrender configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned by Validate for settings that cannot be rendered.
var ErrInvalid = errors.New("invalid config")

// Config holds all tool settings.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Camera  CameraConfig  `yaml:"camera"`
	Convert ConvertConfig `yaml:"convert"`
	Logging LoggingConfig `yaml:"logging"`
}

// RenderConfig holds output image and rasterizer settings.
type RenderConfig struct {
	Width         int        `yaml:"width"`
	Height        int        `yaml:"height"`
	FOVDegrees    float64    `yaml:"fov_degrees"`
	Background    [4]float64 `yaml:"background"` // linear RGBA
	CullBackFaces bool       `yaml:"cull_back_faces"`
}

// CameraConfig holds view placement settings.
type CameraConfig struct {
	DistanceFactor  float64   `yaml:"distance_factor"`  // auto distance = factor * scale
	TurntableAngles []float64 `yaml:"turntable_angles"` // degrees
	LightFactor     float64   `yaml:"light_factor"`     // auto intensity = factor * scale
	Seed            int64     `yaml:"seed"`             // 0 picks a time-based seed
}

// ConvertConfig holds settings for the fix pipeline.
type ConvertConfig struct {
	Mirror bool `yaml:"mirror"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Render: RenderConfig{
			Width:         512,
			Height:        512,
			FOVDegrees:    30,
			Background:    [4]float64{0.5, 0.5, 0.5, 1},
			CullBackFaces: true,
		},
		Camera: CameraConfig{
			DistanceFactor:  2.0,
			TurntableAngles: []float64{0, 90, 180, 270},
			LightFactor:     10.0,
			Seed:            0,
		},
		Convert: ConvertConfig{
			Mirror: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	switch {
	case c.Render.Width <= 0 || c.Render.Height <= 0:
		return fmt.Errorf("%w: render size %dx%d", ErrInvalid, c.Render.Width, c.Render.Height)
	case c.Render.FOVDegrees <= 0 || c.Render.FOVDegrees >= 180:
		return fmt.Errorf("%w: fov_degrees %g outside (0, 180)", ErrInvalid, c.Render.FOVDegrees)
	case c.Camera.DistanceFactor <= 0:
		return fmt.Errorf("%w: distance_factor %g must be positive", ErrInvalid, c.Camera.DistanceFactor)
	case c.Camera.LightFactor <= 0:
		return fmt.Errorf("%w: light_factor %g must be positive", ErrInvalid, c.Camera.LightFactor)
	case len(c.Camera.TurntableAngles) == 0:
		return fmt.Errorf("%w: turntable_angles is empty", ErrInvalid)
	}
	return nil
}
