package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/ezrender/internal/config"
	"github.com/Faultbox/ezrender/internal/imageio"
	"github.com/Faultbox/ezrender/internal/logger"
	"github.com/Faultbox/ezrender/internal/scene"
	"github.com/Faultbox/ezrender/internal/softraster"
	"github.com/Faultbox/ezrender/pkg/view"
)

var errEyeAndDistance = errors.New("-eye and -distance are mutually exclusive")

func cmdRender(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	var distance, angle, intensity optionalFloat
	var eye vec3Flag
	fs.Var(&distance, "distance", "Orbit distance from the model center")
	fs.Var(&angle, "angle", "Orbit azimuth in degrees")
	fs.Var(&eye, "eye", "Camera position x,y,z")
	fs.Var(&intensity, "light-intensity", "Light intensity (auto if omitted)")
	output := fs.String("output", "", "Output image (.webp, .png or .jpg)")
	info := fs.Bool("info", false, "Print model information")

	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return errors.New("usage: ezrender render <model> [options]")
	}
	if eye.set && distance.set {
		return errEyeAndDistance
	}
	modelPath := positional[0]

	s, err := scene.Load(modelPath, logger.Named("scene"))
	if err != nil {
		return err
	}
	if *info {
		if err := s.WriteInfo(os.Stdout); err != nil {
			return err
		}
	}
	bounds, err := s.Bounds()
	if err != nil {
		return fmt.Errorf("%s: %w", modelPath, err)
	}

	raster := softraster.New(s, softraster.Options{
		FOVDegrees:    cfg.Render.FOVDegrees,
		Background:    cfg.Render.Background,
		CullBackFaces: cfg.Render.CullBackFaces,
	})
	synth := newSynthesizer(cfg, raster)

	img, err := synth.Render(bounds, view.Request{
		Width:          cfg.Render.Width,
		Height:         cfg.Render.Height,
		Eye:            eye.Ptr(),
		Distance:       distance.Ptr(),
		Azimuth:        angle.Ptr(),
		LightIntensity: intensity.Ptr(),
	})
	if err != nil {
		return err
	}

	out := *output
	if out == "" {
		out = imageio.DefaultPath(modelPath)
	}
	written, err := imageio.Save(out, img)
	if err != nil {
		return err
	}
	fmt.Println("Image saved:", written)
	return nil
}

// newSynthesizer applies the camera section of cfg to a synthesizer.
func newSynthesizer(cfg *config.Config, r view.Rasterizer) *view.Synthesizer {
	seed := cfg.Camera.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	log := logger.Named("view")
	log.Debug("camera seed", zap.Int64("seed", seed))

	synth := view.New(r, log)
	synth.Rand = rand.New(rand.NewSource(seed))
	synth.Turntable = cfg.Camera.TurntableAngles
	synth.DistanceFactor = cfg.Camera.DistanceFactor
	synth.LightFactor = cfg.Camera.LightFactor
	return synth
}

func cmdInfo(args []string) error {
	if len(args) < 1 {
		return errors.New("usage: ezrender info <model>...")
	}
	for _, path := range args {
		s, err := scene.Load(path, logger.Named("scene"))
		if err != nil {
			return err
		}
		if err := s.WriteInfo(os.Stdout); err != nil {
			return err
		}
	}
	return nil
}
