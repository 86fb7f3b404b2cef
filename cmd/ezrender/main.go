// ezrender renders still images of vertex-colored 3D models and converts
// OBJ files between sRGB and linear vertex colors.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/ezrender/internal/config"
	"github.com/Faultbox/ezrender/internal/logger"
)

func main() {
	config.ParseFlags()
	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	if command == "help" || command == "-h" || command == "--help" {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: initializing logger: %v\n", err)
		os.Exit(1)
	}

	logger.Debug("running command", zap.String("command", command), zap.Strings("args", args))

	switch command {
	case "render":
		err = cmdRender(cfg, args)
	case "info":
		err = cmdInfo(args)
	case "srgb2lin":
		err = cmdSRGB2Lin(args)
	case "fix":
		err = cmdFix(cfg, args, false)
	case "obj2glb":
		err = cmdFix(cfg, args, true)
	case "config":
		err = cmdConfig(cfg, args)
	default:
		logger.Warn("unknown command", zap.String("command", command))
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Sync()
}

func printUsage() {
	fmt.Println(`ezrender - render and convert vertex-colored 3D models

Usage:
  ezrender [global options] <command> [options]

Global options:
  -config <file>    Config file (default ./ezrender.yaml or user config dir)
  -debug            Enable debug logging
  -log-file <file>  Also write logs to a rotated file
  -size WxH         Frame size (default 512x512)
  -seed <n>         Seed for random camera azimuths (default time-based)

Commands:
  render <model> [options]           Render a .obj/.glb model to an image
      -distance <d>                  Orbit distance from the model center
      -angle <deg>                   Orbit azimuth in degrees
      -eye x,y,z                     Explicit camera position
      -light-intensity <i>           Light intensity (auto if omitted)
      -output <file>                 Output .webp (default), .png or .jpg
      -info                          Print model information first
  info <model>...                    Show mesh statistics
  srgb2lin <in.obj> <out.obj>        Convert vertex colors sRGB -> linear
      -reverse                       Convert linear -> sRGB instead
  fix <in.obj> -o <out.obj|out.glb>  Linearize colors and mirror on X
      -no-flip                       Skip the mirror
  obj2glb <in.obj> -o <out.glb>      Same as fix, GLB output only
  config                             Print the effective configuration
      -save                          Write it to the user config directory
      -o <file>                      Write it to a file

Without -distance, -angle or -eye, render produces a four-view turntable
strip (0, 90, 180 and 270 degrees).

Examples:
  ezrender render chair.obj
  ezrender -size 1024x768 render chair.glb -angle 45 -output chair.jpg
  ezrender srgb2lin scan.obj scan_linear.obj
  ezrender obj2glb scan.obj -o scan.glb`)
}
