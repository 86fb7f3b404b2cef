package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile = flag.String("log-file", "", "Write logs to this file as well")
	flagSize    = flag.String("size", "", "Output image size as WIDTHxHEIGHT")
	flagSeed    = flag.Int64("seed", 0, "Seed for random camera azimuths")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the arguments left after the global flags.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// ParseSize parses a "WIDTHxHEIGHT" string such as "1024x768".
func ParseSize(s string) (width, height int, err error) {
	w, h, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("%w: size %q is not WIDTHxHEIGHT", ErrInvalid, s)
	}
	if width, err = strconv.Atoi(w); err != nil {
		return 0, 0, fmt.Errorf("%w: size %q: bad width", ErrInvalid, s)
	}
	if height, err = strconv.Atoi(h); err != nil {
		return 0, 0, fmt.Errorf("%w: size %q: bad height", ErrInvalid, s)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("%w: size %q must be positive", ErrInvalid, s)
	}
	return width, height, nil
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagSize != "" {
		w, h, err := ParseSize(*flagSize)
		if err != nil {
			return err
		}
		cfg.Render.Width = w
		cfg.Render.Height = h
	}
	if *flagSeed != 0 {
		cfg.Camera.Seed = *flagSeed
	}
	return nil
}
