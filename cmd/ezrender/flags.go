package main

import (
	"errors"
	"flag"
	"fmt"
	gomath "math"
	"strconv"
	"strings"

	"github.com/Faultbox/ezrender/pkg/math"
)

var errNotFinite = errors.New("value must be finite")

// parseFinite parses a float and rejects NaN and infinities.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if gomath.IsNaN(v) || gomath.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", errNotFinite, s)
	}
	return v, nil
}

// optionalFloat is a float flag that records whether it was given.
type optionalFloat struct {
	set   bool
	value float64
}

func (f *optionalFloat) String() string {
	if !f.set {
		return ""
	}
	return strconv.FormatFloat(f.value, 'g', -1, 64)
}

func (f *optionalFloat) Set(s string) error {
	v, err := parseFinite(s)
	if err != nil {
		return err
	}
	f.set, f.value = true, v
	return nil
}

// Ptr returns nil when the flag was not given.
func (f *optionalFloat) Ptr() *float64 {
	if !f.set {
		return nil
	}
	v := f.value
	return &v
}

// vec3Flag parses "x,y,z".
type vec3Flag struct {
	set   bool
	value math.Vec3
}

func (f *vec3Flag) String() string {
	if !f.set {
		return ""
	}
	return fmt.Sprintf("%g,%g,%g", f.value.X, f.value.Y, f.value.Z)
}

func (f *vec3Flag) Set(s string) error {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return fmt.Errorf("want x,y,z, got %q", s)
	}
	var xyz [3]float64
	for i, p := range parts {
		v, err := parseFinite(p)
		if err != nil {
			return fmt.Errorf("bad coordinate %q: %w", p, err)
		}
		xyz[i] = v
	}
	f.set = true
	f.value = math.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}
	return nil
}

// Ptr returns nil when the flag was not given.
func (f *vec3Flag) Ptr() *math.Vec3 {
	if !f.set {
		return nil
	}
	v := f.value
	return &v
}

// parseArgs parses fs allowing flags before and after positional arguments,
// and returns the positional arguments in order.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		rest := fs.Args()
		if len(rest) == 0 {
			return positional, nil
		}
		positional = append(positional, rest[0])
		args = rest[1:]
	}
}
