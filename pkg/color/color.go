// Package color converts vertex colors between the sRGB transfer encoding
// and linear light.
//
// Every conversion clamps its input to [0, 1] first. Exporters occasionally
// emit values slightly outside the range from interpolation; those are not
// errors.
package color

import (
	"fmt"
	"math"
)

// Space identifies the encoding a color value is currently in.
type Space int

const (
	SRGB   Space = iota // gamma-encoded, the on-disk convention
	Linear              // linear light, the working representation
)

// String returns the space name.
func (s Space) String() string {
	switch s {
	case SRGB:
		return "sRGB"
	case Linear:
		return "linear"
	default:
		return fmt.Sprintf("Space(%d)", int(s))
	}
}

// ParseSpace accepts "srgb" or "linear".
func ParseSpace(s string) (Space, error) {
	switch s {
	case "srgb", "sRGB", "SRGB":
		return SRGB, nil
	case "linear", "Linear", "LINEAR":
		return Linear, nil
	}
	return 0, fmt.Errorf("unknown color space %q", s)
}

// Direction names a conversion.
type Direction int

const (
	ToLinearDirection Direction = iota // sRGB -> linear
	ToSRGBDirection                    // linear -> sRGB
)

// Target returns the space a value is in after converting in direction d.
func (d Direction) Target() Space {
	if d == ToSRGBDirection {
		return SRGB
	}
	return Linear
}

// String returns "sRGB->linear" or "linear->sRGB".
func (d Direction) String() string {
	if d == ToSRGBDirection {
		return "linear->sRGB"
	}
	return "sRGB->linear"
}

// Between returns the direction that takes from to to. ok is false when the
// spaces are equal and nothing has to be done.
func Between(from, to Space) (d Direction, ok bool) {
	switch {
	case from == to:
		return 0, false
	case to == Linear:
		return ToLinearDirection, true
	default:
		return ToSRGBDirection, true
	}
}

// RGB is a color sample. Which space it is in is tracked by the caller.
type RGB struct {
	R, G, B float64
}

// White is the default color of vertices without a color record.
var White = RGB{1, 1, 1}

// Clamp limits every channel to [0, 1].
func (c RGB) Clamp() RGB {
	return RGB{clamp01(c.R), clamp01(c.G), clamp01(c.B)}
}

// ToLinear converts an sRGB-encoded sample to linear light.
func ToLinear(c RGB) RGB {
	return RGB{LinearChannel(c.R), LinearChannel(c.G), LinearChannel(c.B)}
}

// ToSRGB converts a linear sample to the sRGB encoding.
func ToSRGB(c RGB) RGB {
	return RGB{SRGBChannel(c.R), SRGBChannel(c.G), SRGBChannel(c.B)}
}

// Convert applies the conversion named by d.
func Convert(c RGB, d Direction) RGB {
	if d == ToSRGBDirection {
		return ToSRGB(c)
	}
	return ToLinear(c)
}

// LinearChannel decodes one sRGB channel value.
func LinearChannel(c float64) float64 {
	c = clamp01(c)
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

// SRGBChannel encodes one linear channel value.
func SRGBChannel(c float64) float64 {
	c = clamp01(c)
	if c <= 0.0031308 {
		return c * 12.92
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}

func clamp01(v float64) float64 {
	// NaN compares false both ways and would leak through; map it to 0.
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
