package view

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"
)

// Compose lays frames of size width x height side by side. Frame k covers
// columns [k*width, (k+1)*width).
func Compose(frames []image.Image, width, height int) (*image.RGBA, error) {
	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	strip := image.NewRGBA(image.Rect(0, 0, width*len(frames), height))
	for k, f := range frames {
		b := f.Bounds()
		if b.Dx() != width || b.Dy() != height {
			return nil, fmt.Errorf("%w: frame %d is %dx%d, want %dx%d", ErrFrameSize, k, b.Dx(), b.Dy(), width, height)
		}
		dst := image.Rect(k*width, 0, (k+1)*width, height)
		draw.Draw(strip, dst, f, b.Min, draw.Src)
	}
	return strip, nil
}
