// Package imageio writes rendered images to disk.
package imageio

import (
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
)

// JPEGQuality is the encoder quality used for .jpg output.
const JPEGQuality = 92

// ErrUnsupported is returned for image formats that have no encoder.
var ErrUnsupported = errors.New("unsupported image format")

// DefaultExt is appended to output paths that have no extension.
const DefaultExt = ".webp"

// ResolvePath returns the path an image will be written to. A path without
// an extension gets DefaultExt.
func ResolvePath(path string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case "":
		return path + DefaultExt, nil
	case ".webp", ".png", ".jpg", ".jpeg":
		return path, nil
	default:
		return "", fmt.Errorf("%w: %q (use .webp, .png or .jpg)", ErrUnsupported, ext)
	}
}

// DefaultPath names the render of a model file: the model's base name with
// DefaultExt, in the current directory.
func DefaultPath(modelPath string) string {
	base := filepath.Base(modelPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + DefaultExt
}

// Save encodes img by the extension of path and returns the path written.
func Save(path string, img image.Image) (string, error) {
	path, err := ResolvePath(path)
	if err != nil {
		return "", err
	}

	// Create output directory if needed
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		// lossless VP8L
		err = nativewebp.Encode(file, img, nil)
	case ".png":
		err = png.Encode(file, img)
	default:
		err = jpeg.Encode(file, img, &jpeg.Options{Quality: JPEGQuality})
	}
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", path, err)
	}
	return path, nil
}
