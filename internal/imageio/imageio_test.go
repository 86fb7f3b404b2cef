package imageio

import (
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/webp"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 60), G: 128, B: uint8(y * 200), A: 255})
		}
	}
	return img
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "out.png", want: "out.png"},
		{in: "out.JPG", want: "out.JPG"},
		{in: "shots/out.jpeg", want: "shots/out.jpeg"},
		{in: "render", want: "render.webp"},
		{in: "render.WebP", want: "render.WebP"},
		{in: "render.bmp", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ResolvePath(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupported) {
					t.Errorf("ResolvePath(%q) error = %v, want ErrUnsupported", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolvePath(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ResolvePath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultPath(t *testing.T) {
	if got := DefaultPath("models/chair.obj"); got != "chair.webp" {
		t.Errorf("DefaultPath() = %q, want chair.webp", got)
	}
}

func TestSavePNG(t *testing.T) {
	img := testImage()
	path, err := Save(filepath.Join(t.TempDir(), "nested", "frame.png"), img)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	decoded, err := png.Decode(f)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if got, want := color.RGBAModel.Convert(decoded.At(x, y)), img.RGBAAt(x, y); got != want {
				t.Errorf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestSaveJPEG(t *testing.T) {
	path, err := Save(filepath.Join(t.TempDir(), "frame.jpg"), testImage())
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	cfg, err := jpeg.DecodeConfig(f)
	if err != nil {
		t.Fatalf("jpeg.DecodeConfig() error = %v", err)
	}
	if cfg.Width != 4 || cfg.Height != 2 {
		t.Errorf("decoded size = %dx%d, want 4x2", cfg.Width, cfg.Height)
	}
}

func TestSaveWebP(t *testing.T) {
	img := testImage()
	path, err := Save(filepath.Join(t.TempDir(), "frame"), img)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if filepath.Ext(path) != ".webp" {
		t.Errorf("Save() path = %q, want .webp extension", path)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	decoded, err := webp.Decode(f)
	if err != nil {
		t.Fatalf("webp.Decode() error = %v", err)
	}
	if got := decoded.Bounds().Size(); got != (image.Point{X: 4, Y: 2}) {
		t.Fatalf("decoded size = %v, want 4x2", got)
	}
	// lossless: every pixel survives
	for y := 0; y < 2; y++ {
		for x := 0; x < 4; x++ {
			if got, want := color.RGBAModel.Convert(decoded.At(x, y)), img.RGBAAt(x, y); got != want {
				t.Errorf("pixel (%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}
}

func TestSaveUnsupported(t *testing.T) {
	dir := t.TempDir()
	if _, err := Save(filepath.Join(dir, "frame.bmp"), testImage()); !errors.Is(err, ErrUnsupported) {
		t.Errorf("Save(.bmp) error = %v, want ErrUnsupported", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("rejected save left %d files behind", len(entries))
	}
}
