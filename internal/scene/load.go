package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/ezrender/pkg/color"
	"github.com/Faultbox/ezrender/pkg/objfile"
)

// Load reads a model file, choosing the loader by extension. Supported
// formats are .obj (sRGB vertex colors) and .glb/.gltf (linear COLOR_0).
func Load(path string, log *zap.Logger) (*Scene, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var (
		s   *Scene
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		s, err = loadOBJ(path)
	case ".glb", ".gltf":
		s, err = loadGLTF(path, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	if err != nil {
		return nil, err
	}

	for _, m := range s.Meshes {
		if err := m.validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	log.Debug("scene loaded",
		zap.String("path", path),
		zap.Int("meshes", len(s.Meshes)))
	return s, nil
}

func loadOBJ(path string) (*Scene, error) {
	doc, err := objfile.LoadFile(path, color.Linear)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return &Scene{Path: path, Meshes: []*Mesh{FromDocument(name, doc)}}, nil
}
