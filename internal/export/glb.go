// Package export writes OBJ documents to disk as OBJ text or binary glTF.
package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/ezrender/pkg/color"
	"github.com/Faultbox/ezrender/pkg/math"
	"github.com/Faultbox/ezrender/pkg/objfile"
)

// Generator is recorded in the glTF asset block.
const Generator = "ezrender"

var (
	ErrUnsupported = errors.New("unsupported output format")
	ErrNoFaces     = errors.New("document has no faces")
)

// Save writes doc to path. ".obj" is written as text with sRGB colors,
// ".glb" as binary glTF with linear COLOR_0.
func Save(doc *objfile.Document, path string, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		if err := doc.SaveFile(path, color.SRGB); err != nil {
			return err
		}
	case ".glb":
		if err := SaveGLB(doc, path); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}

	log.Info("model exported",
		zap.String("path", path),
		zap.Int("vertices", len(doc.Vertices)),
		zap.Int("faces", len(doc.Faces)))
	return nil
}

// SaveGLB writes doc as a single-mesh binary glTF file.
func SaveGLB(doc *objfile.Document, path string) error {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	gdoc, err := Build(doc, name)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := gltf.SaveBinary(gdoc, path); err != nil {
		return fmt.Errorf("writing GLB: %w", err)
	}
	return nil
}

// Build converts doc into a glTF document with one mesh named name.
// Colors are written in linear space whatever space doc is in; COLOR_0 is
// omitted when no vertex carries a color.
func Build(doc *objfile.Document, name string) (*gltf.Document, error) {
	if len(doc.Faces) == 0 {
		return nil, ErrNoFaces
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	if d, ok := color.Between(doc.Space, color.Linear); ok {
		doc = doc.Clone()
		doc.ConvertColors(d)
	}

	positions := make([][3]float32, len(doc.Vertices))
	colors := make([][4]float32, len(doc.Vertices))
	colored := false
	for i, v := range doc.Vertices {
		positions[i] = [3]float32{float32(v.Position.X), float32(v.Position.Y), float32(v.Position.Z)}
		colors[i] = [4]float32{float32(v.Color.R), float32(v.Color.G), float32(v.Color.B), 1}
		colored = colored || v.HasColor
	}

	indices := make([]uint32, 0, len(doc.Faces)*3)
	for _, f := range doc.Faces {
		for _, idx := range f.Indices() {
			indices = append(indices, uint32(idx))
		}
	}

	gdoc := gltf.NewDocument()
	gdoc.Asset.Generator = Generator

	posAccessor := modeler.WritePosition(gdoc, positions)
	normalAccessor := modeler.WriteNormal(gdoc, vertexNormals(doc))
	indicesAccessor := modeler.WriteIndices(gdoc, indices)

	prim := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION: uint32(posAccessor),
			gltf.NORMAL:   uint32(normalAccessor),
		},
		Indices:  gltf.Index(uint32(indicesAccessor)),
		Material: gltf.Index(0),
	}
	if colored {
		prim.Attributes[gltf.COLOR_0] = uint32(modeler.WriteColor(gdoc, colors))
	}

	gdoc.Materials = []*gltf.Material{{
		Name: "vertex_color",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float32{1, 1, 1, 1},
			MetallicFactor:  gltf.Float(0),
			RoughnessFactor: gltf.Float(1),
		},
		AlphaMode: gltf.AlphaOpaque,
	}}
	gdoc.Meshes = []*gltf.Mesh{{Name: name, Primitives: []*gltf.Primitive{prim}}}
	gdoc.Nodes = []*gltf.Node{{Name: name, Mesh: gltf.Index(0)}}
	gdoc.Scenes[0].Nodes = append(gdoc.Scenes[0].Nodes, uint32(0))

	return gdoc, nil
}

// vertexNormals returns area-weighted smooth normals. Vertices not used by
// any face get +Y.
func vertexNormals(doc *objfile.Document) [][3]float32 {
	acc := make([]math.Vec3, len(doc.Vertices))
	for _, f := range doc.Faces {
		i := f.Indices()
		p0 := doc.Vertices[i[0]].Position
		p1 := doc.Vertices[i[1]].Position
		p2 := doc.Vertices[i[2]].Position
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		for _, idx := range i {
			acc[idx] = acc[idx].Add(n)
		}
	}

	normals := make([][3]float32, len(acc))
	for i, n := range acc {
		if n.Length() == 0 {
			normals[i] = [3]float32{0, 1, 0}
			continue
		}
		n = n.Normalize()
		normals[i] = [3]float32{float32(n.X), float32(n.Y), float32(n.Z)}
	}
	return normals
}
