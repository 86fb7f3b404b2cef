package scene

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/ezrender/pkg/color"
	"github.com/Faultbox/ezrender/pkg/math"
)

// loadGLTF reads every triangle primitive of a glTF document as one mesh.
// Node transforms are not applied; positions are taken in mesh space.
func loadGLTF(path string, log *zap.Logger) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening glTF file: %w", err)
	}

	s := &Scene{Path: path}
	for mi, gm := range doc.Meshes {
		name := gm.Name
		if name == "" {
			name = fmt.Sprintf("mesh%d", mi)
		}
		for pi, prim := range gm.Primitives {
			primName := name
			if len(gm.Primitives) > 1 {
				primName = fmt.Sprintf("%s.%d", name, pi)
			}
			if prim.Mode != gltf.PrimitiveTriangles {
				log.Warn("skipping non-triangle primitive",
					zap.String("mesh", primName),
					zap.Int("mode", int(prim.Mode)))
				continue
			}
			m, err := readPrimitive(doc, primName, prim)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			if m == nil {
				log.Warn("skipping primitive without positions", zap.String("mesh", primName))
				continue
			}
			s.Meshes = append(s.Meshes, m)
		}
	}
	return s, nil
}

func accessor(doc *gltf.Document, idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(doc.Accessors) {
		return nil, fmt.Errorf("%w: accessor %d out of range (%d accessors)", ErrMesh, idx, len(doc.Accessors))
	}
	return doc.Accessors[idx], nil
}

func readPrimitive(doc *gltf.Document, name string, prim *gltf.Primitive) (*Mesh, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}
	acr, err := accessor(doc, posIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: reading positions: %w", name, err)
	}

	m := &Mesh{Name: name, Positions: make([]math.Vec3, len(positions))}
	for i, p := range positions {
		m.Positions[i] = math.Vec3{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
	}

	if prim.Indices != nil {
		acr, err := accessor(doc, *prim.Indices)
		if err != nil {
			return nil, err
		}
		if m.Indices, err = modeler.ReadIndices(doc, acr, nil); err != nil {
			return nil, fmt.Errorf("%s: reading indices: %w", name, err)
		}
	} else {
		m.Indices = make([]uint32, len(positions))
		for i := range m.Indices {
			m.Indices[i] = uint32(i)
		}
	}

	if colIdx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		acr, err := accessor(doc, colIdx)
		if err != nil {
			return nil, err
		}
		if m.Colors, err = readColors(doc, acr); err != nil {
			return nil, fmt.Errorf("%s: reading colors: %w", name, err)
		}
		m.Colored = len(m.Colors)
	}

	_, m.HasUV = prim.Attributes[gltf.TEXCOORD_0]
	return m, nil
}

// readColors returns COLOR_0 as linear RGB. glTF vertex colors are linear
// already; normalized integer components are scaled to [0, 1].
func readColors(doc *gltf.Document, acr *gltf.Accessor) ([]color.RGB, error) {
	data, err := modeler.ReadAccessor(doc, acr, nil)
	if err != nil {
		return nil, err
	}

	var out []color.RGB
	switch v := data.(type) {
	case [][4]float32:
		out = make([]color.RGB, len(v))
		for i, c := range v {
			out[i] = color.RGB{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}
		}
	case [][3]float32:
		out = make([]color.RGB, len(v))
		for i, c := range v {
			out[i] = color.RGB{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}
		}
	case [][4]uint8:
		out = make([]color.RGB, len(v))
		for i, c := range v {
			out[i] = color.RGB{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
		}
	case [][3]uint8:
		out = make([]color.RGB, len(v))
		for i, c := range v {
			out[i] = color.RGB{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
		}
	case [][4]uint16:
		out = make([]color.RGB, len(v))
		for i, c := range v {
			out[i] = color.RGB{R: float64(c[0]) / 65535, G: float64(c[1]) / 65535, B: float64(c[2]) / 65535}
		}
	case [][3]uint16:
		out = make([]color.RGB, len(v))
		for i, c := range v {
			out[i] = color.RGB{R: float64(c[0]) / 65535, G: float64(c[1]) / 65535, B: float64(c[2]) / 65535}
		}
	default:
		return nil, fmt.Errorf("%w: COLOR_0 data %T", ErrMesh, data)
	}
	return out, nil
}
