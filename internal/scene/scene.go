// Package scene loads model files into triangle meshes for rendering and
// model info output.
package scene

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/Faultbox/ezrender/pkg/camera"
	"github.com/Faultbox/ezrender/pkg/color"
	"github.com/Faultbox/ezrender/pkg/math"
	"github.com/Faultbox/ezrender/pkg/objfile"
)

var (
	ErrUnsupported = errors.New("unsupported model format")
	ErrEmpty       = errors.New("scene has no geometry")
	ErrMesh        = errors.New("malformed mesh")
)

// Mesh is an indexed triangle list with optional linear vertex colors.
type Mesh struct {
	Name      string
	Positions []math.Vec3
	Colors    []color.RGB // linear, one per position; nil when uncolored
	Indices   []uint32    // three per triangle
	Colored   int         // vertices that carried an authored color
	HasUV     bool
}

// Triangles returns the number of triangles.
func (m *Mesh) Triangles() int {
	return len(m.Indices) / 3
}

// ColorAttribution describes how the mesh is colored.
func (m *Mesh) ColorAttribution() string {
	return objfile.Stats{Vertices: len(m.Positions), Colored: m.Colored}.ColorAttribution()
}

// Color returns the linear color of vertex i, white for uncolored meshes.
func (m *Mesh) Color(i uint32) color.RGB {
	if m.Colors == nil {
		return color.White
	}
	return m.Colors[i]
}

// validate checks the index list against the vertex count.
func (m *Mesh) validate() error {
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: %s: %d indices is not a triangle list", ErrMesh, m.Name, len(m.Indices))
	}
	if m.Colors != nil && len(m.Colors) != len(m.Positions) {
		return fmt.Errorf("%w: %s: %d colors for %d positions", ErrMesh, m.Name, len(m.Colors), len(m.Positions))
	}
	for _, idx := range m.Indices {
		if int(idx) >= len(m.Positions) {
			return fmt.Errorf("%w: %s: index %d out of range (%d vertices)", ErrMesh, m.Name, idx, len(m.Positions))
		}
	}
	return nil
}

// Scene is the set of meshes loaded from one model file.
type Scene struct {
	Path   string
	Meshes []*Mesh
}

// Extent returns the bounding box of every mesh position.
func (s *Scene) Extent() (lo, hi math.Vec3, ok bool) {
	for _, m := range s.Meshes {
		for _, p := range m.Positions {
			if !ok {
				lo, hi, ok = p, p, true
				continue
			}
			lo = lo.Min(p)
			hi = hi.Max(p)
		}
	}
	return lo, hi, ok
}

// Bounds returns the framing bounds of the scene.
func (s *Scene) Bounds() (camera.Bounds, error) {
	lo, hi, ok := s.Extent()
	if !ok {
		return camera.Bounds{}, ErrEmpty
	}
	return camera.BoundsFromExtent(lo, hi), nil
}

// FromDocument builds a mesh from an OBJ document, converting its colors to
// linear space first when needed. The document is not modified.
func FromDocument(name string, doc *objfile.Document) *Mesh {
	if d, ok := color.Between(doc.Space, color.Linear); ok {
		doc = doc.Clone()
		doc.ConvertColors(d)
	}

	stats := doc.Stats()
	m := &Mesh{
		Name:      name,
		Positions: make([]math.Vec3, len(doc.Vertices)),
		Indices:   make([]uint32, 0, len(doc.Faces)*3),
		Colored:   stats.Colored,
		HasUV:     stats.HasUV,
	}
	if stats.Colored > 0 {
		m.Colors = make([]color.RGB, len(doc.Vertices))
	}
	for i, v := range doc.Vertices {
		m.Positions[i] = v.Position
		if m.Colors != nil {
			m.Colors[i] = v.Color
		}
	}
	for _, f := range doc.Faces {
		for _, idx := range f.Indices() {
			m.Indices = append(m.Indices, uint32(idx))
		}
	}
	return m
}

// WriteInfo prints a grid table with one row per mesh: vertices, faces,
// color attribution and UV presence.
func (s *Scene) WriteInfo(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Model Information (Total Meshes: %d)\n\n", len(s.Meshes)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Mesh", "Vertices", "Faces", "Color Attribution", "UV Mapping"})
	table.SetAutoFormatHeaders(false)
	table.SetRowLine(true)
	for _, m := range s.Meshes {
		uv := "No"
		if m.HasUV {
			uv = "Yes"
		}
		table.Append([]string{
			m.Name,
			strconv.Itoa(len(m.Positions)),
			strconv.Itoa(m.Triangles()),
			m.ColorAttribution(),
			uv,
		})
	}
	table.Render()
	return nil
}
