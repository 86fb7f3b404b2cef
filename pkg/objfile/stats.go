package objfile

import "strings"

// Stats summarizes a document for model info output.
type Stats struct {
	Vertices int
	Faces    int
	Colored  int  // vertices with a color record
	HasUV    bool // at least one "vt" record
	Opaque   int  // pass-through lines
}

// ColorAttribution describes how the mesh is colored.
func (s Stats) ColorAttribution() string {
	switch {
	case s.Colored == 0:
		return "None"
	case s.Colored < s.Vertices:
		return "Vertex Color (RGB, partial)"
	default:
		return "Vertex Color (RGB)"
	}
}

// Stats counts the document's records.
func (d *Document) Stats() Stats {
	s := Stats{Vertices: len(d.Vertices), Faces: len(d.Faces)}
	for _, v := range d.Vertices {
		if v.HasColor {
			s.Colored++
		}
	}
	for _, l := range d.Lines {
		if l.Kind != LineOpaque {
			continue
		}
		s.Opaque++
		if strings.HasPrefix(strings.TrimSpace(l.Text), "vt ") {
			s.HasUV = true
		}
	}
	return s
}
