// Package objfile reads and writes vertex-colored Wavefront OBJ text.
//
// A Document keeps every input line in order as a tagged Line: vertex and
// face records are parsed into Vertices and Faces, anything else is kept as
// opaque text and written back unchanged. Colors are stored in whatever
// space Document.Space says; the package never guesses it.
package objfile

import (
	"errors"
	"fmt"

	"github.com/Faultbox/ezrender/pkg/color"
	"github.com/Faultbox/ezrender/pkg/math"
)

// OBJ format errors.
var (
	ErrFormat = errors.New("malformed OBJ record")
	ErrRange  = errors.New("face index out of range")
)

// FormatError reports a record that is too short or has an unparseable
// numeric field.
type FormatError struct {
	Line   int    // 1-based line number
	Text   string // offending line
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Reason, e.Text)
}

func (e *FormatError) Unwrap() error { return ErrFormat }

// RangeError reports a face corner that does not resolve to a vertex.
// It matches both ErrRange and ErrFormat.
type RangeError struct {
	Line  int // 1-based line number
	Index int // index as written in the file
	Count int // number of vertices it was checked against
}

func (e *RangeError) Error() string {
	msg := fmt.Sprintf("face index %d outside 1..%d", e.Index, e.Count)
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, msg)
	}
	return msg
}

func (e *RangeError) Unwrap() []error { return []error{ErrRange, ErrFormat} }

// LineKind tags a Document line.
type LineKind int

const (
	LineVertex LineKind = iota // "v" record
	LineFace                   // "f" record
	LineOpaque                 // anything else, kept verbatim
)

// String returns a human-readable kind name.
func (k LineKind) String() string {
	switch k {
	case LineVertex:
		return "Vertex"
	case LineFace:
		return "Face"
	case LineOpaque:
		return "Opaque"
	default:
		return fmt.Sprintf("LineKind(%d)", int(k))
	}
}

// Line is one record of the document in file order.
type Line struct {
	Kind LineKind

	// Index is the vertex index (LineVertex) or the first face index
	// (LineFace). Count is the number of triangles a face record produced.
	Index int
	Count int

	// Text holds the raw line for LineOpaque, without the line terminator.
	Text string
}

// Vertex is a position with a color. Vertices read without a color record
// are white and have HasColor unset.
type Vertex struct {
	Position math.Vec3
	Color    color.RGB
	HasColor bool

	// Extra holds the tokens after the position on vertex lines that are
	// not position+color. They are written back verbatim.
	Extra []string
}

// Corner is one face corner: a 0-based vertex index plus the auxiliary
// texture/normal references exactly as written ("", "/3", "/3/7", "//7").
type Corner struct {
	Index int
	Aux   string
}

// Face is a triangle. Corner order is the winding order.
type Face [3]Corner

// Indices returns the vertex indices of the face.
func (f Face) Indices() [3]int {
	return [3]int{f[0].Index, f[1].Index, f[2].Index}
}

// Tri builds a face from three vertex indices without auxiliary references.
func Tri(a, b, c int) Face {
	return Face{{Index: a}, {Index: b}, {Index: c}}
}

// Document is a parsed OBJ file.
type Document struct {
	Vertices []Vertex
	Faces    []Face
	Lines    []Line

	// Space is the color space Vertices' colors are currently in.
	Space color.Space
}

// New returns an empty document whose colors are in space.
func New(space color.Space) *Document {
	return &Document{Space: space}
}

// AddVertex appends a colored vertex and returns its index.
func (d *Document) AddVertex(p math.Vec3, c color.RGB) int {
	d.Vertices = append(d.Vertices, Vertex{Position: p, Color: c, HasColor: true})
	idx := len(d.Vertices) - 1
	d.Lines = append(d.Lines, Line{Kind: LineVertex, Index: idx})
	return idx
}

// AddFace appends a triangle. Indices are not validated until Validate.
func (d *Document) AddFace(f Face) {
	d.Faces = append(d.Faces, f)
	d.Lines = append(d.Lines, Line{Kind: LineFace, Index: len(d.Faces) - 1, Count: 1})
}

// AddOpaque appends a pass-through line.
func (d *Document) AddOpaque(text string) {
	d.Lines = append(d.Lines, Line{Kind: LineOpaque, Text: text})
}

// Validate checks that every face corner references an existing vertex.
func (d *Document) Validate() error {
	n := len(d.Vertices)
	for i, f := range d.Faces {
		for _, c := range f {
			if c.Index < 0 || c.Index >= n {
				return fmt.Errorf("face %d: %w", i, &RangeError{Index: c.Index + 1, Count: n})
			}
		}
	}
	return nil
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	out := &Document{
		Vertices: make([]Vertex, len(d.Vertices)),
		Faces:    append([]Face(nil), d.Faces...),
		Lines:    append([]Line(nil), d.Lines...),
		Space:    d.Space,
	}
	for i, v := range d.Vertices {
		if v.Extra != nil {
			v.Extra = append([]string(nil), v.Extra...)
		}
		out.Vertices[i] = v
	}
	return out
}

// Triangles returns the vertex indices of every face.
func (d *Document) Triangles() [][3]int {
	tris := make([][3]int, len(d.Faces))
	for i, f := range d.Faces {
		tris[i] = f.Indices()
	}
	return tris
}

// Extent returns the axis-aligned bounding box of the vertex positions.
// ok is false for a document without vertices.
func (d *Document) Extent() (lo, hi math.Vec3, ok bool) {
	if len(d.Vertices) == 0 {
		return lo, hi, false
	}
	lo, hi = d.Vertices[0].Position, d.Vertices[0].Position
	for _, v := range d.Vertices[1:] {
		lo = lo.Min(v.Position)
		hi = hi.Max(v.Position)
	}
	return lo, hi, true
}
