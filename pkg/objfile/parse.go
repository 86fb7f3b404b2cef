package objfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/ezrender/pkg/color"
	"github.com/Faultbox/ezrender/pkg/math"
)

// maxLineSize bounds a single OBJ line.
const maxLineSize = 16 << 20

// pendingCorner is a positive face index checked once all vertices are known.
type pendingCorner struct {
	line  int
	face  int
	slot  int
	index int
}

// Parse reads an OBJ document. Colors are taken to be sRGB-encoded, the
// on-disk convention. Parsing is all-or-nothing: on error no document is
// returned.
func Parse(r io.Reader) (*Document, error) {
	doc := &Document{Space: color.SRGB}
	var pending []pendingCorner

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		text := scanner.Text()
		fields := strings.Fields(text)

		if len(fields) == 0 {
			doc.AddOpaque(text)
			continue
		}

		switch fields[0] {
		case "v":
			v, err := parseVertex(fields)
			if err != nil {
				return nil, &FormatError{Line: lineNo, Text: text, Reason: err.Error()}
			}
			doc.Vertices = append(doc.Vertices, v)
			doc.Lines = append(doc.Lines, Line{Kind: LineVertex, Index: len(doc.Vertices) - 1})

		case "f":
			corners, err := parseCorners(fields[1:], lineNo, text, len(doc.Vertices))
			if err != nil {
				return nil, err
			}
			first := len(doc.Faces)
			// Fan triangulation from the first corner.
			for i := 1; i+1 < len(corners); i++ {
				doc.Faces = append(doc.Faces, Face{corners[0], corners[i], corners[i+1]})
			}
			for i := first; i < len(doc.Faces); i++ {
				for slot, c := range doc.Faces[i] {
					if c.Index >= len(doc.Vertices) {
						pending = append(pending, pendingCorner{line: lineNo, face: i, slot: slot, index: c.Index})
					}
				}
			}
			doc.Lines = append(doc.Lines, Line{Kind: LineFace, Index: first, Count: len(doc.Faces) - first})

		default:
			doc.AddOpaque(text)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	// Forward references are legal as long as the vertex exists by EOF.
	for _, p := range pending {
		if p.index >= len(doc.Vertices) {
			return nil, &RangeError{Line: p.line, Index: p.index + 1, Count: len(doc.Vertices)}
		}
	}

	return doc, nil
}

// ParseBytes parses an in-memory OBJ document.
func ParseBytes(data []byte) (*Document, error) {
	return Parse(bytes.NewReader(data))
}

// ParseFile parses the OBJ file at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening OBJ file: %w", err)
	}
	defer f.Close()

	doc, err := Parse(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// LoadFile parses path and converts its colors into space.
func LoadFile(path string, space color.Space) (*Document, error) {
	doc, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	if d, ok := color.Between(doc.Space, space); ok {
		doc.ConvertColors(d)
	}
	return doc, nil
}

// parseVertex handles "v x y z" and "v x y z r g b". Any other token count
// keeps the position and carries the remaining tokens as Extra.
func parseVertex(fields []string) (Vertex, error) {
	if len(fields) < 4 {
		return Vertex{}, fmt.Errorf("vertex needs 3 coordinates, got %d", len(fields)-1)
	}

	var xyz [3]float64
	for i := range xyz {
		f, err := strconv.ParseFloat(fields[1+i], 64)
		if err != nil {
			return Vertex{}, fmt.Errorf("bad coordinate %q", fields[1+i])
		}
		xyz[i] = f
	}

	v := Vertex{
		Position: math.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]},
		Color:    color.White,
	}

	switch len(fields) {
	case 4:
	case 7:
		var rgb [3]float64
		for i := range rgb {
			f, err := strconv.ParseFloat(fields[4+i], 64)
			if err != nil {
				return Vertex{}, fmt.Errorf("bad color channel %q", fields[4+i])
			}
			rgb[i] = f
		}
		v.Color = color.RGB{R: rgb[0], G: rgb[1], B: rgb[2]}
		v.HasColor = true
	default:
		v.Extra = append([]string(nil), fields[4:]...)
	}
	return v, nil
}

// parseCorners resolves face tokens ("7", "7/2", "7//3", "-1/4/4") to
// 0-based corners. Negative indices are relative to the vertices read so
// far; positive ones are range-checked by the caller at end of file.
func parseCorners(tokens []string, lineNo int, text string, seen int) ([]Corner, error) {
	if len(tokens) < 3 {
		return nil, &FormatError{Line: lineNo, Text: text, Reason: fmt.Sprintf("face needs 3 corners, got %d", len(tokens))}
	}

	corners := make([]Corner, len(tokens))
	for i, tok := range tokens {
		lead, aux := tok, ""
		if slash := strings.IndexByte(tok, '/'); slash >= 0 {
			lead, aux = tok[:slash], tok[slash:]
		}

		n, err := strconv.Atoi(lead)
		if err != nil {
			return nil, &FormatError{Line: lineNo, Text: text, Reason: fmt.Sprintf("bad face index %q", tok)}
		}

		var idx int
		switch {
		case n > 0:
			idx = n - 1
		case n < 0:
			idx = seen + n
			if idx < 0 {
				return nil, &RangeError{Line: lineNo, Index: n, Count: seen}
			}
		default:
			return nil, &RangeError{Line: lineNo, Index: n, Count: seen}
		}
		corners[i] = Corner{Index: idx, Aux: aux}
	}
	return corners, nil
}
