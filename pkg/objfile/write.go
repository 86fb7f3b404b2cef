package objfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	gomath "math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/Faultbox/ezrender/pkg/color"
)

// Decimals is the fixed-point precision of written coordinates and colors.
const Decimals = 6

// roundsToZero is the magnitude below which a value prints as zero.
const roundsToZero = 0.5e-6

// Write emits the document with colors in space. When space differs from
// d.Space colors are converted on the way out; d is not modified.
//
// Lines are written in document order. Vertices and faces that no Line
// refers to, such as records appended to the slices directly, follow at the
// end: vertices first, then faces. A document without Lines is written as
// all vertices then all faces.
func (d *Document) Write(w io.Writer, space color.Space) error {
	dir, convert := color.Between(d.Space, space)

	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 128)

	writeVertex := func(i int) {
		v := d.Vertices[i]
		buf = append(buf[:0], 'v')
		buf = appendCoord(buf, v.Position.X)
		buf = appendCoord(buf, v.Position.Y)
		buf = appendCoord(buf, v.Position.Z)
		if v.HasColor {
			c := v.Color
			if convert {
				c = color.Convert(c, dir)
			}
			buf = appendCoord(buf, c.R)
			buf = appendCoord(buf, c.G)
			buf = appendCoord(buf, c.B)
		} else {
			for _, tok := range v.Extra {
				buf = append(buf, ' ')
				buf = append(buf, tok...)
			}
		}
		buf = append(buf, '\n')
		bw.Write(buf)
	}

	writeFace := func(i int) {
		buf = append(buf[:0], 'f')
		for _, c := range d.Faces[i] {
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(c.Index+1), 10)
			buf = append(buf, c.Aux...)
		}
		buf = append(buf, '\n')
		bw.Write(buf)
	}

	vertexDone := make([]bool, len(d.Vertices))
	faceDone := make([]bool, len(d.Faces))

	for _, line := range d.Lines {
		switch line.Kind {
		case LineVertex:
			if line.Index < len(d.Vertices) {
				writeVertex(line.Index)
				vertexDone[line.Index] = true
			}
		case LineFace:
			for i := line.Index; i < line.Index+line.Count && i < len(d.Faces); i++ {
				writeFace(i)
				faceDone[i] = true
			}
		default:
			bw.WriteString(line.Text)
			bw.WriteByte('\n')
		}
	}

	for i, done := range vertexDone {
		if !done {
			writeVertex(i)
		}
	}
	for i, done := range faceDone {
		if !done {
			writeFace(i)
		}
	}
	return bw.Flush()
}

// Serialize returns the document text with colors in space.
func (d *Document) Serialize(space color.Space) []byte {
	var buf bytes.Buffer
	// Writes to a bytes.Buffer cannot fail.
	_ = d.Write(&buf, space)
	return buf.Bytes()
}

// SaveFile writes the document to path with colors in space. The file is
// only replaced once the full text has been produced.
func (d *Document) SaveFile(path string, space color.Space) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, d.Serialize(space), 0644); err != nil {
		return fmt.Errorf("writing OBJ file: %w", err)
	}
	return nil
}

func appendCoord(buf []byte, v float64) []byte {
	if gomath.Abs(v) < roundsToZero {
		v = 0 // no "-0.000000"
	}
	buf = append(buf, ' ')
	return strconv.AppendFloat(buf, v, 'f', Decimals, 64)
}
