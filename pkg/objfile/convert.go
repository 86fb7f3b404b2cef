package objfile

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Faultbox/ezrender/pkg/color"
)

// ConvertColors converts every vertex color in place and sets d.Space to
// the direction's target.
//
// The current space is not consulted: converting twice in the same
// direction applies the transfer function twice. Callers track the space.
// Vertices without a color record are left white.
func (d *Document) ConvertColors(dir color.Direction) {
	for i := range d.Vertices {
		v := &d.Vertices[i]
		if !v.HasColor {
			continue
		}
		v.Color = color.Convert(v.Color, dir)
	}
	d.Space = dir.Target()
}

// Recolor copies OBJ text from r to w, converting the color of every
// "v x y z r g b" line. Position tokens are kept as written and colors are
// written with Decimals places. All other lines, including vertex lines
// with a different token count or unparseable colors, are copied byte for
// byte. Nothing is written to w unless all of r could be read.
//
// It returns the number of converted vertex lines.
func Recolor(r io.Reader, w io.Writer, dir color.Direction) (int, error) {
	br := bufio.NewReader(r)
	var out bytes.Buffer
	converted := 0

	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if rewritten, ok := recolorLine(line, dir); ok {
				out.WriteString(rewritten)
				converted++
			} else {
				out.WriteString(line)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("reading OBJ: %w", err)
		}
	}

	if _, err := w.Write(out.Bytes()); err != nil {
		return 0, fmt.Errorf("writing OBJ: %w", err)
	}
	return converted, nil
}

func recolorLine(line string, dir color.Direction) (string, bool) {
	if !strings.HasPrefix(line, "v ") {
		return "", false
	}
	body, term := splitTerminator(line)
	parts := strings.Fields(body)
	if len(parts) != 7 {
		return "", false
	}

	var rgb [3]float64
	for i := range rgb {
		f, err := strconv.ParseFloat(parts[4+i], 64)
		if err != nil {
			return "", false
		}
		rgb[i] = f
	}
	c := color.Convert(color.RGB{R: rgb[0], G: rgb[1], B: rgb[2]}, dir)

	buf := make([]byte, 0, len(line)+8)
	buf = append(buf, 'v')
	for _, p := range parts[1:4] {
		buf = append(buf, ' ')
		buf = append(buf, p...)
	}
	buf = appendCoord(buf, c.R)
	buf = appendCoord(buf, c.G)
	buf = appendCoord(buf, c.B)
	buf = append(buf, term...)
	return string(buf), true
}

func splitTerminator(line string) (body, term string) {
	switch {
	case strings.HasSuffix(line, "\r\n"):
		return line[:len(line)-2], "\r\n"
	case strings.HasSuffix(line, "\n"):
		return line[:len(line)-1], "\n"
	default:
		return line, ""
	}
}
