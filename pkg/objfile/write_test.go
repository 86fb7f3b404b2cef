package objfile

import (
	"bytes"
	gomath "math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/ezrender/pkg/color"
	m "github.com/Faultbox/ezrender/pkg/math"
)

const sample = `# exported by scanner
mtllib scan.mtl
v 0.1 0.2 0.3 0.25 0.5 0.75
v 1 0 0 1 1 1
v 0 1 0
v 0 0 1 1.0
vt 0.5 0.5
usemtl skin

f 1/1 2/1 3/1
f 2/1 3/1 4/1
`

func TestSerialize(t *testing.T) {
	doc, err := ParseBytes([]byte(sample))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}

	want := `# exported by scanner
mtllib scan.mtl
v 0.100000 0.200000 0.300000 0.250000 0.500000 0.750000
v 1.000000 0.000000 0.000000 1.000000 1.000000 1.000000
v 0.000000 1.000000 0.000000
v 0.000000 0.000000 1.000000 1.0
vt 0.5 0.5
usemtl skin

f 1/1 2/1 3/1
f 2/1 3/1 4/1
`
	if got := string(doc.Serialize(color.SRGB)); got != want {
		t.Errorf("Serialize() =\n%s\nwant\n%s", got, want)
	}
}

func TestSerializeStable(t *testing.T) {
	doc, err := ParseBytes([]byte(sample))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	first := doc.Serialize(color.SRGB)

	again, err := ParseBytes(first)
	if err != nil {
		t.Fatalf("re-parse error = %v", err)
	}
	second := again.Serialize(color.SRGB)
	if !bytes.Equal(first, second) {
		t.Errorf("serialize is not stable:\n%s\n---\n%s", first, second)
	}

	if len(again.Vertices) != len(doc.Vertices) || len(again.Faces) != len(doc.Faces) {
		t.Fatalf("re-parsed document has %d/%d records, want %d/%d",
			len(again.Vertices), len(again.Faces), len(doc.Vertices), len(doc.Faces))
	}
	for i := range doc.Vertices {
		a, b := doc.Vertices[i], again.Vertices[i]
		if !near(a.Position.X, b.Position.X) || !near(a.Position.Y, b.Position.Y) || !near(a.Position.Z, b.Position.Z) {
			t.Errorf("vertex %d position %v != %v", i, a.Position, b.Position)
		}
		if !near(a.Color.R, b.Color.R) || !near(a.Color.G, b.Color.G) || !near(a.Color.B, b.Color.B) {
			t.Errorf("vertex %d color %v != %v", i, a.Color, b.Color)
		}
	}
	for i := range doc.Faces {
		if doc.Faces[i] != again.Faces[i] {
			t.Errorf("face %d = %v, want %v", i, again.Faces[i], doc.Faces[i])
		}
	}
}

func TestSerializeConvertsOnOutput(t *testing.T) {
	doc, err := ParseBytes([]byte("v 0 0 0 0.5 0.5 0.5\n"))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	doc.ConvertColors(color.ToLinearDirection)

	out := string(doc.Serialize(color.SRGB))
	if out != "v 0.000000 0.000000 0.000000 0.500000 0.500000 0.500000\n" {
		t.Errorf("Serialize(SRGB) = %q", out)
	}
	if doc.Space != color.Linear {
		t.Error("Serialize must not change the document's space")
	}

	lin := string(doc.Serialize(color.Linear))
	if !strings.HasSuffix(lin, "0.214041 0.214041 0.214041\n") {
		t.Errorf("Serialize(Linear) = %q", lin)
	}
}

func TestSerializeBuiltDocument(t *testing.T) {
	doc := &Document{
		Vertices: []Vertex{
			{Position: m.Vec3{X: gomath.Copysign(0, -1), Z: -1e-9}, Color: color.White, HasColor: true},
			{Position: m.Vec3{X: 1}, Color: color.White, HasColor: true},
			{Position: m.Vec3{Y: 1}, Color: color.White, HasColor: true},
		},
		Faces: []Face{Tri(0, 1, 2)},
	}
	want := "v 0.000000 0.000000 0.000000 1.000000 1.000000 1.000000\n" +
		"v 1.000000 0.000000 0.000000 1.000000 1.000000 1.000000\n" +
		"v 0.000000 1.000000 0.000000 1.000000 1.000000 1.000000\n" +
		"f 1 2 3\n"
	if got := string(doc.Serialize(color.SRGB)); got != want {
		t.Errorf("Serialize() =\n%s\nwant\n%s", got, want)
	}
}

func TestAddRecords(t *testing.T) {
	doc := New(color.Linear)
	doc.AddOpaque("o tri")
	a := doc.AddVertex(m.Vec3{}, color.RGB{R: 1})
	b := doc.AddVertex(m.Vec3{X: 1}, color.RGB{G: 1})
	c := doc.AddVertex(m.Vec3{Y: 1}, color.RGB{B: 1})
	doc.AddFace(Tri(a, b, c))

	if err := doc.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	out := string(doc.Serialize(color.Linear))
	if !strings.HasPrefix(out, "o tri\nv ") || !strings.HasSuffix(out, "f 1 2 3\n") {
		t.Errorf("unexpected output:\n%s", out)
	}

	doc.AddFace(Tri(0, 1, 7))
	if err := doc.Validate(); err == nil {
		t.Error("Validate() should reject index 7")
	}
}

func TestSerializeUnlistedRecords(t *testing.T) {
	doc, err := ParseBytes([]byte("o tri\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	doc.Vertices = append(doc.Vertices, Vertex{Position: m.Vec3{X: 1, Y: 1}, Color: color.White})
	doc.Faces = append(doc.Faces, Tri(1, 3, 2))

	want := "o tri\n" +
		"v 0.000000 0.000000 0.000000\n" +
		"v 1.000000 0.000000 0.000000\n" +
		"v 0.000000 1.000000 0.000000\n" +
		"f 1 2 3\n" +
		"v 1.000000 1.000000 0.000000\n" +
		"f 2 4 3\n"
	out := doc.Serialize(color.SRGB)
	if string(out) != want {
		t.Errorf("Serialize() =\n%s\nwant\n%s", out, want)
	}

	again, err := ParseBytes(out)
	if err != nil {
		t.Fatalf("ParseBytes(output) error = %v", err)
	}
	if len(again.Vertices) != 4 || len(again.Faces) != 2 {
		t.Errorf("re-parsed %d vertices, %d faces, want 4 and 2", len(again.Vertices), len(again.Faces))
	}
}

func TestSaveFile(t *testing.T) {
	doc, err := ParseBytes([]byte(sample))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	path := filepath.Join(t.TempDir(), "out", "fixed.obj")
	if err := doc.SaveFile(path, color.SRGB); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if !bytes.Equal(data, doc.Serialize(color.SRGB)) {
		t.Error("saved file differs from Serialize output")
	}
}
