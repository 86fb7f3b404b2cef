package objfile

import "fmt"

// Axis selects the coordinate a mirror negates.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// String returns "x", "y" or "z".
func (a Axis) String() string {
	switch a {
	case AxisX:
		return "x"
	case AxisY:
		return "y"
	case AxisZ:
		return "z"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Mirror reflects the document across the YZ plane (negates X).
func (d *Document) Mirror() {
	d.MirrorAxis(AxisX)
}

// MirrorAxis negates one coordinate of every vertex and reverses the corner
// order of every face in the same call. A reflection alone flips every face
// normal; the reversal flips it back, so outward faces stay outward.
// Applying it twice restores the document exactly.
func (d *Document) MirrorAxis(axis Axis) {
	for i := range d.Vertices {
		p := &d.Vertices[i].Position
		switch axis {
		case AxisX:
			p.X = -p.X
		case AxisY:
			p.Y = -p.Y
		default:
			p.Z = -p.Z
		}
	}
	for i := range d.Faces {
		f := &d.Faces[i]
		f[0], f[2] = f[2], f[0]
	}
}
