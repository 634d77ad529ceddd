package core

import (
	"fmt"
	"math"
)

// Vertex layout consumed by the render pipeline. All fields are float32 so
// the struct has no padding.
type Vertex struct {
	Position [4]float32
	Color    [4]float32
	UV       [2]float32
}

const (
	VertexStride   = 10 * 4
	PositionOffset = 0
	ColorOffset    = 4 * 4
	UVOffset       = 8 * 4
)

var BaseColor = [4]float32{1, 1, 1, 1}

func NewVertex(x, y, z, u, v float32) Vertex {
	return Vertex{
		Position: [4]float32{x, y, z, 1},
		Color:    BaseColor,
		UV:       [2]float32{u, v},
	}
}

// Mesh is an indexed triangle list with 16-bit indices; immutable once uploaded.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint16
}

func (m *Mesh) IndexCount() uint32 {
	return uint32(len(m.Indices))
}

func (m *Mesh) Validate() error {
	if len(m.Vertices) == 0 || len(m.Indices) == 0 {
		return fmt.Errorf("mesh is empty: %d vertices, %d indices", len(m.Vertices), len(m.Indices))
	}
	if len(m.Vertices) > math.MaxUint16+1 {
		return fmt.Errorf("mesh has %d vertices, more than 16-bit indices can address", len(m.Vertices))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("mesh index %d at position %d out of range (%d vertices)", idx, i, len(m.Vertices))
		}
	}
	return nil
}

func clampSize(size float32) float32 {
	if size < -1 {
		return -1
	}
	if size > 1 {
		return 1
	}
	return size
}

// Square is a unit quad in the z=0 plane, wound counter-clockwise.
func Square(size float32) *Mesh {
	s := clampSize(size)
	return &Mesh{
		Vertices: []Vertex{
			NewVertex(s, s, 0, 1, 0),
			NewVertex(s, -s, 0, 1, 1),
			NewVertex(-s, -s, 0, 0, 1),
			NewVertex(-s, s, 0, 0, 0),
		},
		Indices: []uint16{3, 2, 1, 3, 1, 0},
	}
}

// Cube has four vertices per face so each face carries its own UVs.
func Cube(size float32) *Mesh {
	s := clampSize(size)
	vertices := []Vertex{
		// +z
		NewVertex(-s, -s, s, 0, 0),
		NewVertex(s, -s, s, 1, 0),
		NewVertex(s, s, s, 1, 1),
		NewVertex(-s, s, s, 0, 1),
		// -z
		NewVertex(-s, s, -s, 1, 0),
		NewVertex(s, s, -s, 0, 0),
		NewVertex(s, -s, -s, 0, 1),
		NewVertex(-s, -s, -s, 1, 1),
		// +x
		NewVertex(s, -s, -s, 0, 0),
		NewVertex(s, s, -s, 1, 0),
		NewVertex(s, s, s, 1, 1),
		NewVertex(s, -s, s, 0, 1),
		// -x
		NewVertex(-s, -s, s, 1, 0),
		NewVertex(-s, s, s, 0, 0),
		NewVertex(-s, s, -s, 0, 1),
		NewVertex(-s, -s, -s, 1, 1),
		// +y
		NewVertex(s, s, -s, 1, 0),
		NewVertex(-s, s, -s, 0, 0),
		NewVertex(-s, s, s, 0, 1),
		NewVertex(s, s, s, 1, 1),
		// -y
		NewVertex(s, -s, s, 0, 0),
		NewVertex(-s, -s, s, 1, 0),
		NewVertex(-s, -s, -s, 1, 1),
		NewVertex(s, -s, -s, 0, 1),
	}

	indices := make([]uint16, 0, 36)
	for face := uint16(0); face < 6; face++ {
		b := face * 4
		indices = append(indices, b, b+1, b+2, b+2, b+3, b)
	}
	return &Mesh{Vertices: vertices, Indices: indices}
}

// MeshByName resolves the built-in mesh names accepted in configuration.
func MeshByName(name string, size float32) (*Mesh, error) {
	switch name {
	case "cube", "":
		return Cube(size), nil
	case "square":
		return Square(size), nil
	}
	return nil, fmt.Errorf("unknown mesh %q", name)
}
