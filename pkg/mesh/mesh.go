// Package mesh holds the indexed triangle mesh consumed by the measurement
// engine, together with planar slicing, STL input/output and synthetic mesh
// builders.
package mesh

import (
	"fmt"

	"github.com/LopeWale/TailorMode-sub000/pkg/geometry"
)

// Mesh is an indexed triangle mesh. Vertices holds xyz triplets, Indices holds
// triangle vertex-index triplets. Scale converts mesh units to meters.
type Mesh struct {
	Name     string
	Vertices []float64
	Indices  []uint32
	Normals  []float64
	Scale    float64
}

// New creates a mesh from flat vertex and index arrays
func New(vertices []float64, indices []uint32, scale float64) *Mesh {
	return &Mesh{
		Vertices: vertices,
		Indices:  indices,
		Scale:    scale,
	}
}

// VertexCount returns the number of vertices. A nil mesh has none.
func (m *Mesh) VertexCount() int {
	if m == nil {
		return 0
	}
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles. A nil mesh has none.
func (m *Mesh) TriangleCount() int {
	if m == nil {
		return 0
	}
	return len(m.Indices) / 3
}

// UnitScale returns the meters-per-unit factor. A nil mesh and a zero or
// negative scale count as 1, so lengths never change sign.
func (m *Mesh) UnitScale() float64 {
	if m == nil || m.Scale <= 0 {
		return 1
	}
	return m.Scale
}

// ToCentimeters converts a length in mesh units to centimeters
func (m *Mesh) ToCentimeters(length float64) float64 {
	return length * m.UnitScale() * 100
}

// Vertex returns the i-th vertex position
func (m *Mesh) Vertex(i int) geometry.Vector3 {
	o := i * 3
	return geometry.NewVector3(m.Vertices[o], m.Vertices[o+1], m.Vertices[o+2])
}

// Triangle returns the i-th triangle with its computed normal.
// ok is false when the triangle references a vertex that does not exist.
func (m *Mesh) Triangle(i int) (tri geometry.Triangle, ok bool) {
	o := i * 3
	n := uint32(m.VertexCount())
	a, b, c := m.Indices[o], m.Indices[o+1], m.Indices[o+2]
	if a >= n || b >= n || c >= n {
		return geometry.Triangle{}, false
	}
	tri = geometry.NewTriangle(geometry.Vector3{}, m.Vertex(int(a)), m.Vertex(int(b)), m.Vertex(int(c)))
	tri.Normal = tri.CalculateNormal()
	return tri, true
}

// BoundingBox calculates the bounding box of all vertices
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for i := 0; i < m.VertexCount(); i++ {
		bbox.Extend(m.Vertex(i))
	}
	return bbox
}

// Validate checks the array shapes and index bounds
func (m *Mesh) Validate() error {
	if len(m.Vertices)%3 != 0 {
		return fmt.Errorf("vertex array length %d is not a multiple of 3", len(m.Vertices))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index array length %d is not a multiple of 3", len(m.Indices))
	}
	if m.Normals != nil && len(m.Normals) != len(m.Vertices) {
		return fmt.Errorf("normal array length %d does not match vertex array length %d", len(m.Normals), len(m.Vertices))
	}
	if m.Scale < 0 {
		return fmt.Errorf("scale must be non-negative, got %f", m.Scale)
	}
	n := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("index %d at position %d out of range (%d vertices)", idx, i, n)
		}
	}
	return nil
}

// Merge concatenates meshes into one, re-basing indices. The scale of the
// first non-nil mesh is kept.
func Merge(meshes ...*Mesh) *Mesh {
	out := &Mesh{}
	first := true
	for _, part := range meshes {
		if part == nil {
			continue
		}
		if first {
			out.Scale = part.Scale
			first = false
		}
		base := uint32(out.VertexCount())
		out.Vertices = append(out.Vertices, part.Vertices...)
		for _, idx := range part.Indices {
			out.Indices = append(out.Indices, base+idx)
		}
	}
	return out
}
