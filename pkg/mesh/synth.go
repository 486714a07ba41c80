package mesh

import (
	"math"

	"github.com/LopeWale/TailorMode-sub000/pkg/geometry"
)

// NewCylinder builds a closed cylinder whose bottom cap is centred on base
// and whose axis points along axis. The side is split into stacks bands of
// segments quads each; both caps are triangle fans. Scale is 1 (meters).
func NewCylinder(base, axis geometry.Vector3, radius, height float64, segments, stacks int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if stacks < 1 {
		stacks = 1
	}
	n := axis.Normalize()
	if n.IsZero() {
		n = geometry.NewVector3(0, 1, 0)
	}
	helper := geometry.NewVector3(1, 0, 0)
	if math.Abs(n.X) > 0.9 {
		helper = geometry.NewVector3(0, 1, 0)
	}
	u := n.Cross(helper).Normalize()
	w := n.Cross(u)

	m := &Mesh{Scale: 1}
	addVertex := func(p geometry.Vector3) uint32 {
		m.Vertices = append(m.Vertices, p.X, p.Y, p.Z)
		return uint32(m.VertexCount() - 1)
	}

	for ring := 0; ring <= stacks; ring++ {
		center := base.Add(n.Scale(height * float64(ring) / float64(stacks)))
		for s := 0; s < segments; s++ {
			angle := 2 * math.Pi * float64(s) / float64(segments)
			offset := u.Scale(radius * math.Cos(angle)).Add(w.Scale(radius * math.Sin(angle)))
			addVertex(center.Add(offset))
		}
	}

	ringIndex := func(ring, s int) uint32 {
		return uint32(ring*segments + (s % segments))
	}
	for ring := 0; ring < stacks; ring++ {
		for s := 0; s < segments; s++ {
			b0, b1 := ringIndex(ring, s), ringIndex(ring, s+1)
			t0, t1 := ringIndex(ring+1, s), ringIndex(ring+1, s+1)
			m.Indices = append(m.Indices, b0, b1, t1, b0, t1, t0)
		}
	}

	bottom := addVertex(base)
	top := addVertex(base.Add(n.Scale(height)))
	for s := 0; s < segments; s++ {
		m.Indices = append(m.Indices, bottom, ringIndex(0, s+1), ringIndex(0, s))
		m.Indices = append(m.Indices, top, ringIndex(stacks, s), ringIndex(stacks, s+1))
	}

	return m
}
