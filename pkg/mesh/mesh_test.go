package mesh

import (
	"math"
	"testing"

	"github.com/LopeWale/TailorMode-sub000/pkg/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeshValidate(t *testing.T) {
	tests := []struct {
		name    string
		mesh    Mesh
		wantErr bool
	}{
		{"valid", Mesh{Vertices: []float64{0, 0, 0, 1, 0, 0, 0, 1, 0}, Indices: []uint32{0, 1, 2}}, false},
		{"ragged vertices", Mesh{Vertices: []float64{0, 0}, Indices: nil}, true},
		{"ragged indices", Mesh{Vertices: []float64{0, 0, 0}, Indices: []uint32{0, 0}}, true},
		{"index out of range", Mesh{Vertices: []float64{0, 0, 0}, Indices: []uint32{0, 0, 1}}, true},
		{"normals mismatch", Mesh{Vertices: []float64{0, 0, 0}, Normals: []float64{0, 1}}, true},
		{"negative scale", Mesh{Scale: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.mesh.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMeshUnitScale(t *testing.T) {
	assert.Equal(t, 1.0, (&Mesh{}).UnitScale())
	assert.Equal(t, 0.01, (&Mesh{Scale: 0.01}).UnitScale())
	assert.InDelta(t, 94.2, (&Mesh{Scale: 1}).ToCentimeters(0.942), 1e-9)
	assert.Equal(t, 1.0, (&Mesh{Scale: -1}).UnitScale())
	assert.Equal(t, 50.0, (&Mesh{Scale: -0.5}).ToCentimeters(0.5))
}

func TestNilMesh(t *testing.T) {
	var m *Mesh
	assert.Equal(t, 1.0, m.UnitScale())
	assert.Equal(t, 50.0, m.ToCentimeters(0.5))
	assert.Zero(t, m.VertexCount())
	assert.Zero(t, m.TriangleCount())
	assert.Empty(t, ExtractHorizontalSlice(m, 1))
}

func TestMeshTriangleOutOfRange(t *testing.T) {
	m := &Mesh{Vertices: []float64{0, 0, 0}, Indices: []uint32{0, 0, 5}}
	_, ok := m.Triangle(0)
	assert.False(t, ok)
}

func TestMerge(t *testing.T) {
	a := NewCylinder(geometry.Vector3{}, geometry.NewVector3(0, 1, 0), 0.1, 0.2, 8, 1)
	b := NewCylinder(geometry.NewVector3(0, 1, 0), geometry.NewVector3(0, 1, 0), 0.1, 0.2, 8, 1)

	merged := Merge(nil, a, b)
	require.NoError(t, merged.Validate())
	assert.Equal(t, a.VertexCount()+b.VertexCount(), merged.VertexCount())
	assert.Equal(t, a.TriangleCount()+b.TriangleCount(), merged.TriangleCount())
	assert.Equal(t, 1.0, merged.Scale)

	// Slicing through the second part only sees the second part
	got := SlicePerimeter(ExtractHorizontalSlice(merged, 1.1))
	assert.InDelta(t, 2*8*0.1*math.Sin(math.Pi/8), got, 1e-9)
}

func TestNewCylinderShape(t *testing.T) {
	cyl := NewCylinder(geometry.Vector3{}, geometry.NewVector3(0, 1, 0), 0.2, 1.5, 16, 3)
	require.NoError(t, cyl.Validate())

	// 4 rings of 16 plus 2 cap centers; 3 bands of 32 plus 2 fans of 16
	assert.Equal(t, 4*16+2, cyl.VertexCount())
	assert.Equal(t, 3*32+2*16, cyl.TriangleCount())

	bbox := cyl.BoundingBox()
	assert.InDelta(t, 1.5, bbox.Size().Y, 1e-12)
	assert.InDelta(t, 0.4, bbox.Size().X, 1e-12)
}
