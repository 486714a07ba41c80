package mesh

import (
	"testing"

	"github.com/LopeWale/TailorMode-sub000/pkg/geometry"
	"github.com/stretchr/testify/assert"
)

func TestAnalyzeCylinder(t *testing.T) {
	cyl := NewCylinder(geometry.Vector3{}, geometry.NewVector3(0, 1, 0), 0.15, 1.7, 32, 4)
	cyl.Scale = 1

	a := Analyze(cyl)
	assert.Equal(t, cyl.TriangleCount(), a.TriangleCount)
	assert.Equal(t, cyl.VertexCount(), a.VertexCount)
	assert.Equal(t, 3*cyl.TriangleCount(), a.EdgeCount)
	assert.InDelta(t, 1.7, a.HeightMeters, 1e-12)
	assert.Zero(t, a.DegenerateTriangles)
	assert.Greater(t, a.SurfaceArea, 0.0)
	assert.LessOrEqual(t, a.MinEdgeLength, a.AvgEdgeLength)
	assert.GreaterOrEqual(t, a.MaxEdgeLength, a.AvgEdgeLength)
	assert.Greater(t, a.Quality, 0.0)
	assert.LessOrEqual(t, a.Quality, 1.0)
}

func TestAnalyzeScaledHeight(t *testing.T) {
	cyl := NewCylinder(geometry.Vector3{}, geometry.NewVector3(0, 1, 0), 150, 1700, 16, 1)
	cyl.Scale = 0.001

	assert.InDelta(t, 1.7, Analyze(cyl).HeightMeters, 1e-9)
}

func TestAnalyzeRightTriangle(t *testing.T) {
	m := &Mesh{
		Vertices: []float64{0, 0, 0, 3, 0, 0, 0, 4, 0},
		Indices:  []uint32{0, 1, 2},
	}

	a := Analyze(m)
	assert.InDelta(t, 6.0, a.SurfaceArea, 1e-12)
	assert.InDelta(t, 12.0, a.AvgTrianglePerimeter, 1e-12)
	assert.InDelta(t, 5.0, a.Diagonal, 1e-12)
	assert.Equal(t, geometry.NewVector3(1.5, 2, 0), a.Center)
	assert.InDelta(t, 0, a.SurfaceCentroid.Distance(geometry.NewVector3(1, 4.0/3, 0)), 1e-12)
}

func TestAnalyzeCylinderCentroid(t *testing.T) {
	cyl := NewCylinder(geometry.Vector3{}, geometry.NewVector3(0, 1, 0), 0.15, 1.7, 32, 4)

	a := Analyze(cyl)
	assert.InDelta(t, 0, a.SurfaceCentroid.Distance(geometry.NewVector3(0, 0.85, 0)), 1e-9)
	assert.InDelta(t, 0, a.Center.Distance(geometry.NewVector3(0, 0.85, 0)), 1e-9)
}

func TestAnalyzeDegenerate(t *testing.T) {
	m := &Mesh{
		Vertices: []float64{0, 0, 0, 1, 0, 0, 2, 0, 0, 0, 1, 0},
		Indices:  []uint32{0, 1, 2, 0, 1, 3},
	}

	a := Analyze(m)
	assert.Equal(t, 1, a.DegenerateTriangles)
	assert.Less(t, a.Quality, 0.5+1e-9)
}

func TestAnalyzeEmpty(t *testing.T) {
	a := Analyze(&Mesh{})
	assert.Zero(t, a.EdgeCount)
	assert.Zero(t, a.Quality)
	assert.Zero(t, a.Diagonal)
	assert.Equal(t, geometry.Vector3{}, a.Center)
}

func TestNearestVertex(t *testing.T) {
	m := &Mesh{Vertices: []float64{0, 0, 0, 1, 0, 0, 0, 2, 0}}

	idx, dist := NearestVertex(m, geometry.NewVector3(0.9, 0.1, 0))
	assert.Equal(t, 1, idx)
	assert.InDelta(t, 0.1414213562, dist, 1e-9)

	idx, _ = NearestVertex(&Mesh{}, geometry.Vector3{})
	assert.Equal(t, -1, idx)
}
