package mesh

import (
	"fmt"
	"math"

	"github.com/LopeWale/TailorMode-sub000/pkg/geometry"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// degenerateArea is the area below which a triangle counts as degenerate
const degenerateArea = 1e-12

// Analysis summarizes the geometry of a mesh
type Analysis struct {
	BoundingBox   geometry.BoundingBox
	Dimensions    geometry.Vector3
	Center        geometry.Vector3
	Diagonal      float64
	HeightMeters  float64
	VertexCount   int
	TriangleCount int
	EdgeCount     int
	SurfaceArea   float64
	// SurfaceCentroid is the area-weighted mean of the triangle centroids.
	SurfaceCentroid      geometry.Vector3
	AvgTrianglePerimeter float64
	MinEdgeLength        float64
	MaxEdgeLength        float64
	AvgEdgeLength        float64
	EdgeLengthStdDev     float64
	DegenerateTriangles  int
	// Quality is a [0,1] score: the share of non-degenerate triangles,
	// discounted by the spread of edge lengths.
	Quality float64
}

// Analyze performs the geometric analysis of a mesh
func Analyze(m *Mesh) *Analysis {
	result := &Analysis{
		BoundingBox:   m.BoundingBox(),
		VertexCount:   m.VertexCount(),
		TriangleCount: m.TriangleCount(),
	}
	result.Dimensions = result.BoundingBox.Size()
	result.Diagonal = result.BoundingBox.Diagonal()
	if !result.BoundingBox.Empty() {
		result.Center = result.BoundingBox.Center()
	}
	result.HeightMeters = result.Dimensions.Y * m.UnitScale()

	lengths := make([]float64, 0, result.TriangleCount*3)
	perimeters := make([]float64, 0, result.TriangleCount)
	var weighted geometry.Vector3
	for i := 0; i < result.TriangleCount; i++ {
		tri, ok := m.Triangle(i)
		if !ok {
			result.DegenerateTriangles++
			continue
		}
		area := tri.Area()
		result.SurfaceArea += area
		weighted = weighted.Add(tri.Center().Scale(area))
		perimeters = append(perimeters, tri.Perimeter())
		if area < degenerateArea {
			result.DegenerateTriangles++
		}
		for _, l := range tri.EdgeLengths() {
			lengths = append(lengths, l)
		}
	}

	result.EdgeCount = len(lengths)
	if result.EdgeCount == 0 {
		return result
	}
	if result.SurfaceArea > 0 {
		result.SurfaceCentroid = weighted.Scale(1 / result.SurfaceArea)
	}
	result.AvgTrianglePerimeter = stat.Mean(perimeters, nil)

	result.MinEdgeLength = floats.Min(lengths)
	result.MaxEdgeLength = floats.Max(lengths)
	result.AvgEdgeLength, result.EdgeLengthStdDev = stat.MeanStdDev(lengths, nil)
	if math.IsNaN(result.EdgeLengthStdDev) {
		result.EdgeLengthStdDev = 0
	}

	valid := float64(result.TriangleCount-result.DegenerateTriangles) / float64(result.TriangleCount)
	spread := 0.0
	if result.AvgEdgeLength > 0 {
		spread = result.EdgeLengthStdDev / result.AvgEdgeLength
	}
	result.Quality = valid / (1 + spread)

	return result
}

// NearestVertex finds the vertex nearest to a point. It returns -1 for a mesh
// without vertices.
func NearestVertex(m *Mesh, point geometry.Vector3) (index int, distance float64) {
	index = -1
	distance = math.MaxFloat64
	for i := 0; i < m.VertexCount(); i++ {
		if d := point.Distance(m.Vertex(i)); d < distance {
			index, distance = i, d
		}
	}
	return index, distance
}

// FormatVector formats a 3D vector
func FormatVector(v geometry.Vector3) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}
