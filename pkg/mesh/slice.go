package mesh

import (
	"math"
	"sort"

	"github.com/LopeWale/TailorMode-sub000/pkg/geometry"
	"gonum.org/v1/gonum/stat"
)

// EdgeEpsilon is the minimum height difference for an edge to count as
// crossing a plane; flatter edges are skipped to avoid dividing by ~0.
const EdgeEpsilon = 1e-4

// ExtractHorizontalSlice intersects the mesh with the plane y = yLevel and
// returns the crossing points ordered into a closed loop.
//
// One point is emitted per crossing edge, so the result is a point cloud
// around the section rather than an exact polygon. The loop is ordered by
// polar angle around the centroid, which is only a valid loop for
// star-convex sections. Torso and limb slices satisfy that in practice.
// An empty result means nothing crossed the plane.
func ExtractHorizontalSlice(m *Mesh, yLevel float64) []geometry.Vector3 {
	var points []geometry.Vector3

	for i := 0; i < m.TriangleCount(); i++ {
		tri, ok := m.Triangle(i)
		if !ok {
			continue
		}
		for _, edge := range tri.Edges() {
			a, b := edge[0], edge[1]
			p, crosses := crossEdge(a, b, a.Y-yLevel, b.Y-yLevel)
			if !crosses {
				continue
			}
			p.Y = yLevel
			points = append(points, p)
		}
	}

	return OrderSlicePoints(points)
}

// OrderSlicePoints sorts points in place by polar angle in the XZ plane
// around their centroid and returns them.
func OrderSlicePoints(points []geometry.Vector3) []geometry.Vector3 {
	if len(points) < 3 {
		return points
	}

	xs := make([]float64, len(points))
	zs := make([]float64, len(points))
	for i, p := range points {
		xs[i], zs[i] = p.X, p.Z
	}
	cx, cz := stat.Mean(xs, nil), stat.Mean(zs, nil)

	return sortByAngle(points, func(p geometry.Vector3) float64 {
		return math.Atan2(p.Z-cz, p.X-cx)
	})
}

// ExtractPlaneSlice intersects the mesh with the plane through origin with
// the given normal and returns the crossing points ordered by polar angle
// inside that plane. A zero normal yields no points.
func ExtractPlaneSlice(m *Mesh, origin, normal geometry.Vector3) []geometry.Vector3 {
	n := normal.Normalize()
	if n.IsZero() {
		return nil
	}

	var points []geometry.Vector3
	for i := 0; i < m.TriangleCount(); i++ {
		tri, ok := m.Triangle(i)
		if !ok {
			continue
		}
		for _, edge := range tri.Edges() {
			a, b := edge[0], edge[1]
			p, crosses := crossEdge(a, b, a.Sub(origin).Dot(n), b.Sub(origin).Dot(n))
			if crosses {
				points = append(points, p)
			}
		}
	}

	return orderInPlane(points, n)
}

// SlicePerimeter sums the edge lengths of an ordered closed loop, including
// the wraparound edge. Fewer than 3 points have no perimeter.
func SlicePerimeter(ordered []geometry.Vector3) float64 {
	if len(ordered) < 3 {
		return 0
	}

	perimeter := 0.0
	for i, current := range ordered {
		next := ordered[(i+1)%len(ordered)]
		perimeter += current.Distance(next)
	}
	return perimeter
}

// crossEdge interpolates the point where the edge a→b crosses zero given the
// signed distances da and db of its endpoints.
func crossEdge(a, b geometry.Vector3, da, db float64) (geometry.Vector3, bool) {
	if !((da <= 0 && db >= 0) || (da >= 0 && db <= 0)) {
		return geometry.Vector3{}, false
	}
	if math.Abs(db-da) < EdgeEpsilon {
		return geometry.Vector3{}, false
	}

	t := -da / (db - da)
	t = math.Max(0, math.Min(1, t))
	return a.Lerp(b, t), true
}

func orderInPlane(points []geometry.Vector3, n geometry.Vector3) []geometry.Vector3 {
	if len(points) < 3 {
		return points
	}

	// In-plane basis; the helper axis is whichever is least aligned with n.
	helper := geometry.NewVector3(1, 0, 0)
	if math.Abs(n.X) > 0.9 {
		helper = geometry.NewVector3(0, 1, 0)
	}
	u := n.Cross(helper).Normalize()
	w := n.Cross(u)

	var centroid geometry.Vector3
	for _, p := range points {
		centroid = centroid.Add(p)
	}
	centroid = centroid.Scale(1 / float64(len(points)))

	return sortByAngle(points, func(p geometry.Vector3) float64 {
		d := p.Sub(centroid)
		return math.Atan2(d.Dot(w), d.Dot(u))
	})
}

func sortByAngle(points []geometry.Vector3, angle func(geometry.Vector3) float64) []geometry.Vector3 {
	angles := make([]float64, len(points))
	for i, p := range points {
		angles[i] = angle(p)
	}
	sort.Sort(byAngle{points: points, angles: angles})
	return points
}

type byAngle struct {
	points []geometry.Vector3
	angles []float64
}

func (s byAngle) Len() int           { return len(s.points) }
func (s byAngle) Less(i, j int) bool { return s.angles[i] < s.angles[j] }
func (s byAngle) Swap(i, j int) {
	s.points[i], s.points[j] = s.points[j], s.points[i]
	s.angles[i], s.angles[j] = s.angles[j], s.angles[i]
}
