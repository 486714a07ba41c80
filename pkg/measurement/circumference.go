package measurement

import (
	"fmt"

	"github.com/LopeWale/TailorMode-sub000/pkg/geometry"
	"github.com/LopeWale/TailorMode-sub000/pkg/mesh"
)

// sliceCache memoizes horizontal slices of one mesh by height
type sliceCache map[float64][]geometry.Vector3

func (c sliceCache) slice(m *mesh.Mesh, y float64) []geometry.Vector3 {
	if c == nil {
		return mesh.ExtractHorizontalSlice(m, y)
	}
	if points, ok := c[y]; ok {
		return points
	}
	points := mesh.ExtractHorizontalSlice(m, y)
	c[y] = points
	return points
}

// ComputeCircumference measures the horizontal cross-section of the mesh at
// the height of the center landmark.
func (e *Engine) ComputeCircumference(m *mesh.Mesh, center Landmark) Estimate {
	return e.circumference(m, center, nil)
}

func (e *Engine) circumference(m *mesh.Mesh, center Landmark, cache sliceCache) Estimate {
	points := cache.slice(m, center.Position.Y)
	est := e.scoreLoop(m, points, center.ID, center.Confidence)
	if est.Value == 0 {
		return est
	}

	// Cross-check the loop against a least-squares circle in the slice plane
	if fit, err := geometry.FitCircleToPoints3D(points, geometry.AxisY); err == nil {
		est.Debug.FitRadius = fit.Radius
	}
	return est
}

// ComputeLimbCircumference measures the cross-section perpendicular to the
// start→end axis at the given fraction along it. A fraction outside (0, 1)
// selects the configured default.
func (e *Engine) ComputeLimbCircumference(m *mesh.Mesh, start, end Landmark, fraction float64) Estimate {
	if fraction <= 0 || fraction >= 1 {
		fraction = e.cfg.LimbFraction
	}

	axis := end.Position.Sub(start.Position)
	if axis.Length() < mesh.EdgeEpsilon {
		est := Estimate{Quality: QualityComputed}
		est.degrade("zero-length limb axis")
		return est
	}

	origin := start.Position.Lerp(end.Position, fraction)
	points := mesh.ExtractPlaneSlice(m, origin, axis)
	return e.scoreLoop(m, points, start.ID, min(start.Confidence, end.Confidence))
}

// scoreLoop turns an ordered slice loop into a centimeter value and applies
// the range and sparsity penalties.
func (e *Engine) scoreLoop(m *mesh.Mesh, points []geometry.Vector3, rangeID string, confidence float64) Estimate {
	est := Estimate{
		Quality: QualityComputed,
		Debug:   DebugInfo{SlicePoints: len(points)},
	}
	if len(points) < e.cfg.MinSlicePoints {
		est.degrade(fmt.Sprintf("only %d slice points", len(points)))
		return est
	}

	est.Value = m.ToCentimeters(mesh.SlicePerimeter(points))

	if !e.cfg.ExpectedRange(rangeID).Contains(est.Value) {
		confidence *= e.cfg.OutOfRangePenalty
	}
	if len(points) < e.cfg.SparseSlicePoints {
		confidence *= e.cfg.SparsePenalty
		est.degrade(fmt.Sprintf("sparse slice (%d points)", len(points)))
	}
	est.Confidence = clamp01(confidence)
	return est
}
