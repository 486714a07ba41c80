package measurement

import "github.com/LopeWale/TailorMode-sub000/pkg/mesh"

// ComputeGeodesicDistance approximates the surface path between two landmarks
// as the straight-line distance times a calibration factor for the pair.
// Uncalibrated pairs keep the straight-line value and are marked degraded.
func (e *Engine) ComputeGeodesicDistance(m *mesh.Mesh, start, end Landmark) Estimate {
	factor, calibrated := e.GeodesicFactor(start.ID, end.ID)
	path := start.Position.Distance(end.Position) * factor

	est := Estimate{
		Value:      m.ToCentimeters(path),
		Confidence: clamp01(min(start.Confidence, end.Confidence) * e.cfg.GeodesicConfidenceFactor),
		Quality:    QualityComputed,
		Debug: DebugInfo{
			PathLength:     path,
			GeodesicFactor: factor,
		},
	}
	if !calibrated {
		est.degrade("no geodesic calibration")
	}
	return est
}

// ComputeEuclideanDistance returns the straight-line distance between two
// landmarks.
func (e *Engine) ComputeEuclideanDistance(m *mesh.Mesh, start, end Landmark) Estimate {
	d := start.Position.Distance(end.Position)
	return Estimate{
		Value:      m.ToCentimeters(d),
		Confidence: clamp01(min(start.Confidence, end.Confidence)),
		Quality:    QualityComputed,
		Debug:      DebugInfo{PathLength: d},
	}
}
