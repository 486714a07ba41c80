package measurement

import "github.com/LopeWale/TailorMode-sub000/pkg/mesh"

// ComputeMeasurement resolves the landmarks of a definition and runs the
// estimator for its type. A missing landmark returns *MissingLandmarkError and
// an unsupported type returns *UnknownTypeError. A nil mesh counts as an
// empty mesh in meters.
func (e *Engine) ComputeMeasurement(m *mesh.Mesh, landmarks Landmarks, def Definition) (ComputedMeasurement, error) {
	return e.compute(m, landmarks, def, nil)
}

func (e *Engine) compute(m *mesh.Mesh, landmarks Landmarks, def Definition, cache sliceCache) (ComputedMeasurement, error) {
	start, ok := landmarks[def.LandmarkStart]
	if !ok {
		return ComputedMeasurement{}, &MissingLandmarkError{MeasurementID: def.ID, LandmarkID: def.LandmarkStart, Role: "start"}
	}
	end, ok := landmarks[def.LandmarkEnd]
	if !ok {
		return ComputedMeasurement{}, &MissingLandmarkError{MeasurementID: def.ID, LandmarkID: def.LandmarkEnd, Role: "end"}
	}

	var (
		est    Estimate
		method ComputationMethod
		used   []Landmark
	)
	switch def.Type {
	case TypeCircumference:
		est = e.circumference(m, start, cache)
		method = MethodPlanarSlice
		used = []Landmark{start}
	case TypeLimbCircumference:
		est = e.ComputeLimbCircumference(m, start, end, def.Fraction)
		method = MethodPlanarSlice
		used = []Landmark{start, end}
	case TypeLength:
		est = e.ComputeGeodesicDistance(m, start, end)
		method = MethodGeodesic
		used = []Landmark{start, end}
	case TypeDistance:
		est = e.ComputeEuclideanDistance(m, start, end)
		method = MethodEuclidean
		used = []Landmark{start, end}
	default:
		return ComputedMeasurement{}, &UnknownTypeError{MeasurementID: def.ID, Type: def.Type}
	}

	if allEstimated(used) {
		method = MethodEstimated
		est.degrade("landmarks estimated from height")
	}

	return ComputedMeasurement{
		MeasurementID:     def.ID,
		Name:              def.DisplayName,
		Value:             roundTenth(est.Value),
		Unit:              Unit,
		Confidence:        est.Confidence,
		ComputationMethod: method,
		Landmarks:         LandmarkPair{Start: def.LandmarkStart, End: def.LandmarkEnd},
		Quality:           est.Quality,
		DegradedReason:    est.DegradedReason,
		DebugInfo:         est.Debug,
	}, nil
}

func allEstimated(landmarks []Landmark) bool {
	for _, l := range landmarks {
		if l.DetectionMethod != DetectionEstimated {
			return false
		}
	}
	return len(landmarks) > 0
}
