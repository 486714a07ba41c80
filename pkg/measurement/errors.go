package measurement

import "fmt"

// MissingLandmarkError means a definition references a landmark the
// reconstruction did not produce.
type MissingLandmarkError struct {
	MeasurementID string
	LandmarkID    string
	Role          string // "start" or "end"
}

func (e *MissingLandmarkError) Error() string {
	return fmt.Sprintf("%s landmark not found for %s: %s", e.Role, e.MeasurementID, e.LandmarkID)
}

// UnknownTypeError means a definition has a type no estimator handles
type UnknownTypeError struct {
	MeasurementID string
	Type          MeasurementType
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown measurement type for %s: %q", e.MeasurementID, e.Type)
}
