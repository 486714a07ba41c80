// Package measurement computes tailoring measurements from a body mesh and
// its anatomical landmarks, scores their reliability and drives the bounded
// capture/validation workflow.
package measurement

import "github.com/LopeWale/TailorMode-sub000/pkg/geometry"

// MeasurementType selects the estimator used for a definition
type MeasurementType string

const (
	TypeCircumference     MeasurementType = "circumference"
	TypeLength            MeasurementType = "length"
	TypeDistance          MeasurementType = "distance"
	TypeLimbCircumference MeasurementType = "limb_circumference"
)

// View is a capture direction
type View string

const (
	ViewFront View = "front"
	ViewBack  View = "back"
	ViewLeft  View = "left"
	ViewRight View = "right"
)

// DetectionMethod records how a landmark was obtained
type DetectionMethod string

const (
	DetectionSMPL      DetectionMethod = "smpl"
	DetectionManual    DetectionMethod = "manual"
	DetectionEstimated DetectionMethod = "estimated"
)

// ComputationMethod records which estimator produced a value
type ComputationMethod string

const (
	MethodPlanarSlice ComputationMethod = "planar_slice"
	MethodGeodesic    ComputationMethod = "geodesic"
	MethodEuclidean   ComputationMethod = "euclidean"
	MethodEstimated   ComputationMethod = "estimated"
)

// Quality distinguishes a confident computation from a best-effort one
type Quality string

const (
	QualityComputed Quality = "computed"
	QualityDegraded Quality = "degraded"
)

// Status is the lifecycle state of a measurement within a capture session
type Status string

const (
	StatusPending   Status = "pending"
	StatusCaptured  Status = "captured"
	StatusValidated Status = "validated"
	StatusFlagged   Status = "flagged"
)

// Terminal reports whether no further attempts change the result
func (s Status) Terminal() bool {
	return s == StatusValidated || s == StatusFlagged
}

// Unit is the only unit values leave the engine in
const Unit = "cm"

// Landmark is a named anatomical point on the body
type Landmark struct {
	ID              string           `json:"id"`
	Position        geometry.Vector3 `json:"position"`
	Confidence      float64          `json:"confidence"`
	DetectionMethod DetectionMethod  `json:"detectionMethod"`
}

// Landmarks maps landmark ids to landmarks
type Landmarks map[string]Landmark

// Definition describes how a measurement is taken. Definitions come from the
// catalog and are treated as read-only.
type Definition struct {
	ID                  string          `yaml:"id" json:"id"`
	Name                string          `yaml:"name" json:"name"`
	DisplayName         string          `yaml:"display_name" json:"displayName"`
	Type                MeasurementType `yaml:"type" json:"type"`
	LandmarkStart       string          `yaml:"landmark_start" json:"landmarkStart"`
	LandmarkEnd         string          `yaml:"landmark_end" json:"landmarkEnd"`
	Plane               string          `yaml:"plane,omitempty" json:"plane,omitempty"`
	Description         string          `yaml:"description" json:"description"`
	CaptureRequirements []View          `yaml:"capture_requirements" json:"captureRequirements"`
	MinConfidence       float64         `yaml:"min_confidence" json:"minConfidence"`
	// Fraction positions a limb slice along the start→end axis
	Fraction float64 `yaml:"fraction,omitempty" json:"fraction,omitempty"`
}

// LandmarkPair names the landmarks a measurement was taken between
type LandmarkPair struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DebugInfo carries method-specific diagnostics. Lengths are in mesh units.
type DebugInfo struct {
	SlicePoints    int     `json:"slicePoints,omitempty"`
	PathLength     float64 `json:"pathLength,omitempty"`
	FitRadius      float64 `json:"fitRadius,omitempty"`
	GeodesicFactor float64 `json:"geodesicFactor,omitempty"`
}

// ComputedMeasurement is the raw output of one estimator run
type ComputedMeasurement struct {
	MeasurementID     string            `json:"measurementId"`
	Name              string            `json:"name"`
	Value             float64           `json:"value"`
	Unit              string            `json:"unit"`
	Confidence        float64           `json:"confidence"`
	ComputationMethod ComputationMethod `json:"computationMethod"`
	Landmarks         LandmarkPair      `json:"landmarks"`
	Quality           Quality           `json:"quality"`
	DegradedReason    string            `json:"degradedReason,omitempty"`
	DebugInfo         DebugInfo         `json:"debugInfo"`
}

// Degraded reports whether the value is a best-effort estimate
func (c ComputedMeasurement) Degraded() bool {
	return c.Quality == QualityDegraded
}

// Result is the per-session state of one measurement
type Result struct {
	MeasurementID   string  `json:"measurementId"`
	Value           float64 `json:"value"`
	Unit            string  `json:"unit"`
	Confidence      float64 `json:"confidence"`
	CaptureAttempts int     `json:"captureAttempts"`
	Status          Status  `json:"status"`
	FlagReason      string  `json:"flagReason,omitempty"`
}

// NewResult returns the initial result of a measurement at session start
func NewResult(measurementID string) Result {
	return Result{
		MeasurementID: measurementID,
		Unit:          Unit,
		Status:        StatusPending,
	}
}

// Validation is the verdict on one attempt
type Validation struct {
	IsValid         bool   `json:"isValid"`
	ShouldRecapture bool   `json:"shouldRecapture"`
	ShouldFlag      bool   `json:"shouldFlag"`
	Reason          string `json:"reason,omitempty"`
	SuggestedAction string `json:"suggestedAction,omitempty"`
}

// Summary aggregates the verdicts of a batch.
// Validated + NeedsRecapture + Flagged always equals Total.
type Summary struct {
	Total          int `json:"total"`
	Validated      int `json:"validated"`
	NeedsRecapture int `json:"needsRecapture"`
	Flagged        int `json:"flagged"`
}

// BatchResult is the outcome of ComputeAllMeasurements
type BatchResult struct {
	Measurements []ComputedMeasurement `json:"measurements"`
	Validations  map[string]Validation `json:"validations"`
	Results      []Result              `json:"results"`
	Summary      Summary               `json:"summary"`
}

// Estimate is the unrounded output of a single estimator
type Estimate struct {
	Value          float64
	Confidence     float64
	Quality        Quality
	DegradedReason string
	Debug          DebugInfo
}

func (e *Estimate) degrade(reason string) {
	e.Quality = QualityDegraded
	if e.DegradedReason == "" {
		e.DegradedReason = reason
	} else {
		e.DegradedReason += "; " + reason
	}
}
