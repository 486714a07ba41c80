package measurement

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/LopeWale/TailorMode-sub000/pkg/geometry"
	"github.com/LopeWale/TailorMode-sub000/pkg/mesh"
	"gopkg.in/yaml.v3"
)

// EstimatedConfidence is assigned to every landmark derived from height alone
const EstimatedConfidence = 0.6

// bodyFraction positions a landmark as a fraction of standing height.
// x is lateral (negative is the subject's left), z is forward.
type bodyFraction struct {
	id      string
	y, x, z float64
}

var heightFractions = []bodyFraction{
	{"crown", 1.0, 0, 0},
	{"chin", 0.87, 0, 0.02},
	{"neck_base", 0.82, 0, 0},
	{"neck_front", 0.82, 0, 0.03},
	{"shoulder_left", 0.80, -0.10, 0},
	{"shoulder_right", 0.80, 0.10, 0},
	{"shoulder_point_left", 0.80, -0.12, 0},
	{"shoulder_point_right", 0.80, 0.12, 0},
	{"chest_center", 0.72, 0, 0.05},
	{"bust_point_left", 0.72, -0.06, 0.06},
	{"bust_point_right", 0.72, 0.06, 0.06},
	{"waist_center", 0.60, 0, 0.04},
	{"waist_front", 0.60, 0, 0.05},
	{"waist_back", 0.60, 0, -0.03},
	{"hip_center", 0.52, 0, 0.04},
	{"hip_left", 0.52, -0.09, 0},
	{"hip_right", 0.52, 0.09, 0},
	{"crotch", 0.47, 0, 0.02},
	{"thigh_left", 0.42, -0.06, 0.02},
	{"thigh_right", 0.42, 0.06, 0.02},
	{"knee_left", 0.28, -0.05, 0.02},
	{"knee_right", 0.28, 0.05, 0.02},
	{"calf_left", 0.20, -0.04, 0.02},
	{"calf_right", 0.20, 0.04, 0.02},
	{"ankle_left", 0.05, -0.04, 0},
	{"ankle_right", 0.05, 0.04, 0},
	{"floor", 0, 0, 0},
	{"elbow_left", 0.62, -0.22, 0},
	{"elbow_right", 0.62, 0.22, 0},
	{"wrist_left", 0.48, -0.28, 0.02},
	{"wrist_right", 0.48, 0.28, 0.02},
	{"bicep_left", 0.70, -0.16, 0},
	{"bicep_right", 0.70, 0.16, 0},
}

// EstimateLandmarksFromHeight places the standard landmarks on a generic
// body of the given height. Positions are in meters with the floor at y=0.
func EstimateLandmarksFromHeight(heightCm float64) (Landmarks, error) {
	if heightCm <= 0 {
		return nil, fmt.Errorf("height must be positive, got %.1f cm", heightCm)
	}

	h := heightCm / 100
	landmarks := make(Landmarks, len(heightFractions))
	for _, f := range heightFractions {
		landmarks[f.id] = Landmark{
			ID:              f.id,
			Position:        geometry.NewVector3(f.x*h, f.y*h, f.z*h),
			Confidence:      EstimatedConfidence,
			DetectionMethod: DetectionEstimated,
		}
	}
	return landmarks, nil
}

// ProxyBody builds a stand-in mesh for circumference measurements when no
// reconstruction exists: one short closed cylinder per configured landmark,
// centred on it. Landmarks without a configured radius are skipped.
func (e *Engine) ProxyBody(landmarks Landmarks) *mesh.Mesh {
	ids := make([]string, 0, len(e.cfg.ProxyRadii))
	for id := range e.cfg.ProxyRadii {
		if _, ok := landmarks[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	up := geometry.NewVector3(0, 1, 0)
	half := e.cfg.ProxyBandHeight / 2
	parts := make([]*mesh.Mesh, 0, len(ids))
	for _, id := range ids {
		base := landmarks[id].Position.Sub(up.Scale(half))
		parts = append(parts, mesh.NewCylinder(base, up, e.cfg.ProxyRadii[id], e.cfg.ProxyBandHeight, e.cfg.ProxySegments, 1))
	}

	body := mesh.Merge(parts...)
	body.Name = "proxy body"
	body.Scale = 1
	return body
}

// landmarkEntry is the on-disk form of a landmark
type landmarkEntry struct {
	Position   [3]float64      `yaml:"position"`
	Confidence float64         `yaml:"confidence"`
	Method     DetectionMethod `yaml:"method,omitempty"`
}

type landmarkFile struct {
	Landmarks map[string]landmarkEntry `yaml:"landmarks"`
}

// LoadLandmarks reads a landmark file. YAML and JSON share the same layout:
//
//	landmarks:
//	  chest_center: {position: [0, 1.22, 0.08], confidence: 0.9, method: smpl}
//
// A missing method defaults to manual.
func LoadLandmarks(path string) (Landmarks, error) {
	cleanPath := filepath.Clean(path)
	switch ext := filepath.Ext(cleanPath); ext {
	case ".yaml", ".yml", ".json":
	default:
		return nil, fmt.Errorf("landmark file must be .yaml, .yml or .json, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read landmark file: %w", err)
	}
	return ParseLandmarks(data)
}

// ParseLandmarks decodes landmark file content
func ParseLandmarks(data []byte) (Landmarks, error) {
	var f landmarkFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse landmarks: %w", err)
	}

	landmarks := make(Landmarks, len(f.Landmarks))
	for id, entry := range f.Landmarks {
		if entry.Confidence < 0 || entry.Confidence > 1 {
			return nil, fmt.Errorf("landmark %s: confidence must be in [0, 1], got %f", id, entry.Confidence)
		}
		method := entry.Method
		switch method {
		case "":
			method = DetectionManual
		case DetectionSMPL, DetectionManual, DetectionEstimated:
		default:
			return nil, fmt.Errorf("landmark %s: unknown detection method %q", id, method)
		}
		landmarks[id] = Landmark{
			ID:              id,
			Position:        geometry.NewVector3(entry.Position[0], entry.Position[1], entry.Position[2]),
			Confidence:      entry.Confidence,
			DetectionMethod: method,
		}
	}
	return landmarks, nil
}

// WriteLandmarks encodes landmarks in the landmark file layout
func WriteLandmarks(w io.Writer, landmarks Landmarks) error {
	f := landmarkFile{Landmarks: make(map[string]landmarkEntry, len(landmarks))}
	for id, l := range landmarks {
		f.Landmarks[id] = landmarkEntry{
			Position:   [3]float64{l.Position.X, l.Position.Y, l.Position.Z},
			Confidence: l.Confidence,
			Method:     l.DetectionMethod,
		}
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("failed to encode landmarks: %w", err)
	}
	return enc.Close()
}
