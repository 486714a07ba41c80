package catalog

import (
	"errors"
	"testing"

	"github.com/LopeWale/TailorMode-sub000/pkg/measurement"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()

	assert.Len(t, c.Definitions(), 24)
	assert.Len(t, c.Presets(), 6)
	assert.Len(t, c.Landmarks(), 36)

	chest, err := c.Definition("chest")
	require.NoError(t, err)
	assert.Equal(t, measurement.TypeCircumference, chest.Type)
	assert.Equal(t, "chest_center", chest.LandmarkStart)
	assert.Equal(t, 0.85, chest.MinConfidence)
	assert.Equal(t, []measurement.View{"front", "back", "left", "right"}, chest.CaptureRequirements)

	forearm, err := c.Definition("forearm")
	require.NoError(t, err)
	assert.Equal(t, measurement.TypeLimbCircumference, forearm.Type)
	assert.Equal(t, 0.4, forearm.Fraction)
}

func TestEstimatedLandmarksCoverCatalog(t *testing.T) {
	landmarks, err := measurement.EstimateLandmarksFromHeight(170)
	require.NoError(t, err)

	for _, d := range Default().Definitions() {
		assert.Contains(t, landmarks, d.LandmarkStart, d.ID)
		assert.Contains(t, landmarks, d.LandmarkEnd, d.ID)
	}
}

func TestDefinitionIsACopy(t *testing.T) {
	c := Default()

	d, err := c.Definition("neck")
	require.NoError(t, err)
	d.CaptureRequirements[0] = "left"
	d.MinConfidence = 0

	again, err := c.Definition("neck")
	require.NoError(t, err)
	assert.Equal(t, []measurement.View{"front", "back"}, again.CaptureRequirements)
	assert.Equal(t, 0.80, again.MinConfidence)

	all := c.Definitions()
	all[0].CaptureRequirements[0] = "left"
	chest, _ := c.Definition("chest")
	assert.Equal(t, measurement.ViewFront, chest.CaptureRequirements[0])

	p, err := c.Preset("vest")
	require.NoError(t, err)
	p.RequiredMeasurements[0] = "bust"
	p, _ = c.Preset("vest")
	assert.Equal(t, "chest", p.RequiredMeasurements[0])
}

func TestUnknownLookups(t *testing.T) {
	c := Default()

	_, err := c.Definition("ankle")
	assert.True(t, errors.Is(err, ErrUnknownMeasurement))

	_, err = c.Resolve([]string{"chest", "ankle"})
	assert.True(t, errors.Is(err, ErrUnknownMeasurement))

	_, err = c.Preset("kilt")
	assert.True(t, errors.Is(err, ErrUnknownPreset))

	_, err = c.DefinitionsForPreset("kilt")
	assert.True(t, errors.Is(err, ErrUnknownPreset))
}

func TestDefinitionsForPreset(t *testing.T) {
	c := Default()

	defs, err := c.DefinitionsForPreset("pants")
	require.NoError(t, err)
	ids := make([]string, len(defs))
	for i, d := range defs {
		ids[i] = d.ID
	}
	if diff := cmp.Diff([]string{"waist", "hip", "inseam", "outseam", "thigh"}, ids); diff != "" {
		t.Errorf("pants measurements mismatch (-want +got):\n%s", diff)
	}

	optional, err := c.OptionalForPreset("skirt")
	require.NoError(t, err)
	require.Len(t, optional, 1)
	assert.Equal(t, "thigh", optional[0].ID)
}

func TestRequiredCaptureViews(t *testing.T) {
	c := Default()

	tests := []struct {
		name string
		ids  []string
		want []measurement.View
	}{
		{"single", []string{"shoulder_width"}, []measurement.View{"back"}},
		{"union in first-seen order", []string{"calf", "neck", "inseam"}, []measurement.View{"right", "front", "back", "left"}},
		{"unknown ignored", []string{"ankle", "wrist"}, []measurement.View{"right"}},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.RequiredCaptureViews(tt.ids))
		})
	}
}

func TestLandmarkDictionary(t *testing.T) {
	c := Default()

	info, ok := c.Landmark("waist_back")
	require.True(t, ok)
	assert.Equal(t, LandmarkInfo{ID: "waist_back", Name: "Waist Back", Description: "Back center of waist", Region: RegionTorso}, info)

	_, ok = c.Landmark("tail")
	assert.False(t, ok)
}

func TestParseRejectsInconsistentCatalog(t *testing.T) {
	tests := map[string]string{
		"unknown landmark": `
landmarks: [{id: a, name: A, description: a, region: head}]
measurements:
  - {id: m, type: distance, landmark_start: a, landmark_end: b, capture_requirements: [front], min_confidence: 0.5}
`,
		"unknown type": `
landmarks: [{id: a, name: A, description: a, region: head}]
measurements:
  - {id: m, type: volume, landmark_start: a, landmark_end: a, capture_requirements: [front], min_confidence: 0.5}
`,
		"duplicate measurement": `
landmarks: [{id: a, name: A, description: a, region: head}]
measurements:
  - {id: m, type: distance, landmark_start: a, landmark_end: a, capture_requirements: [front], min_confidence: 0.5}
  - {id: m, type: distance, landmark_start: a, landmark_end: a, capture_requirements: [front], min_confidence: 0.5}
`,
		"preset references unknown measurement": `
landmarks: [{id: a, name: A, description: a, region: head}]
presets:
  - {id: p, required_measurements: [m]}
`,
		"no views": `
landmarks: [{id: a, name: A, description: a, region: head}]
measurements:
  - {id: m, type: distance, landmark_start: a, landmark_end: a, min_confidence: 0.5}
`,
	}

	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadRejectsExtension(t *testing.T) {
	_, err := Load("catalog.json")
	assert.Error(t, err)
}
