package measurement

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateLandmarksFromHeight(t *testing.T) {
	landmarks, err := EstimateLandmarksFromHeight(180)
	require.NoError(t, err)
	assert.Len(t, landmarks, 33)

	for id, l := range landmarks {
		assert.Equal(t, id, l.ID)
		assert.Equal(t, EstimatedConfidence, l.Confidence)
		assert.Equal(t, DetectionEstimated, l.DetectionMethod)
	}

	assert.InDelta(t, 1.8, landmarks["crown"].Position.Y, 1e-12)
	assert.InDelta(t, 0.72*1.8, landmarks["chest_center"].Position.Y, 1e-12)
	assert.InDelta(t, 0.05*1.8, landmarks["chest_center"].Position.Z, 1e-12)
	assert.InDelta(t, -0.28*1.8, landmarks["wrist_left"].Position.X, 1e-12)
	assert.Zero(t, landmarks["floor"].Position.Y)
}

func TestEstimateLandmarksFromHeightRejectsNonPositive(t *testing.T) {
	for _, h := range []float64{0, -170} {
		_, err := EstimateLandmarksFromHeight(h)
		assert.Error(t, err, "height %v", h)
	}
}

func TestProxyBodyCoversConfiguredLandmarks(t *testing.T) {
	e := New(nil)
	landmarks, err := EstimateLandmarksFromHeight(170)
	require.NoError(t, err)

	body := e.ProxyBody(landmarks)
	require.NoError(t, body.Validate())

	segments := e.Config().ProxySegments
	perCylinder := 2*segments + 2
	assert.Equal(t, len(e.Config().ProxyRadii)*perCylinder, body.VertexCount())
	assert.Equal(t, 1.0, body.Scale)
}

func TestProxyBodySkipsAbsentLandmarks(t *testing.T) {
	e := New(nil)
	body := e.ProxyBody(Landmarks{"chest_center": landmark("chest_center", 0, 1.2, 0, 1)})
	assert.Equal(t, 2*e.Config().ProxySegments+2, body.VertexCount())

	assert.Zero(t, e.ProxyBody(nil).VertexCount())
}

func TestLandmarkFileRoundTrip(t *testing.T) {
	want := Landmarks{
		"chest_center": landmark("chest_center", 0, 1.25, 0.08, 0.92),
		"waist_center": {ID: "waist_center", Confidence: 0.6, DetectionMethod: DetectionEstimated},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLandmarks(&buf, want))

	got, err := ParseLandmarks(buf.Bytes())
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("landmarks mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadLandmarksJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "landmarks.json")
	data := `{"landmarks": {"neck_base": {"position": [0, 1.45, 0], "confidence": 0.8}}}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	landmarks, err := LoadLandmarks(path)
	require.NoError(t, err)
	require.Contains(t, landmarks, "neck_base")
	assert.Equal(t, DetectionManual, landmarks["neck_base"].DetectionMethod)
	assert.Equal(t, 1.45, landmarks["neck_base"].Position.Y)
}

func TestParseLandmarksErrors(t *testing.T) {
	tests := map[string]string{
		"confidence": "landmarks:\n  a: {position: [0, 0, 0], confidence: 1.5}\n",
		"method":     "landmarks:\n  a: {position: [0, 0, 0], confidence: 0.5, method: lidar}\n",
		"position":   "landmarks:\n  a: {position: [0, 0], confidence: 0.5}\n",
		"syntax":     "landmarks: [",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseLandmarks([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestLoadLandmarksRejectsExtension(t *testing.T) {
	_, err := LoadLandmarks("landmarks.txt")
	assert.Error(t, err)
}
