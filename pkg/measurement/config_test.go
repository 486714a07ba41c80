package measurement

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 10, cfg.MinSlicePoints)
	assert.Equal(t, 50, cfg.SparseSlicePoints)
	assert.Equal(t, 3, cfg.MaxAttempts)
	assert.Equal(t, Range{Min: 70, Max: 150}, cfg.ExpectedRange("chest_center"))
	assert.Equal(t, Range{Min: 12, Max: 22}, cfg.ExpectedRange("wrist_right"))
	assert.Equal(t, Range{Min: 10, Max: 200}, cfg.ExpectedRange("crown"))
	assert.Len(t, cfg.GeodesicFactors, 5)
}

func TestDefaultConfigIsIndependent(t *testing.T) {
	a := DefaultConfig()
	a.ExpectedRanges["chest_center"] = Range{Min: 1, Max: 2}

	b := DefaultConfig()
	assert.Equal(t, Range{Min: 70, Max: 150}, b.ExpectedRange("chest_center"))
}

func TestLoadConfigMergesOverrides(t *testing.T) {
	path := writeConfig(t, "tuning.yaml", `
max_attempts: 5
expected_ranges:
  chest_center: { min: 60, max: 160 }
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.MaxAttempts)
	assert.Equal(t, Range{Min: 60, Max: 160}, cfg.ExpectedRange("chest_center"))
	assert.Equal(t, Range{Min: 55, Max: 130}, cfg.ExpectedRange("waist_center"), "untouched entries keep defaults")
	assert.Equal(t, 10, cfg.MinSlicePoints)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name, file, data string
	}{
		{"extension", "tuning.json", `{}`},
		{"syntax", "tuning.yaml", "max_attempts: [1"},
		{"penalty", "tuning.yaml", "sparse_penalty: 1.5"},
		{"range", "tuning.yaml", "expected_ranges:\n  chest_center: { min: 150, max: 70 }\n"},
		{"factor", "tuning.yaml", "geodesic_factors:\n  - { start: a, end: b, factor: 0 }\n"},
		{"slice points", "tuning.yaml", "min_slice_points: 60"},
		{"attempts", "tuning.yaml", "max_attempts: 2"},
		{"no attempts", "tuning.yaml", "max_attempts: 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.file, tt.data))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestGeodesicOverrideReplacesTable(t *testing.T) {
	path := writeConfig(t, "tuning.yml", "geodesic_factors:\n  - { start: neck_base, end: wrist_right, factor: 1.1 }\n")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	e := New(cfg)
	f, ok := e.GeodesicFactor("wrist_right", "neck_base")
	assert.True(t, ok)
	assert.Equal(t, 1.1, f)

	_, ok = e.GeodesicFactor("crotch", "floor")
	assert.False(t, ok)
}
