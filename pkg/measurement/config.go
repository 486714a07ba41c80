package measurement

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// maxConfigSize bounds config files read from disk
const maxConfigSize = 1 << 20

// minAttempts is the smallest accepted capture budget. No measurement is
// flagged before its third attempt.
const minAttempts = 3

// Range is an inclusive plausible value range in centimeters
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Contains reports whether v lies within the range
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// GeodesicFactor calibrates the straight-line distance between two landmarks
// to a surface path length. The pair is unordered.
type GeodesicFactor struct {
	Start  string  `yaml:"start"`
	End    string  `yaml:"end"`
	Factor float64 `yaml:"factor"`
}

// Config holds the engine tuning. It is built once and shared read-only
// between engines and sessions.
type Config struct {
	MinSlicePoints    int     `yaml:"min_slice_points"`
	SparseSlicePoints int     `yaml:"sparse_slice_points"`
	OutOfRangePenalty float64 `yaml:"out_of_range_penalty"`
	SparsePenalty     float64 `yaml:"sparse_penalty"`
	LimbFraction      float64 `yaml:"limb_fraction"`

	GeodesicConfidenceFactor float64          `yaml:"geodesic_confidence_factor"`
	GeodesicFactors          []GeodesicFactor `yaml:"geodesic_factors"`

	// MaxAttempts is the capture budget before a low-confidence result is
	// flagged; at least 3.
	MaxAttempts int `yaml:"max_attempts"`

	DefaultRange   Range            `yaml:"default_range"`
	ExpectedRanges map[string]Range `yaml:"expected_ranges"`

	ProxySegments   int                `yaml:"proxy_segments"`
	ProxyBandHeight float64            `yaml:"proxy_band_height"`
	ProxyRadii      map[string]float64 `yaml:"proxy_radii"`
}

// DefaultConfig returns the embedded defaults
func DefaultConfig() *Config {
	cfg, err := parseConfig(defaultsYAML, &Config{})
	if err != nil {
		panic(fmt.Sprintf("embedded defaults.yaml: %v", err))
	}
	return cfg
}

// LoadConfig reads a YAML tuning file. Keys absent from the file keep their
// default values; expected_ranges and proxy_radii entries are merged into the
// defaults, geodesic_factors replaces the default table when present.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("config file must have .yaml or .yml extension, got %q", ext)
	}

	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := parseConfig(data, DefaultConfig())
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseConfig(data []byte, base *Config) (*Config, error) {
	if err := yaml.Unmarshal(data, base); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}
	if err := base.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return base, nil
}

// Validate checks that the configuration values are usable
func (c *Config) Validate() error {
	if c.MinSlicePoints < 3 {
		return fmt.Errorf("min_slice_points must be at least 3, got %d", c.MinSlicePoints)
	}
	if c.SparseSlicePoints < c.MinSlicePoints {
		return fmt.Errorf("sparse_slice_points (%d) must not be below min_slice_points (%d)", c.SparseSlicePoints, c.MinSlicePoints)
	}
	for name, v := range map[string]float64{
		"out_of_range_penalty":       c.OutOfRangePenalty,
		"sparse_penalty":             c.SparsePenalty,
		"geodesic_confidence_factor": c.GeodesicConfidenceFactor,
	} {
		if v <= 0 || v > 1 {
			return fmt.Errorf("%s must be in (0, 1], got %f", name, v)
		}
	}
	if c.LimbFraction <= 0 || c.LimbFraction >= 1 {
		return fmt.Errorf("limb_fraction must be in (0, 1), got %f", c.LimbFraction)
	}
	if c.MaxAttempts < minAttempts {
		return fmt.Errorf("max_attempts must be at least %d, got %d", minAttempts, c.MaxAttempts)
	}
	if c.DefaultRange.Min >= c.DefaultRange.Max {
		return fmt.Errorf("default_range min %f must be below max %f", c.DefaultRange.Min, c.DefaultRange.Max)
	}
	for id, r := range c.ExpectedRanges {
		if r.Min >= r.Max {
			return fmt.Errorf("expected_ranges.%s: min %f must be below max %f", id, r.Min, r.Max)
		}
	}
	for i, f := range c.GeodesicFactors {
		if f.Start == "" || f.End == "" {
			return fmt.Errorf("geodesic_factors[%d]: start and end are required", i)
		}
		if f.Factor <= 0 {
			return fmt.Errorf("geodesic_factors[%d]: factor must be positive, got %f", i, f.Factor)
		}
	}
	if c.ProxySegments < 3 {
		return fmt.Errorf("proxy_segments must be at least 3, got %d", c.ProxySegments)
	}
	if c.ProxyBandHeight <= 0 {
		return fmt.Errorf("proxy_band_height must be positive, got %f", c.ProxyBandHeight)
	}
	for id, r := range c.ProxyRadii {
		if r <= 0 {
			return fmt.Errorf("proxy_radii.%s must be positive, got %f", id, r)
		}
	}
	return nil
}

// ExpectedRange returns the plausible circumference range for a landmark
func (c *Config) ExpectedRange(landmarkID string) Range {
	if r, ok := c.ExpectedRanges[landmarkID]; ok {
		return r
	}
	return c.DefaultRange
}
