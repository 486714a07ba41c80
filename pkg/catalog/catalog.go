// Package catalog provides the read-only measurement catalog: the landmark
// dictionary, the measurement definitions and the clothing presets.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/LopeWale/TailorMode-sub000/pkg/measurement"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

var (
	ErrUnknownMeasurement = errors.New("unknown measurement")
	ErrUnknownPreset      = errors.New("unknown preset")
)

// Body regions used by the landmark dictionary
const (
	RegionHead  = "head"
	RegionTorso = "torso"
	RegionArms  = "arms"
	RegionLegs  = "legs"
)

// LandmarkInfo describes a landmark in the dictionary
type LandmarkInfo struct {
	ID          string `yaml:"id" json:"id"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Region      string `yaml:"region" json:"region"`
}

// Preset is a garment type with the measurements it needs
type Preset struct {
	ID                   string             `yaml:"id" json:"id"`
	Name                 string             `yaml:"name" json:"name"`
	DisplayName          string             `yaml:"display_name" json:"displayName"`
	Description          string             `yaml:"description" json:"description"`
	Icon                 string             `yaml:"icon" json:"icon"`
	RequiredMeasurements []string           `yaml:"required_measurements" json:"requiredMeasurements"`
	OptionalMeasurements []string           `yaml:"optional_measurements" json:"optionalMeasurements"`
	CaptureViews         []measurement.View `yaml:"capture_views" json:"captureViews"`
	FitGuidance          string             `yaml:"fit_guidance" json:"fitGuidance"`
}

type catalogFile struct {
	Landmarks    []LandmarkInfo           `yaml:"landmarks"`
	Measurements []measurement.Definition `yaml:"measurements"`
	Presets      []Preset                 `yaml:"presets"`
}

// Catalog is immutable after construction. Every accessor returns copies,
// so callers may modify what they get back.
type Catalog struct {
	landmarks   []LandmarkInfo
	definitions []measurement.Definition
	presets     []Preset

	landmarkIndex   map[string]int
	definitionIndex map[string]int
	presetIndex     map[string]int
}

// Default returns the embedded catalog
func Default() *Catalog {
	c, err := Parse(catalogYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog.yaml: %v", err))
	}
	return c
}

// Load reads a catalog file in the embedded catalog's layout
func Load(path string) (*Catalog, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("catalog file must have .yaml or .yml extension, got %q", ext)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and cross-checks catalog content
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{
		landmarks:       f.Landmarks,
		definitions:     f.Measurements,
		presets:         f.Presets,
		landmarkIndex:   make(map[string]int, len(f.Landmarks)),
		definitionIndex: make(map[string]int, len(f.Measurements)),
		presetIndex:     make(map[string]int, len(f.Presets)),
	}

	for i, l := range c.landmarks {
		if _, dup := c.landmarkIndex[l.ID]; dup || l.ID == "" {
			return nil, fmt.Errorf("landmark %d: missing or duplicate id %q", i, l.ID)
		}
		c.landmarkIndex[l.ID] = i
	}
	for i, d := range c.definitions {
		if _, dup := c.definitionIndex[d.ID]; dup || d.ID == "" {
			return nil, fmt.Errorf("measurement %d: missing or duplicate id %q", i, d.ID)
		}
		if err := c.checkDefinition(d); err != nil {
			return nil, fmt.Errorf("measurement %s: %w", d.ID, err)
		}
		c.definitionIndex[d.ID] = i
	}
	for i, p := range c.presets {
		if _, dup := c.presetIndex[p.ID]; dup || p.ID == "" {
			return nil, fmt.Errorf("preset %d: missing or duplicate id %q", i, p.ID)
		}
		for _, id := range append(slices.Clip(p.RequiredMeasurements), p.OptionalMeasurements...) {
			if _, ok := c.definitionIndex[id]; !ok {
				return nil, fmt.Errorf("preset %s: %w: %s", p.ID, ErrUnknownMeasurement, id)
			}
		}
		c.presetIndex[p.ID] = i
	}

	return c, nil
}

func (c *Catalog) checkDefinition(d measurement.Definition) error {
	switch d.Type {
	case measurement.TypeCircumference, measurement.TypeLength, measurement.TypeDistance, measurement.TypeLimbCircumference:
	default:
		return fmt.Errorf("unsupported type %q", d.Type)
	}
	for _, id := range []string{d.LandmarkStart, d.LandmarkEnd} {
		if _, ok := c.landmarkIndex[id]; !ok {
			return fmt.Errorf("unknown landmark %q", id)
		}
	}
	if d.MinConfidence < 0 || d.MinConfidence > 1 {
		return fmt.Errorf("min_confidence must be in [0, 1], got %f", d.MinConfidence)
	}
	if len(d.CaptureRequirements) == 0 {
		return errors.New("at least one capture view is required")
	}
	return nil
}

func cloneDefinition(d measurement.Definition) measurement.Definition {
	d.CaptureRequirements = slices.Clone(d.CaptureRequirements)
	return d
}

func clonePreset(p Preset) Preset {
	p.RequiredMeasurements = slices.Clone(p.RequiredMeasurements)
	p.OptionalMeasurements = slices.Clone(p.OptionalMeasurements)
	p.CaptureViews = slices.Clone(p.CaptureViews)
	return p
}

// Definition looks up a measurement definition
func (c *Catalog) Definition(id string) (measurement.Definition, error) {
	i, ok := c.definitionIndex[id]
	if !ok {
		return measurement.Definition{}, fmt.Errorf("%w: %s", ErrUnknownMeasurement, id)
	}
	return cloneDefinition(c.definitions[i]), nil
}

// Definitions returns every definition in catalog order
func (c *Catalog) Definitions() []measurement.Definition {
	out := make([]measurement.Definition, len(c.definitions))
	for i, d := range c.definitions {
		out[i] = cloneDefinition(d)
	}
	return out
}

// Resolve looks up definitions by id, preserving order
func (c *Catalog) Resolve(ids []string) ([]measurement.Definition, error) {
	out := make([]measurement.Definition, 0, len(ids))
	for _, id := range ids {
		d, err := c.Definition(id)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Preset looks up a clothing preset
func (c *Catalog) Preset(id string) (Preset, error) {
	i, ok := c.presetIndex[id]
	if !ok {
		return Preset{}, fmt.Errorf("%w: %s", ErrUnknownPreset, id)
	}
	return clonePreset(c.presets[i]), nil
}

// Presets returns every preset in catalog order
func (c *Catalog) Presets() []Preset {
	out := make([]Preset, len(c.presets))
	for i, p := range c.presets {
		out[i] = clonePreset(p)
	}
	return out
}

// DefinitionsForPreset returns the required measurements of a preset
func (c *Catalog) DefinitionsForPreset(presetID string) ([]measurement.Definition, error) {
	p, err := c.Preset(presetID)
	if err != nil {
		return nil, err
	}
	return c.Resolve(p.RequiredMeasurements)
}

// OptionalForPreset returns the optional measurements of a preset
func (c *Catalog) OptionalForPreset(presetID string) ([]measurement.Definition, error) {
	p, err := c.Preset(presetID)
	if err != nil {
		return nil, err
	}
	return c.Resolve(p.OptionalMeasurements)
}

// RequiredCaptureViews returns the union of the capture views of the given
// measurements in first-seen order. Unknown ids are ignored.
func (c *Catalog) RequiredCaptureViews(ids []string) []measurement.View {
	var views []measurement.View
	for _, id := range ids {
		i, ok := c.definitionIndex[id]
		if !ok {
			continue
		}
		for _, v := range c.definitions[i].CaptureRequirements {
			if !slices.Contains(views, v) {
				views = append(views, v)
			}
		}
	}
	return views
}

// Landmark looks up a landmark in the dictionary
func (c *Catalog) Landmark(id string) (LandmarkInfo, bool) {
	i, ok := c.landmarkIndex[id]
	if !ok {
		return LandmarkInfo{}, false
	}
	return c.landmarks[i], true
}

// Landmarks returns the landmark dictionary in catalog order
func (c *Catalog) Landmarks() []LandmarkInfo {
	return slices.Clone(c.landmarks)
}
