package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/LopeWale/TailorMode-sub000/internal/logging"
	"github.com/LopeWale/TailorMode-sub000/internal/store"
	"github.com/LopeWale/TailorMode-sub000/pkg/catalog"
	"github.com/LopeWale/TailorMode-sub000/pkg/measurement"
	"github.com/LopeWale/TailorMode-sub000/pkg/mesh"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

// roundInputs are the flags shared by the commands that run capture rounds
type roundInputs struct {
	landmarksPath string
	heightCm      float64
	ids           string
	preset        string
	scale         float64
	sessionID     string
	jsonOutput    bool
}

func (in *roundInputs) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&in.landmarksPath, "landmarks", "l", "", "Landmark file (.yaml, .yml or .json)")
	flags.Float64Var(&in.heightCm, "height", 0, "Body height in cm, used to estimate landmarks when no landmark file is given")
	flags.StringVar(&in.ids, "ids", "", "Comma separated measurement ids")
	flags.StringVarP(&in.preset, "preset", "p", "", "Clothing preset whose required measurements are computed")
	flags.Float64Var(&in.scale, "scale", 1, "Meters per mesh unit (0.001 for millimeter meshes)")
	flags.StringVar(&in.sessionID, "session", "", "Session to load previous results from and record the round in")
	flags.BoolVar(&in.jsonOutput, "json", false, "Print the batch result as JSON")

	cmd.MarkFlagsMutuallyExclusive("ids", "preset", "session")
}

// capture holds everything needed to run rounds for one invocation
type capture struct {
	in       *roundInputs
	meshPath string
	engine   *measurement.Engine
	catalog  *catalog.Catalog
	store    *store.Store
	session  *store.Session
	defs     []measurement.Definition
	logger   *slog.Logger
}

func newCapture(ctx context.Context, in *roundInputs, meshPath string) (*capture, error) {
	engine, err := newEngine()
	if err != nil {
		return nil, err
	}
	cat, err := loadCatalog()
	if err != nil {
		return nil, err
	}

	c := &capture{
		in:       in,
		meshPath: meshPath,
		engine:   engine,
		catalog:  cat,
		logger:   logging.New("capture"),
	}

	switch {
	case in.sessionID != "":
		if c.store, err = openStore(); err != nil {
			return nil, err
		}
		if c.session, err = c.store.GetSession(ctx, in.sessionID); err != nil {
			c.Close()
			return nil, err
		}
		c.defs, err = cat.Resolve(c.session.MeasurementIDs())
	case in.ids != "":
		c.defs, err = cat.Resolve(splitIDs(in.ids))
	case in.preset != "":
		c.defs, err = cat.DefinitionsForPreset(in.preset)
	default:
		err = errors.New("one of --ids, --preset or --session is required")
	}
	if err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *capture) Close() error {
	if c.store != nil {
		return c.store.Close()
	}
	return nil
}

func (c *capture) landmarks() (measurement.Landmarks, error) {
	if c.in.landmarksPath != "" {
		return measurement.LoadLandmarks(c.in.landmarksPath)
	}
	height := c.in.heightCm
	if height == 0 && c.session != nil {
		height = c.session.HeightCm
	}
	if height == 0 {
		return nil, errors.New("either --landmarks or --height is required")
	}
	return measurement.EstimateLandmarksFromHeight(height)
}

func (c *capture) mesh(landmarks measurement.Landmarks) (*mesh.Mesh, error) {
	if c.meshPath == "" {
		c.logger.Info("no mesh given, measuring a proxy body built from landmarks")
		return c.engine.ProxyBody(landmarks), nil
	}
	m, err := mesh.ParseSTL(c.meshPath, c.in.scale)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mesh %s: %w", c.meshPath, err)
	}
	return m, nil
}

// run computes one round and records it when a session is attached
func (c *capture) run(ctx context.Context) (measurement.BatchResult, error) {
	landmarks, err := c.landmarks()
	if err != nil {
		return measurement.BatchResult{}, err
	}
	m, err := c.mesh(landmarks)
	if err != nil {
		return measurement.BatchResult{}, err
	}

	var previous []measurement.Result
	if c.store != nil {
		if previous, err = c.store.Results(ctx, c.session.ID); err != nil {
			return measurement.BatchResult{}, err
		}
	}

	batch := c.engine.ComputeAllMeasurements(m, landmarks, c.defs, previous)
	c.logger.Debug("round computed",
		"total", batch.Summary.Total,
		"validated", batch.Summary.Validated,
		"needs_recapture", batch.Summary.NeedsRecapture,
		"flagged", batch.Summary.Flagged)

	if c.store != nil {
		round, err := c.store.SaveRound(ctx, c.session.ID, batch)
		if err != nil {
			return batch, err
		}
		c.logger.Info("round recorded", "session", c.session.ID, "round", round.Number)
	}
	return batch, nil
}

func (c *capture) print(w io.Writer, batch measurement.BatchResult) error {
	if c.in.jsonOutput {
		return printJSON(w, batch)
	}
	printBatch(w, batch, c.defs)
	return nil
}

func printBatch(w io.Writer, batch measurement.BatchResult, defs []measurement.Definition) {
	computed := make(map[string]measurement.ComputedMeasurement, len(batch.Measurements))
	for _, m := range batch.Measurements {
		computed[m.MeasurementID] = m
	}
	names := make(map[string]string, len(defs))
	for _, d := range defs {
		names[d.ID] = d.DisplayName
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Measurement", "Value", "Confidence", "Method", "Attempts", "Status", "Notes"})
	for _, r := range batch.Results {
		method := "-"
		var notes []string
		if m, ok := computed[r.MeasurementID]; ok {
			method = string(m.ComputationMethod)
			if m.Degraded() {
				notes = append(notes, m.DegradedReason)
			}
		}
		if v := batch.Validations[r.MeasurementID]; v.Reason != "" {
			notes = append(notes, v.Reason)
		}

		name := names[r.MeasurementID]
		if name == "" {
			name = r.MeasurementID
		}
		t.AppendRow(table.Row{name, formatCm(r.Value), formatPercent(r.Confidence), method, r.CaptureAttempts, r.Status, strings.Join(notes, "; ")})
	}
	s := batch.Summary
	t.AppendFooter(table.Row{"Total", s.Total, "", "", "", fmt.Sprintf("%d validated", s.Validated), fmt.Sprintf("%d recapture, %d flagged", s.NeedsRecapture, s.Flagged)})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	t.Render()

	for _, r := range batch.Results {
		if v := batch.Validations[r.MeasurementID]; v.SuggestedAction != "" {
			fmt.Fprintf(w, "  %s: %s\n", r.MeasurementID, v.SuggestedAction)
		}
	}
}
