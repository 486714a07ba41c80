package measurement

import (
	"fmt"

	"github.com/LopeWale/TailorMode-sub000/pkg/mesh"
)

// ComputeAllMeasurements computes and validates every definition against the
// same mesh and landmarks. A definition that cannot be computed does not stop
// the batch: it counts as an attempt and is sent to recapture, or flagged when
// the attempt budget is spent.
func (e *Engine) ComputeAllMeasurements(m *mesh.Mesh, landmarks Landmarks, defs []Definition, previous []Result) BatchResult {
	byID := make(map[string]Result, len(previous))
	for _, r := range previous {
		byID[r.MeasurementID] = r
	}

	batch := BatchResult{
		Measurements: make([]ComputedMeasurement, 0, len(defs)),
		Validations:  make(map[string]Validation, len(defs)),
		Results:      make([]Result, 0, len(defs)),
		Summary:      Summary{Total: len(defs)},
	}
	cache := make(sliceCache)

	for _, def := range defs {
		prev, ok := byID[def.ID]
		if !ok {
			prev = NewResult(def.ID)
		}

		var (
			result     Result
			validation Validation
		)
		computed, err := e.compute(m, landmarks, def, cache)
		if err != nil {
			result, validation = e.failAttempt(def, prev, err)
		} else {
			batch.Measurements = append(batch.Measurements, computed)
			result, validation = e.ValidateAndUpdateResult(computed, def, prev)
		}

		batch.Validations[def.ID] = validation
		batch.Results = append(batch.Results, result)

		switch {
		case validation.IsValid:
			batch.Summary.Validated++
		case validation.ShouldFlag:
			batch.Summary.Flagged++
		default:
			batch.Summary.NeedsRecapture++
		}
	}

	return batch
}

// failAttempt records an attempt whose measurement could not be computed
func (e *Engine) failAttempt(def Definition, prev Result, err error) (Result, Validation) {
	if prev.Status.Terminal() {
		return prev, terminalValidation(prev)
	}

	reason := fmt.Sprintf("Could not compute measurement: %v", err)
	flag := prev.CaptureAttempts >= e.cfg.MaxAttempts-1

	e.logger.Warn("failed to compute measurement",
		"measurement", def.ID,
		"attempt", prev.CaptureAttempts+1,
		"flagged", flag,
		"error", err)

	result := prev
	result.CaptureAttempts++
	if result.Unit == "" {
		result.Unit = Unit
	}

	if flag {
		result.Status = StatusFlagged
		result.FlagReason = reason
		return result, Validation{
			ShouldFlag:      true,
			Reason:          reason,
			SuggestedAction: flaggedAction,
		}
	}

	result.Status = StatusPending
	return result, Validation{
		ShouldRecapture: true,
		Reason:          reason,
		SuggestedAction: RecaptureGuidance(def, 0),
	}
}
