package measurement

import (
	"fmt"
	"math"
	"strings"
)

const flaggedAction = "This measurement has been flagged for manual review by the tailor."

// ValidateAndUpdateResult applies one capture attempt to the previous result.
//
// The attempt counter is incremented first. A confidence at or above the
// definition minimum validates the result; otherwise the result is flagged
// once the attempt budget is spent and stays pending with recapture guidance
// before that. Terminal results are returned unchanged.
func (e *Engine) ValidateAndUpdateResult(computed ComputedMeasurement, def Definition, previous Result) (Result, Validation) {
	if previous.Status.Terminal() {
		return previous, terminalValidation(previous)
	}

	updated := Result{
		MeasurementID:   computed.MeasurementID,
		Value:           computed.Value,
		Unit:            computed.Unit,
		Confidence:      computed.Confidence,
		CaptureAttempts: previous.CaptureAttempts + 1,
		Status:          StatusPending,
	}

	if computed.Confidence >= def.MinConfidence {
		updated.Status = StatusValidated
		return updated, Validation{IsValid: true}
	}

	if updated.CaptureAttempts >= e.cfg.MaxAttempts {
		reason := e.flagReason()
		updated.Status = StatusFlagged
		updated.FlagReason = reason
		return updated, Validation{
			ShouldFlag:      true,
			Reason:          reason,
			SuggestedAction: flaggedAction,
		}
	}

	return updated, Validation{
		ShouldRecapture: true,
		Reason: fmt.Sprintf("Confidence %.0f%% below minimum %.0f%%",
			roundPercent(computed.Confidence), roundPercent(def.MinConfidence)),
		SuggestedAction: RecaptureGuidance(def, computed.Confidence),
	}
}

// roundPercent converts a [0,1] score to a whole percentage, rounding halves up
func roundPercent(v float64) float64 {
	return math.Floor(v*100 + 0.5)
}

func (e *Engine) flagReason() string {
	return fmt.Sprintf("Low confidence after %d attempts - flagged for manual review", e.cfg.MaxAttempts)
}

func terminalValidation(r Result) Validation {
	if r.Status == StatusValidated {
		return Validation{IsValid: true}
	}
	return Validation{
		ShouldFlag:      true,
		Reason:          r.FlagReason,
		SuggestedAction: flaggedAction,
	}
}

// RecaptureGuidance tells the user how to improve a low-confidence capture
func RecaptureGuidance(def Definition, confidence float64) string {
	views := make([]string, len(def.CaptureRequirements))
	for i, v := range def.CaptureRequirements {
		views[i] = string(v)
	}
	viewsNeeded := strings.Join(views, ", ")

	switch {
	case confidence < 0.5:
		return fmt.Sprintf("Low confidence on %s. Please ensure good lighting and hold still during the %s capture(s).",
			def.DisplayName, viewsNeeded)
	case confidence < 0.7:
		return fmt.Sprintf("%s needs better visibility. Make sure your %s is clearly visible in the %s view(s).",
			def.DisplayName, strings.ToLower(def.Description), viewsNeeded)
	default:
		return fmt.Sprintf("Please recapture the %s view(s) for more accurate %s measurement.",
			viewsNeeded, def.DisplayName)
	}
}
