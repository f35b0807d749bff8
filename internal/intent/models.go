// internal/intent/models.go
package intent

// Result sources. Fallback sources are prefixed "fallback:" so callers can
// distinguish the deterministic path without parsing the reason.
const (
	SourceModel                 = "model"
	SourceFallbackLowConfidence = "fallback:low_confidence"
	SourceFallbackNoModel       = "fallback:no_model"
)

// Interpretation is the canonical classifier output for one utterance.
type Interpretation struct {
	Intent     string            `json:"intent"`
	Confidence float64           `json:"confidence"`
	Slots      map[string]string `json:"slots"`
	Source     string            `json:"source"`
}

// AsPayload returns the map form of the interpretation for callers that
// serialize it toward the conversation orchestrator.
func (i Interpretation) AsPayload() map[string]interface{} {
	return map[string]interface{}{
		"intent":     i.Intent,
		"confidence": i.Confidence,
		"slots":      i.Slots,
		"source":     i.Source,
	}
}
