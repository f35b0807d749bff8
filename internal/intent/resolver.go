// internal/intent/resolver.go
package intent

import (
	"time"

	"voice-intent/internal/catalog"
	"voice-intent/internal/common/logger"
	"voice-intent/internal/common/metrics"
)

// Primary is the learned-model strategy behind the resolver. *Classifier
// satisfies it; tests substitute their own.
type Primary interface {
	Enabled() bool
	Predict(text string) (Prediction, error)
}

// Resolver is the single public entry point for intent resolution. It runs
// the primary classifier when available and degrades to the deterministic
// keyword path on low confidence, inference failure, or a missing model.
type Resolver struct {
	cfg     Config
	catalog *catalog.Catalog
	primary Primary
	log     logger.Logger
}

// NewResolver builds a resolver over the loaded catalog. primary may be nil
// for a fallback-only resolver.
func NewResolver(cfg Config, cat *catalog.Catalog, primary Primary, log logger.Logger) *Resolver {
	r := &Resolver{
		cfg:     cfg,
		catalog: cat,
		primary: primary,
		log:     log.With(map[string]interface{}{"component": "resolver"}),
	}

	for _, name := range CandidateIntents() {
		if !cat.Has(name) {
			r.log.Warn("catalog does not declare builtin fallback intent", map[string]interface{}{
				"intent": name,
			})
		}
	}

	return r
}

// Resolve never fails: classification failure is a normal operating
// condition, and the worst-case outcome is the clarify sentinel.
func (r *Resolver) Resolve(text string) Interpretation {
	start := time.Now()
	out := r.resolve(text)

	metrics.ResolutionDuration.WithLabelValues(out.Source).Observe(time.Since(start).Seconds())
	metrics.IntentResolutions.WithLabelValues(out.Source, out.Intent).Inc()
	r.log.Debug("utterance resolved", map[string]interface{}{
		"intent":     out.Intent,
		"confidence": out.Confidence,
		"source":     out.Source,
		"slotCount":  len(out.Slots),
	})
	return out
}

func (r *Resolver) resolve(text string) Interpretation {
	if r.primary == nil || !r.primary.Enabled() {
		return r.fallback(text, SourceFallbackNoModel)
	}

	pred, err := r.primary.Predict(text)
	if err != nil {
		// Inference-runtime errors mean "no model available for this call".
		r.log.WithError(err).Warn("model inference failed", nil)
		metrics.ModelFallbacks.WithLabelValues("inference_error").Inc()
		return r.fallback(text, SourceFallbackNoModel)
	}

	// A label outside the catalog means the label map and the catalog have
	// diverged; the prediction cannot be trusted.
	if !r.catalog.Has(pred.Intent) {
		r.log.Warn("model predicted an intent the catalog does not declare", map[string]interface{}{
			"intent": pred.Intent,
		})
		metrics.ModelFallbacks.WithLabelValues("unknown_label").Inc()
		return r.fallback(text, SourceFallbackNoModel)
	}

	if pred.Confidence >= r.cfg.ConfidenceThreshold {
		return Interpretation{
			Intent:     pred.Intent,
			Confidence: pred.Confidence,
			Slots:      ExtractSlots(pred.Intent, text),
			Source:     SourceModel,
		}
	}

	metrics.ModelFallbacks.WithLabelValues("low_confidence").Inc()
	return r.fallback(text, SourceFallbackLowConfidence)
}

// fallback runs the deterministic keyword path. A best score below the
// fallback threshold yields the clarify sentinel, signalling the caller to
// ask a clarification question.
func (r *Resolver) fallback(text, source string) Interpretation {
	match := Match(text)
	confidence := match.Score / 100.0

	if match.Score < r.cfg.FallbackThreshold {
		return Interpretation{
			Intent:     catalog.ClarifyIntent,
			Confidence: confidence,
			Slots:      map[string]string{},
			Source:     source,
		}
	}

	slots := ExtractSlots(match.Intent, text)
	if def, ok := r.catalog.Get(match.Intent); ok {
		declared := def.DeclaredSlots()
		for name := range slots {
			if _, ok := declared[name]; !ok {
				delete(slots, name)
			}
		}
	}

	return Interpretation{
		Intent:     match.Intent,
		Confidence: confidence,
		Slots:      slots,
		Source:     source,
	}
}
