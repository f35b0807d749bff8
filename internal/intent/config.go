// internal/intent/config.go
package intent

import "voice-intent/internal/common/config"

// Config holds the resolver and classifier settings.
type Config struct {
	ModelPath     string
	TokenizerPath string
	LabelsPath    string
	RuntimePath   string

	MaxSequenceLength int

	ConfidenceThreshold float64 // model probability, 0..1
	FallbackThreshold   float64 // fuzzy score, 0..100
}

// FromApp projects the application configuration onto the package config.
func FromApp(cfg config.IntentConfig) Config {
	return Config{
		ModelPath:           cfg.ModelPath,
		TokenizerPath:       cfg.TokenizerPath,
		LabelsPath:          cfg.LabelsPath,
		RuntimePath:         cfg.RuntimePath,
		MaxSequenceLength:   cfg.MaxSequenceLength,
		ConfidenceThreshold: cfg.ConfidenceThreshold,
		FallbackThreshold:   cfg.FallbackThreshold,
	}
}

// DefaultConfig returns a fallback-only configuration with the tuned
// thresholds. Both thresholds were set by inspection of labelled utterances,
// not derived from each other.
func DefaultConfig() Config {
	return Config{
		MaxSequenceLength:   64,
		ConfidenceThreshold: 0.65,
		FallbackThreshold:   65.0,
	}
}
