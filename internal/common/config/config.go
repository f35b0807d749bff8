// internal/common/config/config.go
package config

import "time"

// Config is the main voice core configuration struct.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Intent    IntentConfig    `mapstructure:"intent"`
	Knowledge KnowledgeConfig `mapstructure:"knowledge"`
	Session   SessionConfig   `mapstructure:"session"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// IntentConfig holds settings for the intent catalog and hybrid classifier.
type IntentConfig struct {
	CatalogPath string `mapstructure:"catalog_path"`

	// Optional model assets. Absence of any of them disables the primary
	// classifier and routes every utterance through the keyword fallback.
	ModelPath     string `mapstructure:"model_path"`
	TokenizerPath string `mapstructure:"tokenizer_path"`
	LabelsPath    string `mapstructure:"labels_path"`
	RuntimePath   string `mapstructure:"runtime_path"` // onnxruntime shared library

	MaxSequenceLength int `mapstructure:"max_sequence_length"`

	// ConfidenceThreshold applies to the model probability (0..1);
	// FallbackThreshold applies to the fuzzy score (0..100). They are
	// independent tunables, not the same value in different units.
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	FallbackThreshold   float64 `mapstructure:"fallback_threshold"`
}

// KnowledgeConfig holds settings for the product knowledge index.
type KnowledgeConfig struct {
	RecordsPath   string  `mapstructure:"records_path"`
	MinSimilarity float64 `mapstructure:"min_similarity"` // semantic inner product (0..1)
	MinFuzzyScore float64 `mapstructure:"min_fuzzy_score"` // fuzzy match score (0..100)

	// Optional sentence-embedding model assets. Absence of any of them
	// degrades record lookup to the fuzzy string fallback.
	EmbedderModelPath     string `mapstructure:"embedder_model_path"`
	EmbedderTokenizerPath string `mapstructure:"embedder_tokenizer_path"`
	EmbedderHiddenSize    int    `mapstructure:"embedder_hidden_size"`
	MaxSequenceLength     int    `mapstructure:"max_sequence_length"`
}

// SessionConfig holds settings for the dialogue session store.
type SessionConfig struct {
	TTL           time.Duration      `mapstructure:"ttl"`
	SweepInterval time.Duration      `mapstructure:"sweep_interval"`
	Redis         SessionRedisConfig `mapstructure:"redis"`
}

// SessionRedisConfig configures the optional write-through session mirror.
type SessionRedisConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Address   string `mapstructure:"address"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
