// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	apperrors "voice-intent/internal/common/errors"
)

func Load() (*Config, error) {
	loadEnvFile()

	// Base config
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../../configs")
	viper.AddConfigPath(".")

	// Enable ENV override like VOICE_INTENT_MODEL_PATH
	viper.SetEnvPrefix("voice")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	// Environment overlay, e.g. config.production.yaml
	envConfigFile := fmt.Sprintf("config.%s", env)
	viper.SetConfigName(envConfigFile)
	_ = viper.MergeInConfig() // ignore error if not found

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, apperrors.NewConfigInvalidError(err.Error())
	}

	return &cfg, nil
}

// loadEnvFile loads .env from the working directory or the project root so
// the loader behaves the same from cmd/ binaries and package tests.
func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up directories looking for go.mod.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "voice-intent"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Intent.CatalogPath == "" {
		cfg.Intent.CatalogPath = "configs/intents.json"
	}
	if cfg.Intent.MaxSequenceLength == 0 {
		cfg.Intent.MaxSequenceLength = 64
	}
	if cfg.Intent.ConfidenceThreshold == 0 {
		cfg.Intent.ConfidenceThreshold = 0.65
	}
	if cfg.Intent.FallbackThreshold == 0 {
		cfg.Intent.FallbackThreshold = 65.0
	}

	if cfg.Knowledge.RecordsPath == "" {
		cfg.Knowledge.RecordsPath = "configs/knowledge.yaml"
	}
	if cfg.Knowledge.MinSimilarity == 0 {
		cfg.Knowledge.MinSimilarity = 0.2
	}
	if cfg.Knowledge.MinFuzzyScore == 0 {
		cfg.Knowledge.MinFuzzyScore = 55.0
	}
	if cfg.Knowledge.EmbedderHiddenSize == 0 {
		cfg.Knowledge.EmbedderHiddenSize = 768
	}
	if cfg.Knowledge.MaxSequenceLength == 0 {
		cfg.Knowledge.MaxSequenceLength = 128
	}

	if cfg.Session.TTL == 0 {
		cfg.Session.TTL = 10 * time.Minute
	}
	if cfg.Session.SweepInterval == 0 {
		cfg.Session.SweepInterval = time.Minute
	}
	if cfg.Session.Redis.KeyPrefix == "" {
		cfg.Session.Redis.KeyPrefix = "voice:session:"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
}

func validateConfig(cfg *Config) error {
	if cfg.Intent.CatalogPath == "" {
		return fmt.Errorf("intent.catalog_path is required")
	}
	if cfg.Intent.ConfidenceThreshold < 0 || cfg.Intent.ConfidenceThreshold > 1 {
		return fmt.Errorf("intent.confidence_threshold must be in [0,1], got %f", cfg.Intent.ConfidenceThreshold)
	}
	if cfg.Intent.FallbackThreshold < 0 || cfg.Intent.FallbackThreshold > 100 {
		return fmt.Errorf("intent.fallback_threshold must be in [0,100], got %f", cfg.Intent.FallbackThreshold)
	}
	if cfg.Intent.MaxSequenceLength <= 0 {
		return fmt.Errorf("intent.max_sequence_length must be positive, got %d", cfg.Intent.MaxSequenceLength)
	}
	if cfg.Knowledge.MinSimilarity < 0 || cfg.Knowledge.MinSimilarity > 1 {
		return fmt.Errorf("knowledge.min_similarity must be in [0,1], got %f", cfg.Knowledge.MinSimilarity)
	}
	if cfg.Knowledge.MinFuzzyScore < 0 || cfg.Knowledge.MinFuzzyScore > 100 {
		return fmt.Errorf("knowledge.min_fuzzy_score must be in [0,100], got %f", cfg.Knowledge.MinFuzzyScore)
	}
	if cfg.Session.TTL <= 0 {
		return fmt.Errorf("session.ttl must be positive, got %s", cfg.Session.TTL)
	}
	if cfg.Session.SweepInterval <= 0 {
		return fmt.Errorf("session.sweep_interval must be positive, got %s", cfg.Session.SweepInterval)
	}
	if cfg.Session.Redis.Enabled && cfg.Session.Redis.Address == "" {
		return fmt.Errorf("session.redis.address is required when the session mirror is enabled")
	}
	return nil
}
