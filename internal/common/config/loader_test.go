// internal/common/config/loader_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	applyDefaults(&cfg)

	assert.Equal(t, "voice-intent", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)

	assert.Equal(t, "configs/intents.json", cfg.Intent.CatalogPath)
	assert.Equal(t, 64, cfg.Intent.MaxSequenceLength)
	assert.InDelta(t, 0.65, cfg.Intent.ConfidenceThreshold, 1e-9)
	assert.InDelta(t, 65.0, cfg.Intent.FallbackThreshold, 1e-9)

	assert.Equal(t, "configs/knowledge.yaml", cfg.Knowledge.RecordsPath)
	assert.InDelta(t, 0.2, cfg.Knowledge.MinSimilarity, 1e-9)
	assert.InDelta(t, 55.0, cfg.Knowledge.MinFuzzyScore, 1e-9)
	assert.Equal(t, 768, cfg.Knowledge.EmbedderHiddenSize)

	assert.Equal(t, 10*time.Minute, cfg.Session.TTL)
	assert.Equal(t, time.Minute, cfg.Session.SweepInterval)
	assert.Equal(t, "voice:session:", cfg.Session.Redis.KeyPrefix)

	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	cfg := Config{}
	cfg.Intent.ConfidenceThreshold = 0.8
	cfg.Intent.FallbackThreshold = 70
	cfg.Session.TTL = time.Hour
	applyDefaults(&cfg)

	assert.InDelta(t, 0.8, cfg.Intent.ConfidenceThreshold, 1e-9)
	assert.InDelta(t, 70.0, cfg.Intent.FallbackThreshold, 1e-9)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		var cfg Config
		applyDefaults(&cfg)
		return &cfg
	}

	t.Run("defaults pass", func(t *testing.T) {
		require.NoError(t, validateConfig(valid()))
	})

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"confidence above one", func(c *Config) { c.Intent.ConfidenceThreshold = 1.5 }},
		{"negative confidence", func(c *Config) { c.Intent.ConfidenceThreshold = -0.1 }},
		{"fallback above scale", func(c *Config) { c.Intent.FallbackThreshold = 101 }},
		{"zero sequence length", func(c *Config) { c.Intent.MaxSequenceLength = -1 }},
		{"similarity above one", func(c *Config) { c.Knowledge.MinSimilarity = 2 }},
		{"fuzzy score above scale", func(c *Config) { c.Knowledge.MinFuzzyScore = 150 }},
		{"negative ttl", func(c *Config) { c.Session.TTL = -time.Second }},
		{"mirror enabled without address", func(c *Config) {
			c.Session.Redis.Enabled = true
			c.Session.Redis.Address = ""
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, validateConfig(cfg))
		})
	}
}
