package ai

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotNil(t, cfg)
	assert.Equal(t, "https://api.openai.com/v1", cfg.ReasoningHost)
	assert.Equal(t, "https://api.openai.com/v1", cfg.EmbeddingHost)
	assert.Equal(t, "gpt-4o-mini", cfg.ReasoningModel)
	assert.Equal(t, "text-embedding-3-small", cfg.EmbeddingModel)
	assert.Equal(t, 0.7, cfg.Temperature)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
}

func TestNewConfig(t *testing.T) {
	t.Run("with no options", func(t *testing.T) {
		cfg := NewConfig()
		assert.Equal(t, DefaultConfig(), cfg)
	})

	t.Run("with custom host", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://custom:8080/v1"))

		assert.Equal(t, "http://custom:8080/v1", cfg.ReasoningHost)
		assert.Equal(t, "http://custom:8080/v1", cfg.EmbeddingHost)
	})

	t.Run("with separate hosts", func(t *testing.T) {
		cfg := NewConfig(
			WithEmbeddingHost("http://embed:8080/v1"),
			WithReasoningHost("http://reason:9090/v1"),
		)

		assert.Equal(t, "http://embed:8080/v1", cfg.EmbeddingHost)
		assert.Equal(t, "http://reason:9090/v1", cfg.ReasoningHost)
	})

	t.Run("with multiple options", func(t *testing.T) {
		cfg := NewConfig(
			WithReasoningModel("qwen2.5:7b"),
			WithEmbeddingModel("embeddinggemma"),
			WithAPIKey("sk-test"),
			WithTemperature(0),
			WithMaxRetries(5),
			WithRequestTimeout(10*time.Second),
		)

		assert.Equal(t, "qwen2.5:7b", cfg.ReasoningModel)
		assert.Equal(t, "embeddinggemma", cfg.EmbeddingModel)
		assert.Equal(t, "sk-test", cfg.APIKey)
		assert.Equal(t, 0.0, cfg.Temperature)
		assert.Equal(t, 5, cfg.MaxRetries)
		assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	})
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		name              string
		reasoningHost     string
		embeddingHost     string
		expectedReasoning string
		expectedEmbedding string
	}{
		{
			name:              "already has /v1",
			reasoningHost:     "http://localhost:11434/v1",
			embeddingHost:     "http://localhost:11434/v1",
			expectedReasoning: "http://localhost:11434/v1",
			expectedEmbedding: "http://localhost:11434/v1",
		},
		{
			name:              "missing /v1",
			reasoningHost:     "http://localhost:11434",
			embeddingHost:     "http://localhost:11434",
			expectedReasoning: "http://localhost:11434/v1",
			expectedEmbedding: "http://localhost:11434/v1",
		},
		{
			name:              "has trailing slash",
			reasoningHost:     "http://localhost:11434/",
			embeddingHost:     "http://localhost:11434/",
			expectedReasoning: "http://localhost:11434/v1",
			expectedEmbedding: "http://localhost:11434/v1",
		},
		{
			name: "empty hosts",
		},
		{
			name:              "different formats",
			reasoningHost:     "http://reason:9090/v1",
			embeddingHost:     "http://embed:8080",
			expectedReasoning: "http://reason:9090/v1",
			expectedEmbedding: "http://embed:8080/v1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				ReasoningHost: tt.reasoningHost,
				EmbeddingHost: tt.embeddingHost,
			}

			cfg.Normalize()

			assert.Equal(t, tt.expectedReasoning, cfg.ReasoningHost)
			assert.Equal(t, tt.expectedEmbedding, cfg.EmbeddingHost)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "missing reasoning host", mutate: func(c *Config) { c.ReasoningHost = "" }, wantErr: "ReasoningHost"},
		{name: "missing reasoning model", mutate: func(c *Config) { c.ReasoningModel = "" }, wantErr: "ReasoningModel"},
		{name: "missing embedding host", mutate: func(c *Config) { c.EmbeddingHost = "" }, wantErr: "EmbeddingHost"},
		{name: "missing embedding model", mutate: func(c *Config) { c.EmbeddingModel = "" }, wantErr: "EmbeddingModel"},
		{name: "temperature too low", mutate: func(c *Config) { c.Temperature = -0.1 }, wantErr: "Temperature"},
		{name: "temperature too high", mutate: func(c *Config) { c.Temperature = 2.5 }, wantErr: "Temperature"},
		{name: "temperature at boundary", mutate: func(c *Config) { c.Temperature = 2 }},
		{name: "zero retries", mutate: func(c *Config) { c.MaxRetries = 0 }, wantErr: "MaxRetries"},
		{name: "zero timeout", mutate: func(c *Config) { c.RequestTimeout = 0 }, wantErr: "RequestTimeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("normalizes hosts", func(t *testing.T) {
		cfg := NewConfig(WithHost("http://localhost:11434"))
		require.NoError(t, cfg.Validate())
		assert.Equal(t, "http://localhost:11434/v1", cfg.ReasoningHost)
		assert.Equal(t, "http://localhost:11434/v1", cfg.EmbeddingHost)
	})
}

func TestConfigToken(t *testing.T) {
	assert.Equal(t, "none", NewConfig().Token())
	assert.Equal(t, "sk-test", NewConfig(WithAPIKey("sk-test")).Token())
}
