package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fioneer/fioneer/ai"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// Config holds settings read from the YAML config file. Any flag given on
// the command line overrides the file value.
type Config struct {
	Transcripts   string   `yaml:"transcripts"`
	MetadataDir   string   `yaml:"metadata_dir"`
	Companies     string   `yaml:"companies"`
	EarningsDates string   `yaml:"earnings_dates"`
	KnowledgeBase string   `yaml:"knowledge_base"`
	PoolSize      int      `yaml:"pool_size"`
	MaxFiles      int      `yaml:"max_files"`
	AI            AIConfig `yaml:"ai"`
}

type AIConfig struct {
	ReasoningHost  string        `yaml:"reasoning_host"`
	ReasoningModel string        `yaml:"reasoning_model"`
	EmbeddingHost  string        `yaml:"embedding_host"`
	EmbeddingModel string        `yaml:"embedding_model"`
	APIKey         string        `yaml:"api_key"`
	Temperature    *float64      `yaml:"temperature"`
	MaxRetries     int           `yaml:"max_retries"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
}

// loadConfigFile reads path. An empty path yields an empty Config.
func loadConfigFile(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// resolveConfig loads the file named by --config and lays the flags of c
// over it.
func resolveConfig(c *cli.Context) (*Config, error) {
	cfg, err := loadConfigFile(c.String("config"))
	if err != nil {
		return nil, err
	}

	cfg.Transcripts = stringSetting(c, "transcripts", cfg.Transcripts)
	cfg.MetadataDir = stringSetting(c, "metadata-dir", cfg.MetadataDir)
	cfg.Companies = stringSetting(c, "companies", cfg.Companies)
	cfg.EarningsDates = stringSetting(c, "earnings-dates", cfg.EarningsDates)
	cfg.KnowledgeBase = stringSetting(c, "kb", cfg.KnowledgeBase)
	cfg.PoolSize = intSetting(c, "pool-size", cfg.PoolSize)
	cfg.MaxFiles = intSetting(c, "max-files", cfg.MaxFiles)

	cfg.AI.ReasoningHost = stringSetting(c, "reasoning-host", cfg.AI.ReasoningHost)
	cfg.AI.ReasoningModel = stringSetting(c, "reasoning-model", cfg.AI.ReasoningModel)
	cfg.AI.EmbeddingHost = stringSetting(c, "embedding-host", cfg.AI.EmbeddingHost)
	cfg.AI.EmbeddingModel = stringSetting(c, "embedding-model", cfg.AI.EmbeddingModel)
	cfg.AI.APIKey = stringSetting(c, "api-key", cfg.AI.APIKey)
	cfg.AI.MaxRetries = intSetting(c, "max-retries", cfg.AI.MaxRetries)
	if c.IsSet("request-timeout") || cfg.AI.RequestTimeout == 0 {
		cfg.AI.RequestTimeout = c.Duration("request-timeout")
	}
	if c.IsSet("temperature") || cfg.AI.Temperature == nil {
		t := c.Float64("temperature")
		cfg.AI.Temperature = &t
	}
	return cfg, nil
}

func stringSetting(c *cli.Context, flag, fromFile string) string {
	if c.IsSet(flag) || fromFile == "" {
		return c.String(flag)
	}
	return fromFile
}

func intSetting(c *cli.Context, flag string, fromFile int) int {
	if c.IsSet(flag) || fromFile == 0 {
		return c.Int(flag)
	}
	return fromFile
}

// requireSettings reports the first empty setting by its flag name.
func requireSettings(settings ...[2]string) error {
	for _, s := range settings {
		if s[1] == "" {
			return fmt.Errorf("--%s is required (flag or config file)", s[0])
		}
	}
	return nil
}

func (c *Config) aiConfig() *ai.Config {
	opts := []ai.ConfigOption{
		ai.WithReasoningHost(c.AI.ReasoningHost),
		ai.WithReasoningModel(c.AI.ReasoningModel),
		ai.WithEmbeddingHost(c.AI.EmbeddingHost),
		ai.WithEmbeddingModel(c.AI.EmbeddingModel),
		ai.WithAPIKey(c.AI.APIKey),
		ai.WithMaxRetries(c.AI.MaxRetries),
		ai.WithRequestTimeout(c.AI.RequestTimeout),
	}
	if c.AI.Temperature != nil {
		opts = append(opts, ai.WithTemperature(*c.AI.Temperature))
	}
	return ai.NewConfig(opts...)
}
