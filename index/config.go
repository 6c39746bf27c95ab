package index

import (
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Config holds configuration for an indexing run.
type Config struct {
	// BatchSize is the number of records embedded per embedder call.
	BatchSize int

	// ReportInterval is how often progress is written, in records.
	ReportInterval int

	// MaxRetries is the number of attempts per batch before giving up.
	MaxRetries int

	// RetryDelay is the initial delay between attempts. It doubles each retry.
	RetryDelay time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      32,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     time.Second,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf("%w: batch size must be positive, got %d", ErrInvalidConfig, c.BatchSize)
	}
	if c.MaxRetries <= 0 {
		return fmt.Errorf("%w: max retries must be positive, got %d", ErrInvalidConfig, c.MaxRetries)
	}
	if c.ReportInterval <= 0 {
		c.ReportInterval = c.BatchSize
	}
	return nil
}

// Option configures an Indexer.
type Option func(*Indexer)

// WithConfig replaces the default configuration.
func WithConfig(config *Config) Option {
	return func(ix *Indexer) {
		if config != nil {
			ix.config = config
		}
	}
}

// WithProgress sets where progress is written. Progress is discarded by default.
func WithProgress(w io.Writer) Option {
	return func(ix *Indexer) {
		if w != nil {
			ix.progress = w
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Indexer) {
		if logger != nil {
			ix.logger = logger
		}
	}
}
