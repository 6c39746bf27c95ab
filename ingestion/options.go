package ingestion

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fioneer/fioneer/storage"
)

// Option configures a Driver.
type Option func(*Driver) error

// WithPoolSize sets the number of concurrent reasoning-service calls.
// Default is DefaultPoolSize.
func WithPoolSize(size int) Option {
	return func(d *Driver) error {
		if size < 1 || size > MaxPoolSize {
			return fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidPoolSize, size, MaxPoolSize)
		}
		d.poolSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) error {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
		return nil
	}
}

// WithMaxFiles limits a run to the first n inputs by name. Zero means no limit.
func WithMaxFiles(n int) Option {
	return func(d *Driver) error {
		if n < 0 {
			n = 0
		}
		d.maxFiles = n
		return nil
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) error {
		if now != nil {
			d.now = now
		}
		return nil
	}
}

// WithLedger records every file outcome in ledger.
func WithLedger(ledger storage.RunLedger) Option {
	return func(d *Driver) error {
		d.ledger = ledger
		return nil
	}
}

// WithStructureExtractor replaces the provider-backed structure extractor.
func WithStructureExtractor(e StructureExtractor) Option {
	return func(d *Driver) error {
		d.structure = e
		return nil
	}
}

// WithInsightExtractor replaces the provider-backed insight extractor.
func WithInsightExtractor(e InsightExtractor) Option {
	return func(d *Driver) error {
		d.insights = e
		return nil
	}
}

// WithSummarizer replaces the provider-backed summarizer.
func WithSummarizer(s Summarizer) Option {
	return func(d *Driver) error {
		d.summarizer = s
		return nil
	}
}
