package extraction

import "log/slog"

const defaultParseAttempts = 3

type config struct {
	logger        *slog.Logger
	parseAttempts int
}

// Option configures an extractor.
type Option func(*config)

// WithLogger sets the logger used by an extractor.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithParseAttempts sets how many times a model is asked again when its
// reply cannot be parsed. Values below 1 are treated as 1.
func WithParseAttempts(n int) Option {
	return func(c *config) {
		c.parseAttempts = max(n, 1)
	}
}

func newConfig(component string, opts []Option) *config {
	cfg := &config{
		logger:        slog.Default(),
		parseAttempts: defaultParseAttempts,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.logger = cfg.logger.With("component", component)
	return cfg
}
