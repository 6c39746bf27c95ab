// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fioneer/fioneer/ai"
	"github.com/fioneer/fioneer/index"
	"github.com/fioneer/fioneer/ingestion"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "fioneer",
		Usage: "Build a searchable knowledge base of earnings-call insights",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file; flags override its values",
				EnvVars: []string{"FIONEER_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Dotenv file loaded before flags are read",
				Value: ".env",
			},
		},
		Before: func(c *cli.Context) error {
			if err := loadEnv(c.String("env-file")); err != nil {
				return err
			}
			return setupLogger(c)
		},
		Commands: []*cli.Command{
			{
				Name:   "extract",
				Usage:  "Extract Q&A insight records from every transcript",
				Action: extractCommand,
				Flags:  extractFlags(),
			},
			{
				Name:   "watch",
				Usage:  "Extract, then extract again whenever transcripts are added",
				Action: watchCommand,
				Flags: append(extractFlags(),
					&cli.DurationFlag{
						Name:  "debounce",
						Usage: "Quiet period after the last file change before extracting",
						Value: 2 * time.Second,
					},
				),
			},
			{
				Name:   "index",
				Usage:  "Embed every persisted record into the knowledge base",
				Action: indexCommand,
				Flags: append([]cli.Flag{
					metadataDirFlag(),
					kbFlag(),
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records per embedding request",
						Value: index.DefaultConfig().BatchSize,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N records",
						Value: index.DefaultConfig().ReportInterval,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: index.DefaultConfig().RetryDelay,
					},
				}, aiFlags()...),
			},
			{
				Name:      "search",
				Usage:     "Search the knowledge base",
				ArgsUsage: "[query words]",
				Action:    searchCommand,
				Flags: append([]cli.Flag{
					kbFlag(),
					&cli.StringFlag{
						Name:    "query",
						Aliases: []string{"q"},
						Usage:   "Search query; remaining arguments are used when empty",
					},
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   5,
					},
					&cli.Float64Flag{
						Name:  "min-similarity",
						Usage: "Cosine similarity threshold (keyword matches get a boost on top)",
						Value: 0.6,
					},
					&cli.BoolFlag{
						Name:  "explain",
						Usage: "Log each search stage at debug level",
					},
				}, aiFlags()...),
			},
			{
				Name:   "status",
				Usage:  "Show the last recorded outcome of every transcript",
				Action: statusCommand,
				Flags:  []cli.Flag{kbFlag()},
			},
		},
	}
}

func extractFlags() []cli.Flag {
	flags := []cli.Flag{
		&cli.StringFlag{
			Name:    "transcripts",
			Aliases: []string{"t"},
			Usage:   "Directory of <ticker>_<year>_Q<n> CSV or XLSX transcripts",
		},
		metadataDirFlag(),
		&cli.StringFlag{
			Name:  "companies",
			Usage: "Company table (CSV or XLSX with Ticker, Company, Country, Sector, Industry)",
		},
		&cli.StringFlag{
			Name:  "earnings-dates",
			Usage: "JSON object mapping <ticker>_<year>_Q<n> to the earnings date",
		},
		&cli.IntFlag{
			Name:  "pool-size",
			Usage: fmt.Sprintf("Concurrent reasoning calls (1-%d)", ingestion.MaxPoolSize),
			Value: ingestion.DefaultPoolSize,
		},
		&cli.IntFlag{
			Name:  "max-files",
			Usage: "Process at most N transcripts (0 = all)",
		},
		kbFlag(),
	}
	return append(flags, aiFlags()...)
}

func metadataDirFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "metadata-dir",
		Aliases: []string{"o"},
		Usage:   "Directory of extracted <TICKER>_<YEAR>_Q<n>.json artifacts",
	}
}

func kbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "kb",
		Usage: "Path to the BadgerDB knowledge base directory (run ledger and index)",
	}
}

func aiFlags() []cli.Flag {
	defaults := ai.DefaultConfig()
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "reasoning-host",
			Usage: "OpenAI-compatible reasoning service URL",
			Value: defaults.ReasoningHost,
		},
		&cli.StringFlag{
			Name:  "reasoning-model",
			Usage: "Reasoning model name",
			Value: defaults.ReasoningModel,
		},
		&cli.StringFlag{
			Name:  "embedding-host",
			Usage: "OpenAI-compatible embedding service URL",
			Value: defaults.EmbeddingHost,
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: defaults.EmbeddingModel,
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the AI services",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
		&cli.Float64Flag{
			Name:  "temperature",
			Usage: "Sampling temperature (0-2)",
			Value: defaults.Temperature,
		},
		&cli.IntFlag{
			Name:  "max-retries",
			Usage: "Attempts per AI request",
			Value: defaults.MaxRetries,
		},
		&cli.DurationFlag{
			Name:  "request-timeout",
			Usage: "Timeout of a single AI request attempt",
			Value: defaults.RequestTimeout,
		},
	}
}

// loadEnv loads a dotenv file. A missing file is not an error.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
