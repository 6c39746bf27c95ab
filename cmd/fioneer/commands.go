package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/fioneer/fioneer"
	"github.com/fioneer/fioneer/ai"
	"github.com/fioneer/fioneer/ai/openai"
	"github.com/fioneer/fioneer/core"
	"github.com/fioneer/fioneer/index"
	"github.com/fioneer/fioneer/ingestion"
	"github.com/fioneer/fioneer/reference"
	"github.com/fioneer/fioneer/search"
	"github.com/fioneer/fioneer/storage/filestore"
	"github.com/fioneer/fioneer/table"
	"github.com/fioneer/fioneer/transcript"
	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v2"
)

// extractJob owns everything one extraction run needs. With a knowledge
// base configured, outcomes are also written to its run ledger.
type extractJob struct {
	transcripts string
	driver      *ingestion.Driver
	kb          *fioneer.KnowledgeBase
	provider    ai.AIProvider
	out         io.Writer
}

func newExtractJob(cfg *Config, out io.Writer) (*extractJob, error) {
	if err := requireSettings(
		[2]string{"transcripts", cfg.Transcripts},
		[2]string{"metadata-dir", cfg.MetadataDir},
		[2]string{"companies", cfg.Companies},
		[2]string{"earnings-dates", cfg.EarningsDates},
	); err != nil {
		return nil, err
	}

	companies, err := reference.LoadCompanies(cfg.Companies)
	if err != nil {
		return nil, fmt.Errorf("failed to load companies: %w", err)
	}
	dates, err := reference.LoadEarningsDates(cfg.EarningsDates)
	if err != nil {
		return nil, fmt.Errorf("failed to load earnings dates: %w", err)
	}
	slog.Info("reference data loaded", "companies", companies.Len(), "earnings_dates", dates.Len())

	store, err := filestore.New(cfg.MetadataDir)
	if err != nil {
		return nil, err
	}

	opts := []ingestion.Option{
		ingestion.WithPoolSize(cfg.PoolSize),
		ingestion.WithMaxFiles(cfg.MaxFiles),
	}
	job := &extractJob{transcripts: cfg.Transcripts, out: out}

	if cfg.KnowledgeBase != "" {
		job.kb, err = fioneer.Open(cfg.KnowledgeBase, fioneer.WithAIConfig(cfg.aiConfig()))
		if err != nil {
			return nil, fmt.Errorf("failed to open knowledge base: %w", err)
		}
		job.driver, err = job.kb.NewDriver(store, companies, dates, opts...)
	} else {
		job.provider, err = openai.NewProvider(cfg.aiConfig())
		if err != nil {
			return nil, fmt.Errorf("failed to create AI provider: %w", err)
		}
		job.driver, err = ingestion.NewDriver(store, companies, dates, job.provider, opts...)
	}
	if err != nil {
		job.Close()
		return nil, err
	}
	return job, nil
}

// run processes every transcript currently in the directory.
func (j *extractJob) run(ctx context.Context) error {
	sources, err := transcript.Discover(j.transcripts, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to list transcripts: %w", err)
	}

	stats, runErr := j.driver.Run(ctx, sources)
	if stats != nil {
		printStats(j.out, stats)
	}
	return runErr
}

func (j *extractJob) Close() {
	if j.driver != nil {
		j.driver.Release()
	}
	if j.kb != nil {
		j.kb.Close()
	}
	if j.provider != nil {
		if err := j.provider.Close(); err != nil {
			slog.Error("error closing AI provider", "err", err)
		}
	}
}

func printStats(w io.Writer, stats *ingestion.RunStats) {
	fmt.Fprintln(w, stats.Summary())
	for _, o := range stats.Outcomes {
		if o.State == ingestion.StatePersisted {
			continue
		}
		reason := o.Reason
		if o.Err != nil {
			reason = o.Err.Error()
		}
		fmt.Fprintf(w, "  %-9s %s: %s\n", o.State, o.Name, reason)
	}
}

func extractCommand(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}

	job, err := newExtractJob(cfg, c.App.Writer)
	if err != nil {
		return err
	}
	defer job.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return job.run(ctx)
}

func watchCommand(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}

	job, err := newExtractJob(cfg, c.App.Writer)
	if err != nil {
		return err
	}
	defer job.Close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(cfg.Transcripts); err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.Transcripts, err)
	}

	if err := job.run(ctx); err != nil {
		return ignoreCancel(err)
	}
	slog.Info("watching for new transcripts", "dir", cfg.Transcripts)

	return ignoreCancel(watchLoop(ctx, watcher.Events, watcher.Errors, c.Duration("debounce"), job.run))
}

// watchLoop calls trigger once no relevant event has arrived for delay.
// It returns when ctx is done, a channel closes or trigger fails with a
// cancellation.
func watchLoop(
	ctx context.Context,
	events <-chan fsnotify.Event,
	errs <-chan error,
	delay time.Duration,
	trigger func(context.Context) error,
) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			slog.Debug("transcript changed", "file", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(delay)
			} else {
				timer.Reset(delay)
			}
			fire = timer.C

		case err, ok := <-errs:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "err", err)

		case <-fire:
			fire = nil
			if err := trigger(ctx); err != nil {
				if ctx.Err() != nil {
					return err
				}
				slog.Error("extraction failed", "err", err)
			}
		}
	}
}

func relevant(event fsnotify.Event) bool {
	if !table.IsSupported(event.Name) {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) || event.Has(fsnotify.Rename)
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func indexCommand(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	if err := requireSettings(
		[2]string{"kb", cfg.KnowledgeBase},
		[2]string{"metadata-dir", cfg.MetadataDir},
	); err != nil {
		return err
	}

	store, err := filestore.New(cfg.MetadataDir)
	if err != nil {
		return err
	}

	kb, err := fioneer.Open(cfg.KnowledgeBase, fioneer.WithAIConfig(cfg.aiConfig()))
	if err != nil {
		return fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer kb.Close()

	indexCfg := index.DefaultConfig()
	indexCfg.BatchSize = c.Int("batch-size")
	indexCfg.ReportInterval = c.Int("report-interval")
	indexCfg.MaxRetries = cfg.AI.MaxRetries
	indexCfg.RetryDelay = c.Duration("retry-delay")

	indexer, err := kb.NewIndexer(store,
		index.WithConfig(indexCfg),
		index.WithProgress(c.App.ErrWriter),
	)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	report, err := indexer.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "indexed %d records from %d artifacts in %s\n",
		report.Records, report.Artifacts, report.Elapsed.Round(time.Millisecond))
	return nil
}

func searchCommand(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}

	query := c.String("query")
	if query == "" {
		query = strings.Join(c.Args().Slice(), " ")
	}
	if err := requireSettings(
		[2]string{"kb", cfg.KnowledgeBase},
		[2]string{"query", strings.TrimSpace(query)},
	); err != nil {
		return err
	}

	kb, err := fioneer.Open(cfg.KnowledgeBase, fioneer.WithAIConfig(cfg.aiConfig()))
	if err != nil {
		return fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer kb.Close()

	searcher, err := kb.NewSearcher(search.WithMinSimilarity(float32(c.Float64("min-similarity"))))
	if err != nil {
		return err
	}

	var monitor search.SearchMonitor
	if c.Bool("explain") {
		monitor = &search.LogMonitor{Logger: slog.Default().With("component", "search")}
	}
	results, err := searcher.SearchWithMonitor(c.Context, query, c.Int("limit"), monitor)
	if err != nil {
		return err
	}

	printResults(c.App.Writer, results)
	return nil
}

func printResults(w io.Writer, results []*core.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found")
		return
	}
	for i, result := range results {
		rec := result.Record.Record
		fmt.Fprintf(w, "%d. [%.3f] %s (%s) %d Q%d %s\n",
			i+1, result.Score, rec.Company, rec.Ticker, rec.Year, rec.Quarter, rec.Date)
		fmt.Fprintf(w, "   Insight: %s\n", rec.Insight)
		fmt.Fprintf(w, "   Q (%s): %s\n", rec.QuestionSpeaker, rec.QuestionSummary)
		fmt.Fprintf(w, "   A (%s): %s\n", rec.AnswerSpeaker, rec.AnswerSummary)
	}
}

func statusCommand(c *cli.Context) error {
	cfg, err := resolveConfig(c)
	if err != nil {
		return err
	}
	if err := requireSettings([2]string{"kb", cfg.KnowledgeBase}); err != nil {
		return err
	}

	kb, err := fioneer.Open(cfg.KnowledgeBase)
	if err != nil {
		return fmt.Errorf("failed to open knowledge base: %w", err)
	}
	defer kb.Close()

	entries, err := kb.Ledger().ListOutcomes(c.Context)
	if err != nil {
		return err
	}
	return printOutcomes(c.App.Writer, entries)
}

func printOutcomes(w io.Writer, entries []*core.RunEntry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tSTATE\tRECORDS\tSKIPPED\tUPDATED\tREASON")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d/%d\t%s\t%s\n",
			e.Key, e.State, e.Records, e.SectionsSkipped, e.PairsSkipped,
			e.UpdatedAt.Local().Format(time.DateTime), e.Reason)
	}
	return tw.Flush()
}
