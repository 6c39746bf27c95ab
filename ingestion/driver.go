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


package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/fioneer/fioneer/ai"
	"github.com/fioneer/fioneer/core"
	"github.com/fioneer/fioneer/extraction"
	"github.com/fioneer/fioneer/reference"
	"github.com/fioneer/fioneer/storage"
	"github.com/fioneer/fioneer/transcript"
	"github.com/google/uuid"
)

// Driver sequences the extraction stages for each transcript of a run.
type Driver struct {
	store        storage.RecordStore
	assembler    *Assembler
	orchestrator *Orchestrator
	enricher     *enricher
	structure    StructureExtractor
	insights     InsightExtractor
	summarizer   Summarizer
	ledger       storage.RunLedger
	poolSize     int
	maxFiles     int
	now          func() time.Time
	logger       *slog.Logger
}

// NewDriver creates a driver that persists to store. Extractors not supplied
// through options are built on provider's reasoner, in which case provider
// is required.
func NewDriver(
	store storage.RecordStore,
	companies CompanyLookup,
	dates DateLookup,
	provider ai.AIProvider,
	opts ...Option,
) (*Driver, error) {
	if store == nil {
		return nil, ErrRecordStoreRequired
	}
	if companies == nil {
		return nil, ErrCompaniesRequired
	}
	if dates == nil {
		return nil, ErrEarningsDatesRequired
	}

	d := &Driver{
		store:    store,
		poolSize: DefaultPoolSize,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	if err := d.buildExtractors(provider); err != nil {
		return nil, err
	}

	orchestrator, err := NewOrchestrator(d.poolSize, d.logger)
	if err != nil {
		return nil, err
	}
	d.orchestrator = orchestrator
	d.assembler = NewAssembler(companies, dates, d.logger)
	d.enricher = &enricher{
		insights:   d.insights,
		summarizer: d.summarizer,
		logger:     d.logger.With("component", "enricher"),
	}
	d.logger = d.logger.With("component", "driver")
	return d, nil
}

func (d *Driver) buildExtractors(provider ai.AIProvider) error {
	if d.structure != nil && d.insights != nil && d.summarizer != nil {
		return nil
	}
	if provider == nil {
		return ErrAIProviderRequired
	}

	reasoner := provider.Reasoner()
	logOpt := extraction.WithLogger(d.logger)
	if d.structure == nil {
		e, err := extraction.NewStructureExtractor(reasoner, logOpt)
		if err != nil {
			return err
		}
		d.structure = e
	}
	if d.insights == nil {
		e, err := extraction.NewInsightExtractor(reasoner, logOpt)
		if err != nil {
			return err
		}
		d.insights = e
	}
	if d.summarizer == nil {
		s, err := extraction.NewSummarizer(reasoner, logOpt)
		if err != nil {
			return err
		}
		d.summarizer = s
	}
	return nil
}

// Release stops the driver's worker pool.
func (d *Driver) Release() {
	d.orchestrator.Release()
}

// Run processes inputs in name order. A failing file never stops the run;
// its error is reported through the returned stats. Run returns an error
// only when ctx is cancelled, along with the stats gathered so far.
func (d *Driver) Run(ctx context.Context, inputs []transcript.Source) (*RunStats, error) {
	stats := &RunStats{
		RunID:     uuid.NewString(),
		StartedAt: d.now(),
	}
	logger := d.logger.With("run", stats.RunID)

	inputs = slices.Clone(inputs)
	slices.SortStableFunc(inputs, func(a, b transcript.Source) int {
		return strings.Compare(a.Name(), b.Name())
	})
	if d.maxFiles > 0 && len(inputs) > d.maxFiles {
		inputs = inputs[:d.maxFiles]
	}
	logger.Info("run started", "files", len(inputs), "pool_size", d.orchestrator.Size())

	for _, src := range inputs {
		if err := ctx.Err(); err != nil {
			stats.FinishedAt = d.now()
			return stats, err
		}

		start := d.now()
		outcome := d.processFile(ctx, src, logger.With("file", src.Name()))
		outcome.Duration = d.now().Sub(start)
		stats.add(outcome)
		d.record(ctx, stats.RunID, outcome, logger)
	}

	stats.FinishedAt = d.now()
	logger.Info("run finished",
		"files", stats.FilesSeen,
		"persisted", stats.FilesPersisted,
		"skipped", stats.FilesSkipped,
		"failed", stats.FilesFailed,
		"records", stats.RecordsPersisted,
		"sections_skipped", stats.SectionsSkipped,
		"pairs_skipped", stats.PairsSkipped,
	)
	return stats, nil
}

func (d *Driver) processFile(ctx context.Context, src transcript.Source, logger *slog.Logger) (outcome FileOutcome) {
	outcome = FileOutcome{Name: src.Name(), State: StatePending}

	fail := func(err error) FileOutcome {
		outcome.State = StateFailed
		outcome.Err = err
		outcome.Reason = err.Error()
		logger.Error("file failed", "err", err)
		return outcome
	}
	skip := func(reason string) FileOutcome {
		outcome.State = StateSkipped
		outcome.Reason = reason
		logger.Info("file skipped", "reason", reason)
		return outcome
	}

	defer func() {
		if r := recover(); r != nil {
			outcome = fail(fmt.Errorf("%w: %v", ErrFilePanicked, r))
		}
	}()

	key, err := src.Key()
	if err != nil {
		return fail(err)
	}
	outcome.Key = key.String()

	exists, err := d.store.Exists(key)
	if err != nil {
		return fail(err)
	}
	if exists {
		return skip("already processed")
	}

	company, err := d.assembler.Company(key)
	if err != nil {
		return fail(err)
	}
	date, err := d.assembler.EarningsDate(key)
	if err != nil {
		if errors.Is(err, reference.ErrNoEarningsDate) {
			return skip("no earnings date")
		}
		return fail(err)
	}

	t, err := src.Load(ctx)
	if err != nil {
		return fail(err)
	}

	sections := extraction.Segment(t.Turns)
	outcome.State = StateSegmented
	logger.Debug("segmented", "turns", len(t.Turns), "sections", len(sections))

	structured := Map(ctx, d.orchestrator, sections, func(ctx context.Context, s core.Section) sectionResult {
		r, err := d.structure.Extract(ctx, s.Text())
		return sectionResult{r, err}
	})
	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if err := stageError("sections", structured, func(r sectionResult) error { return r.err }); err != nil {
		return fail(err)
	}

	var pairs []core.QAPair
	for i, s := range structured {
		r := s.result
		found, ok := r.Value()
		if !ok {
			outcome.SectionsSkipped++
			logger.Debug("section skipped", "section", sections[i].Index, "reason", r.Reason())
			continue
		}
		pairs = append(pairs, found...)
	}
	outcome.State = StateStructured

	enriched := Map(ctx, d.orchestrator, pairs, d.enricher.enrich)
	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if err := stageError("pairs", enriched, func(e Enrichment) error { return e.Err }); err != nil {
		return fail(err)
	}
	outcome.State = StateEnriched

	records := make([]*core.MetadataRecord, 0, len(pairs))
	for i, pair := range pairs {
		record, ok := d.assembler.Assemble(key, company, date, pair, enriched[i])
		if !ok {
			outcome.PairsSkipped++
			logger.Debug("pair skipped", "pair", i, "reason", enriched[i].Insight.Reason())
			continue
		}
		records = append(records, record)
	}

	if outcome.SectionsSkipped > 0 || outcome.PairsSkipped > 0 {
		logger.Info("skipped during extraction", "sections", outcome.SectionsSkipped, "pairs", outcome.PairsSkipped)
	}

	if err := d.store.Save(ctx, key, records); err != nil {
		return fail(err)
	}
	outcome.State = StatePersisted
	outcome.Records = len(records)
	logger.Info("file persisted", "records", len(records), "path", d.store.Path(key))
	return outcome
}

type sectionResult struct {
	result extraction.Result[[]core.QAPair]
	err    error
}

// stageError reports the first unit of a stage that could not reach the
// reasoning service. A file with such a unit is never persisted.
func stageError[T any](unit string, results []T, errOf func(T) error) error {
	var (
		first  error
		failed int
	)
	for _, r := range results {
		if err := errOf(r); err != nil {
			if first == nil {
				first = err
			}
			failed++
		}
	}
	if first == nil {
		return nil
	}
	return fmt.Errorf("%d of %d %s failed: %w", failed, len(results), unit, first)
}

// record writes outcome to the ledger. Ledger failures are logged only.
func (d *Driver) record(ctx context.Context, runID string, o FileOutcome, logger *slog.Logger) {
	if d.ledger == nil {
		return
	}
	key := o.Key
	if key == "" {
		key = o.Name
	}
	entry := &core.RunEntry{
		Key:             key,
		State:           o.State.String(),
		Records:         o.Records,
		SectionsSkipped: o.SectionsSkipped,
		PairsSkipped:    o.PairsSkipped,
		Reason:          o.Reason,
		RunID:           runID,
		UpdatedAt:       d.now().UTC(),
	}
	if err := d.ledger.RecordOutcome(context.WithoutCancel(ctx), entry); err != nil {
		logger.Warn("failed to record outcome", "key", key, "err", err)
	}
}
