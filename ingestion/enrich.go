package ingestion

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fioneer/fioneer/core"
	"github.com/fioneer/fioneer/extraction"
)

// StructureExtractor splits a section's text into QA pairs.
type StructureExtractor interface {
	Extract(ctx context.Context, section string) (extraction.Result[[]core.QAPair], error)
}

// InsightExtractor derives an insight from one QA pair.
type InsightExtractor interface {
	Extract(ctx context.Context, question, answer string) (extraction.Result[core.Insight], error)
}

// Summarizer condenses a question or an answer.
type Summarizer interface {
	Summarize(ctx context.Context, text string, role core.Role) (string, error)
}

// Enrichment holds the per-pair outputs of the enrichment stage.
type Enrichment struct {
	Insight         extraction.Result[core.Insight]
	QuestionSummary string
	AnswerSummary   string
	Err             error // set when the insight could not be requested
}

type enricher struct {
	insights   InsightExtractor
	summarizer Summarizer
	logger     *slog.Logger
}

// enrich runs the insight and both summaries for pair concurrently.
// A failed summary falls back to the full text it was meant to condense.
func (e *enricher) enrich(ctx context.Context, pair core.QAPair) Enrichment {
	var (
		wg     sync.WaitGroup
		result Enrichment
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		defer e.recoverInto("insight")
		result.Insight, result.Err = e.insights.Extract(ctx, pair.Question, pair.Answer)
	}()
	go func() {
		defer wg.Done()
		result.QuestionSummary = e.summarize(ctx, pair.Question, core.RoleQuestion)
	}()
	go func() {
		defer wg.Done()
		result.AnswerSummary = e.summarize(ctx, pair.Answer, core.RoleAnswer)
	}()
	wg.Wait()

	return result
}

func (e *enricher) summarize(ctx context.Context, text string, role core.Role) (summary string) {
	summary = text
	defer e.recoverInto(role.String() + " summary")

	s, err := e.summarizer.Summarize(ctx, text, role)
	if err != nil {
		e.logger.Warn("summary unavailable, using full text", "role", role, "err", err)
		return text
	}
	return s
}

func (e *enricher) recoverInto(stage string) {
	if r := recover(); r != nil {
		e.logger.Error("enrichment panicked", "stage", stage, "panic", r)
	}
}
