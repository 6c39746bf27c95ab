package extraction

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fioneer/fioneer/ai"
	"github.com/fioneer/fioneer/core"
)

// stepList accepts either a JSON array of strings or a single string.
type stepList []string

func (s *stepList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*s = list
		return nil
	}
	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	if single != "" {
		*s = []string{single}
	}
	return nil
}

type insightPayload struct {
	ReasoningSteps stepList `json:"reasoning_steps"`
	Insight        string   `json:"insight"`
}

// InsightExtractor derives a one-sentence insight and its reasoning steps
// from a question/answer pair. It is safe for concurrent use.
type InsightExtractor struct {
	reasoner ai.Reasoner
	attempts int
	logger   *slog.Logger
}

// NewInsightExtractor creates an InsightExtractor backed by reasoner.
func NewInsightExtractor(reasoner ai.Reasoner, opts ...Option) (*InsightExtractor, error) {
	if reasoner == nil {
		return nil, ErrReasonerRequired
	}
	cfg := newConfig("insight-extractor", opts)
	return &InsightExtractor{
		reasoner: reasoner,
		attempts: cfg.parseAttempts,
		logger:   cfg.logger,
	}, nil
}

// Extract returns the insight for the pair, or no value when the model
// reports none, the reply cannot be parsed or the insight is empty.
// A reasoning-service failure is returned as an error wrapping
// ErrReasoningFailed.
func (e *InsightExtractor) Extract(ctx context.Context, question, answer string) (Result[core.Insight], error) {
	messages := []ai.Message{
		ai.SystemMessage(insightPrompt),
		ai.UserMessage("Question: " + question + "\nAnswer: " + answer),
	}

	var payload insightPayload
	for attempt := 1; ; attempt++ {
		reply, err := e.reasoner.Complete(ctx, messages)
		if err != nil {
			e.logger.Warn("insight request failed", "err", err)
			return NoSignal[core.Insight](""), fmt.Errorf("%w: insight: %w", ErrReasoningFailed, err)
		}
		if isSentinel(reply, SentinelNoInsight) {
			return NoSignal[core.Insight](ReasonSentinel), nil
		}

		payload = insightPayload{}
		err = decodeJSON(reply, &payload)
		if err == nil {
			break
		}
		e.logger.Warn("error parsing insight response", "attempt", attempt, "response", reply, "err", err)
		if attempt >= e.attempts {
			return NoSignal[core.Insight](ReasonUnparsable), nil
		}
	}

	insight := strings.TrimSpace(payload.Insight)
	if insight == "" {
		return NoSignal[core.Insight](ReasonEmpty), nil
	}
	// Models sometimes wrap the sentinel in the JSON shape they were asked for.
	if isSentinel(insight, SentinelNoInsight) {
		return NoSignal[core.Insight](ReasonSentinel), nil
	}

	steps := make([]string, 0, len(payload.ReasoningSteps))
	for _, step := range payload.ReasoningSteps {
		if step = strings.TrimSpace(step); step != "" {
			steps = append(steps, step)
		}
	}

	return Ok(core.Insight{ReasoningSteps: steps, Insight: insight}), nil
}
