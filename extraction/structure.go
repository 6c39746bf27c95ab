package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fioneer/fioneer/ai"
	"github.com/fioneer/fioneer/core"
)

type structurePayload struct {
	QAPairs []core.QAPair `json:"qa_pairs"`
}

// StructureExtractor splits a transcript section into question/answer pairs.
// It is safe for concurrent use.
type StructureExtractor struct {
	reasoner ai.Reasoner
	attempts int
	logger   *slog.Logger
}

// NewStructureExtractor creates a StructureExtractor backed by reasoner.
func NewStructureExtractor(reasoner ai.Reasoner, opts ...Option) (*StructureExtractor, error) {
	if reasoner == nil {
		return nil, ErrReasonerRequired
	}
	cfg := newConfig("structure-extractor", opts)
	return &StructureExtractor{
		reasoner: reasoner,
		attempts: cfg.parseAttempts,
		logger:   cfg.logger,
	}, nil
}

// Extract returns the pairs found in section. Pairs missing a question or
// an answer are dropped, and an empty answer speaker becomes
// core.UnknownSpeaker. When no pair survives the Result carries no value.
// A reasoning-service failure is returned as an error wrapping
// ErrReasoningFailed.
func (e *StructureExtractor) Extract(ctx context.Context, section string) (Result[[]core.QAPair], error) {
	messages := []ai.Message{
		ai.SystemMessage(structurePrompt),
		ai.UserMessage(section),
	}

	var raw []core.QAPair
	for attempt := 1; ; attempt++ {
		reply, err := e.reasoner.Complete(ctx, messages)
		if err != nil {
			e.logger.Warn("structure request failed", "err", err)
			return NoSignal[[]core.QAPair](""), fmt.Errorf("%w: structure: %w", ErrReasoningFailed, err)
		}
		if isSentinel(reply, SentinelNoQA) {
			return NoSignal[[]core.QAPair](ReasonSentinel), nil
		}

		raw, err = parseStructure(reply)
		if err == nil {
			break
		}
		e.logger.Warn("error parsing structure response", "attempt", attempt, "response", reply, "err", err)
		if attempt >= e.attempts {
			return NoSignal[[]core.QAPair](ReasonUnparsable), nil
		}
	}

	pairs := make([]core.QAPair, 0, len(raw))
	for _, pair := range raw {
		if err := core.ValidateQAPair(pair); err != nil {
			e.logger.Debug("dropping incomplete pair", "err", err)
			continue
		}
		if strings.TrimSpace(pair.AnswerSpeaker) == "" {
			pair.AnswerSpeaker = core.UnknownSpeaker
		}
		pairs = append(pairs, pair)
	}

	if len(pairs) == 0 {
		return NoSignal[[]core.QAPair](ReasonEmpty), nil
	}
	return Ok(pairs), nil
}

// parseStructure accepts either the documented {"qa_pairs": [...]} object
// or a bare array of pairs.
func parseStructure(reply string) ([]core.QAPair, error) {
	if strings.HasPrefix(cleanResponse(reply), "[") {
		var pairs []core.QAPair
		if err := decodeJSON(reply, &pairs); err != nil {
			return nil, err
		}
		return pairs, nil
	}

	var payload structurePayload
	if err := decodeJSON(reply, &payload); err != nil {
		return nil, err
	}
	return payload.QAPairs, nil
}
