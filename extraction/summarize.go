package extraction

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/fioneer/fioneer/ai"
	"github.com/fioneer/fioneer/core"
)

// Summarizer condenses one side of a question/answer pair.
// It is safe for concurrent use.
type Summarizer struct {
	reasoner ai.Reasoner
	logger   *slog.Logger
}

// NewSummarizer creates a Summarizer backed by reasoner.
func NewSummarizer(reasoner ai.Reasoner, opts ...Option) (*Summarizer, error) {
	if reasoner == nil {
		return nil, ErrReasonerRequired
	}
	cfg := newConfig("summarizer", opts)
	return &Summarizer{
		reasoner: reasoner,
		logger:   cfg.logger,
	}, nil
}

// Summarize returns the model's summary of text. Any reply is accepted as is.
func (s *Summarizer) Summarize(ctx context.Context, text string, role core.Role) (string, error) {
	var prompt string
	switch role {
	case core.RoleQuestion:
		prompt = questionSummaryPrompt
	case core.RoleAnswer:
		prompt = answerSummaryPrompt
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownRole, role)
	}

	reply, err := s.reasoner.Complete(ctx, []ai.Message{
		ai.SystemMessage(prompt),
		ai.UserMessage(text),
	})
	if err != nil {
		s.logger.Warn("summary request failed", "role", role, "err", err)
		return "", fmt.Errorf("summarize %s: %w", role, err)
	}
	return strings.TrimSpace(reply), nil
}
