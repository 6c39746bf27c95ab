package openai

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fioneer/fioneer/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Reasoner implements ai.Reasoner using an OpenAI-compatible chat API.
type Reasoner struct {
	client        llms.Model
	temperature   float64
	maxRetries    int
	timeout       time.Duration
	retryInterval time.Duration
	logger        *slog.Logger
}

// newReasoner is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newReasoner(config *ai.Config) (*Reasoner, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.ReasoningHost),
		openai.WithToken(config.Token()),
		openai.WithModel(config.ReasoningModel),
	)
	if err != nil {
		return nil, err
	}

	return &Reasoner{
		client:        client,
		temperature:   config.Temperature,
		maxRetries:    config.MaxRetries,
		timeout:       config.RequestTimeout,
		retryInterval: defaultRetryInterval,
		logger:        slog.Default().With("component", "openai-reasoner"),
	}, nil
}

// NewReasoner creates a new reasoner using the provided configuration.
//
// Returns ai.Reasoner interface to enforce abstraction.
func NewReasoner(config *ai.Config) (ai.Reasoner, error) {
	return newReasoner(config)
}

// Complete sends the conversation to the model and returns the trimmed text
// of the first choice. Each attempt is bounded by the request timeout;
// transport failures are retried, an empty choice list is not.
func (r *Reasoner) Complete(ctx context.Context, messages []ai.Message) (string, error) {
	content := toMessageContent(messages)

	var reply string
	attempt := 0
	op := func() error {
		attempt++
		callCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		response, err := r.client.GenerateContent(callCtx, content, llms.WithTemperature(r.temperature))
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			r.logger.Warn("completion attempt failed", "attempt", attempt, "err", err)
			return err
		}
		if len(response.Choices) < 1 {
			return backoff.Permanent(ai.ErrNoChoices)
		}
		reply = response.Choices[0].Content
		return nil
	}

	if err := backoff.Retry(op, retryPolicy(ctx, r.maxRetries, r.retryInterval)); err != nil {
		r.logger.Error("completion failed", "attempts", attempt, "err", err)
		return "", err
	}

	return strings.TrimSpace(reply), nil
}

func toMessageContent(messages []ai.Message) []llms.MessageContent {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, msg := range messages {
		content = append(content, llms.MessageContent{
			Role: chatMessageType(msg.Role),
			Parts: []llms.ContentPart{
				llms.TextPart(msg.Content),
			},
		})
	}
	return content
}

func chatMessageType(role ai.MessageRole) llms.ChatMessageType {
	switch role {
	case ai.MessageRoleSystem:
		return llms.ChatMessageTypeSystem
	case ai.MessageRoleAssistant:
		return llms.ChatMessageTypeAI
	default:
		return llms.ChatMessageTypeHuman
	}
}
