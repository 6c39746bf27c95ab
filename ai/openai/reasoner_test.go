package openai

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fioneer/fioneer/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel is an llms.Model that replays scripted replies.
type fakeModel struct {
	calls    atomic.Int32
	generate func(ctx context.Context, call int, messages []llms.MessageContent) (*llms.ContentResponse, error)
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, _ ...llms.CallOption) (*llms.ContentResponse, error) {
	n := int(f.calls.Add(1))
	return f.generate(ctx, n, messages)
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

func reply(text string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: text}}}
}

func newTestReasoner(model llms.Model, retries int, timeout time.Duration) *Reasoner {
	return &Reasoner{
		client:        model,
		temperature:   0.7,
		maxRetries:    retries,
		timeout:       timeout,
		retryInterval: time.Millisecond,
		logger:        slog.Default(),
	}
}

func TestReasoner_Complete(t *testing.T) {
	t.Run("returns trimmed first choice and maps roles", func(t *testing.T) {
		var seen []llms.MessageContent
		model := &fakeModel{generate: func(_ context.Context, _ int, messages []llms.MessageContent) (*llms.ContentResponse, error) {
			seen = messages
			return reply("  NO_QA \n"), nil
		}}
		r := newTestReasoner(model, 3, time.Second)

		got, err := r.Complete(context.Background(), []ai.Message{
			ai.SystemMessage("system prompt"),
			ai.UserMessage("section text"),
		})

		require.NoError(t, err)
		assert.Equal(t, "NO_QA", got)
		require.Len(t, seen, 2)
		assert.Equal(t, llms.ChatMessageTypeSystem, seen[0].Role)
		assert.Equal(t, llms.ChatMessageTypeHuman, seen[1].Role)
		assert.Equal(t, "section text", seen[1].Parts[0].(llms.TextContent).Text)
	})

	t.Run("retries transient failures", func(t *testing.T) {
		model := &fakeModel{generate: func(_ context.Context, call int, _ []llms.MessageContent) (*llms.ContentResponse, error) {
			if call < 3 {
				return nil, errors.New("503 service unavailable")
			}
			return reply("ok"), nil
		}}
		r := newTestReasoner(model, 3, time.Second)

		got, err := r.Complete(context.Background(), []ai.Message{ai.UserMessage("x")})

		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		assert.Equal(t, int32(3), model.calls.Load())
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		model := &fakeModel{generate: func(context.Context, int, []llms.MessageContent) (*llms.ContentResponse, error) {
			return nil, errors.New("boom")
		}}
		r := newTestReasoner(model, 2, time.Second)

		_, err := r.Complete(context.Background(), []ai.Message{ai.UserMessage("x")})

		assert.EqualError(t, err, "boom")
		assert.Equal(t, int32(2), model.calls.Load())
	})

	t.Run("empty choices are not retried", func(t *testing.T) {
		model := &fakeModel{generate: func(context.Context, int, []llms.MessageContent) (*llms.ContentResponse, error) {
			return &llms.ContentResponse{}, nil
		}}
		r := newTestReasoner(model, 3, time.Second)

		_, err := r.Complete(context.Background(), []ai.Message{ai.UserMessage("x")})

		assert.ErrorIs(t, err, ai.ErrNoChoices)
		assert.Equal(t, int32(1), model.calls.Load())
	})

	t.Run("each attempt is bounded by the request timeout", func(t *testing.T) {
		model := &fakeModel{generate: func(ctx context.Context, call int, _ []llms.MessageContent) (*llms.ContentResponse, error) {
			if call == 1 {
				<-ctx.Done()
				return nil, ctx.Err()
			}
			return reply("second try"), nil
		}}
		r := newTestReasoner(model, 2, 20*time.Millisecond)

		got, err := r.Complete(context.Background(), []ai.Message{ai.UserMessage("x")})

		require.NoError(t, err)
		assert.Equal(t, "second try", got)
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		model := &fakeModel{generate: func(context.Context, int, []llms.MessageContent) (*llms.ContentResponse, error) {
			cancel()
			return nil, errors.New("connection reset")
		}}
		r := newTestReasoner(model, 5, time.Second)

		_, err := r.Complete(ctx, []ai.Message{ai.UserMessage("x")})

		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, int32(1), model.calls.Load())
	})
}
