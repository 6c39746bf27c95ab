package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/fioneer/fioneer/ai"
	"github.com/fioneer/fioneer/ai/mock"
	"github.com/fioneer/fioneer/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsightExtractor_Extract(t *testing.T) {
	tests := []struct {
		name       string
		reply      string
		want       core.Insight
		wantReason string
	}{
		{
			name:  "steps and insight",
			reply: `{"reasoning_steps":["1. Revenue rose 8%","2. Services led"],"insight":"Services drove growth."}`,
			want: core.Insight{
				ReasoningSteps: []string{"1. Revenue rose 8%", "2. Services led"},
				Insight:        "Services drove growth.",
			},
		},
		{
			name:  "single string step",
			reply: `{"reasoning_steps":"1. Margins expanded","insight":"Margins improved."}`,
			want: core.Insight{
				ReasoningSteps: []string{"1. Margins expanded"},
				Insight:        "Margins improved.",
			},
		},
		{
			name:  "missing steps",
			reply: `{"insight":"Guidance raised."}`,
			want:  core.Insight{ReasoningSteps: []string{}, Insight: "Guidance raised."},
		},
		{
			name:       "sentinel",
			reply:      "NO_INSIGHT",
			wantReason: ReasonSentinel,
		},
		{
			name:       "sentinel inside payload",
			reply:      `{"reasoning_steps": [], "insight": "NO_INSIGHT"}`,
			wantReason: ReasonSentinel,
		},
		{
			name:       "empty insight",
			reply:      `{"reasoning_steps":["1. x"],"insight":"  "}`,
			wantReason: ReasonEmpty,
		},
		{
			name:       "unparsable",
			reply:      "The company did well.",
			wantReason: ReasonUnparsable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			extractor, err := NewInsightExtractor(replying(tt.reply), WithParseAttempts(1))
			require.NoError(t, err)

			result, err := extractor.Extract(context.Background(), "How was revenue?", "Up 8%.")
			require.NoError(t, err)

			got, ok := result.Value()
			if tt.wantReason != "" {
				assert.False(t, ok)
				assert.Equal(t, tt.wantReason, result.Reason())
				return
			}
			require.True(t, ok, "reason: %s", result.Reason())
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInsightExtractor_PromptCarriesPair(t *testing.T) {
	var user string
	reasoner := mock.NewMockReasoner().WithCompleteFunc(func(_ context.Context, msgs []ai.Message) (string, error) {
		user = mock.UserContent(msgs)
		return "NO_INSIGHT", nil
	})
	extractor, err := NewInsightExtractor(reasoner)
	require.NoError(t, err)

	_, err = extractor.Extract(context.Background(), "Q?", "A.")
	require.NoError(t, err)

	assert.Equal(t, "Question: Q?\nAnswer: A.", user)
}

func TestInsightExtractor_ServiceError(t *testing.T) {
	reasoner := mock.NewMockReasoner().WithCompleteFunc(func(context.Context, []ai.Message) (string, error) {
		return "", errors.New("timeout")
	})
	extractor, err := NewInsightExtractor(reasoner)
	require.NoError(t, err)

	result, err := extractor.Extract(context.Background(), "Q", "A")

	assert.ErrorIs(t, err, ErrReasoningFailed)
	assert.False(t, result.IsOk())
	assert.Equal(t, 1, reasoner.CallCount())
}
