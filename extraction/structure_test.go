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

func replying(replies ...string) *mock.MockReasoner {
	calls := 0
	return mock.NewMockReasoner().WithCompleteFunc(func(context.Context, []ai.Message) (string, error) {
		r := replies[min(calls, len(replies)-1)]
		calls++
		return r, nil
	})
}

func TestNewStructureExtractor_RequiresReasoner(t *testing.T) {
	_, err := NewStructureExtractor(nil)
	assert.ErrorIs(t, err, ErrReasonerRequired)
}

func TestStructureExtractor_Extract(t *testing.T) {
	tests := []struct {
		name       string
		replies    []string
		wantPairs  []core.QAPair
		wantReason string
		wantCalls  int
	}{
		{
			name:    "single pair",
			replies: []string{`{"qa_pairs":[{"question":"Q1","answer":"A1","q_speaker":"Jane Doe","a_speaker":"John CFO"}]}`},
			wantPairs: []core.QAPair{
				{Question: "Q1", Answer: "A1", QuestionSpeaker: "Jane Doe", AnswerSpeaker: "John CFO"},
			},
			wantCalls: 1,
		},
		{
			name:    "empty answer speaker is repaired",
			replies: []string{`{"qa_pairs":[{"question":"Q1","answer":"A1","q_speaker":"Jane Doe","a_speaker":""}]}`},
			wantPairs: []core.QAPair{
				{Question: "Q1", Answer: "A1", QuestionSpeaker: "Jane Doe", AnswerSpeaker: core.UnknownSpeaker},
			},
			wantCalls: 1,
		},
		{
			name: "incomplete pairs are dropped",
			replies: []string{`{"qa_pairs":[
				{"question":"Q1","answer":"","q_speaker":"A","a_speaker":"B"},
				{"question":"Q2","answer":"A2","q_speaker":"A","a_speaker":"B"}]}`},
			wantPairs: []core.QAPair{
				{Question: "Q2", Answer: "A2", QuestionSpeaker: "A", AnswerSpeaker: "B"},
			},
			wantCalls: 1,
		},
		{
			name:    "bare array is accepted",
			replies: []string{"```json\n[{\"question\":\"Q\",\"answer\":\"A\",\"q_speaker\":\"x\",\"a_speaker\":\"y\"}]\n```"},
			wantPairs: []core.QAPair{
				{Question: "Q", Answer: "A", QuestionSpeaker: "x", AnswerSpeaker: "y"},
			},
			wantCalls: 1,
		},
		{
			name:       "sentinel",
			replies:    []string{"NO_QA"},
			wantReason: ReasonSentinel,
			wantCalls:  1,
		},
		{
			name:       "empty list",
			replies:    []string{`{"qa_pairs":[]}`},
			wantReason: ReasonEmpty,
			wantCalls:  1,
		},
		{
			name:       "all pairs incomplete",
			replies:    []string{`{"qa_pairs":[{"question":"","answer":"A"}]}`},
			wantReason: ReasonEmpty,
			wantCalls:  1,
		},
		{
			name:       "unparsable after every attempt",
			replies:    []string{"I think the analyst asked about margins."},
			wantReason: ReasonUnparsable,
			wantCalls:  defaultParseAttempts,
		},
		{
			name:    "unparsable then valid",
			replies: []string{"not json", `{"qa_pairs":[{"question":"Q","answer":"A","q_speaker":"x","a_speaker":"y"}]}`},
			wantPairs: []core.QAPair{
				{Question: "Q", Answer: "A", QuestionSpeaker: "x", AnswerSpeaker: "y"},
			},
			wantCalls: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reasoner := replying(tt.replies...)
			extractor, err := NewStructureExtractor(reasoner)
			require.NoError(t, err)

			result, err := extractor.Extract(context.Background(), "Operator: next question")
			require.NoError(t, err)

			pairs, ok := result.Value()
			if tt.wantReason != "" {
				assert.False(t, ok)
				assert.Equal(t, tt.wantReason, result.Reason())
			} else {
				require.True(t, ok, "reason: %s", result.Reason())
				assert.Equal(t, tt.wantPairs, pairs)
			}
			assert.Equal(t, tt.wantCalls, reasoner.CallCount())
		})
	}
}

func TestStructureExtractor_ServiceError(t *testing.T) {
	reasoner := mock.NewMockReasoner().WithCompleteFunc(func(context.Context, []ai.Message) (string, error) {
		return "", errors.New("rate limited")
	})
	extractor, err := NewStructureExtractor(reasoner)
	require.NoError(t, err)

	result, err := extractor.Extract(context.Background(), "section")

	assert.ErrorIs(t, err, ErrReasoningFailed)
	assert.ErrorContains(t, err, "rate limited")
	assert.False(t, result.IsOk())
	assert.Equal(t, 1, reasoner.CallCount())
}

func TestStructureExtractor_SendsSectionWithFixedPrompt(t *testing.T) {
	var got []ai.Message
	reasoner := mock.NewMockReasoner().WithCompleteFunc(func(_ context.Context, msgs []ai.Message) (string, error) {
		got = msgs
		return "NO_QA", nil
	})
	extractor, err := NewStructureExtractor(reasoner)
	require.NoError(t, err)

	_, err = extractor.Extract(context.Background(), "Operator: hello")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, ai.MessageRoleSystem, got[0].Role)
	assert.Contains(t, got[0].Content, SentinelNoQA)
	assert.Equal(t, ai.UserMessage("Operator: hello"), got[1])
}
