package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "same content produces same ID", content: "test content"},
		{name: "empty string", content: ""},
		{name: "long content", content: "Revenue grew eight percent year over year driven by services"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)
			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	if IDFromContent("content1") == IDFromContent("content2") {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestSection_Text(t *testing.T) {
	tests := []struct {
		name    string
		section Section
		want    string
	}{
		{
			name:    "empty section",
			section: Section{},
			want:    "",
		},
		{
			name: "operator and analyst",
			section: Section{Turns: []Turn{
				{Speaker: "Operator", Content: "Next question."},
				{Speaker: "Jane Doe", Content: "How were margins?"},
			}},
			want: "Operator: Next question.\nJane Doe: How were margins?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.section.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTurn_IsOperator(t *testing.T) {
	tests := []struct {
		speaker string
		want    bool
	}{
		{"Operator", true},
		{"  Operator ", true},
		{"operator", false},
		{"Operator Assistant", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.speaker, func(t *testing.T) {
			if got := (Turn{Speaker: tt.speaker}).IsOperator(); got != tt.want {
				t.Errorf("IsOperator(%q) = %v, want %v", tt.speaker, got, tt.want)
			}
		})
	}
}

func TestMetadataRecord_ContentID(t *testing.T) {
	a := &MetadataRecord{Ticker: "AAPL", Date: "2024-01-30", QuestionFull: "q", AnswerFull: "a"}
	b := *a
	b.Insight = "different insight, same origin"

	if a.ContentID("AAPL_2024_Q1") != b.ContentID("AAPL_2024_Q1") {
		t.Errorf("ContentID() should ignore derived fields")
	}

	c := *a
	c.AnswerFull = "another answer"
	if a.ContentID("AAPL_2024_Q1") == c.ContentID("AAPL_2024_Q1") {
		t.Errorf("ContentID() should change with the answer text")
	}

	if a.ContentID("AAPL_2024_Q1") == a.ContentID("AAPL_2024_Q2") {
		t.Errorf("ContentID() should change with the artifact")
	}
}

func TestRole_String(t *testing.T) {
	if RoleQuestion.String() != "question" || RoleAnswer.String() != "answer" {
		t.Errorf("unexpected role names: %s, %s", RoleQuestion, RoleAnswer)
	}
	if Role(0).String() != "unknown" {
		t.Errorf("zero role should be unknown")
	}
}
