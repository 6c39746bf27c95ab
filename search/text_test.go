package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenizeAndFilter(t *testing.T) {
	got := tokenizeAndFilter("What is the outlook for Services, in China?")
	assert.Equal(t, []string{"what", "outlook", "services", "china"}, got)
}

func TestContainsAllQueryWords(t *testing.T) {
	doc := "Apple Inc.\nAAPL\nWearables revenue declined in Greater China."

	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{name: "all words present", query: "wearables China", want: true},
		{name: "case and punctuation ignored", query: "REVENUE, declined!", want: true},
		{name: "stop words ignored", query: "the revenue of apple", want: true},
		{name: "missing word", query: "wearables margin", want: false},
		{name: "only stop words", query: "the and of", want: false},
		{name: "empty query", query: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, containsAllQueryWords(doc, tt.query))
		})
	}
}
