package index

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressTracker_ReportsAtInterval(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 5)
	tracker.Start()

	tracker.Add(3)
	assert.Empty(t, buf.String())

	tracker.Add(2)
	assert.Contains(t, buf.String(), "Indexed: 5/10 (50.0%)")

	tracker.Add(100)
	assert.Equal(t, 10, tracker.Current())
	assert.Contains(t, buf.String(), "Indexed: 10/10 (100.0%)")
}

func TestProgressTracker_NotStarted(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 10, 1)

	tracker.Add(5)
	tracker.Finish()

	assert.Empty(t, buf.String())
	assert.Zero(t, tracker.Current())
	assert.Zero(t, tracker.Elapsed())
}

func TestProgressTracker_Finish(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewProgressTracker(&buf, 4, 100)
	tracker.Start()
	tracker.Add(4)
	tracker.Finish()

	out := buf.String()
	assert.True(t, strings.HasSuffix(out, "\n"))
	assert.Contains(t, out, "4/4")
}
