package transcript

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fioneer/fioneer/core"
	"github.com/fioneer/fioneer/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFileSource_Load(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "aapl_2024_Q1.csv",
		"speaker,content\nOperator,Welcome.\n,\nJane Doe,\"How were margins, overall?\"\n")

	src := NewFileSource(path)

	key, err := src.Key()
	require.NoError(t, err)
	assert.Equal(t, core.FileKey{Ticker: "AAPL", Year: 2024, Quarter: 1}, key)
	assert.Equal(t, "aapl_2024_Q1.csv", src.Name())

	tr, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, key, tr.Key)
	assert.Equal(t, []core.Turn{
		{Speaker: "Operator", Content: "Welcome."},
		{Speaker: "Jane Doe", Content: "How were margins, overall?"},
	}, tr.Turns)
}

func TestFileSource_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("malformed name", func(t *testing.T) {
		src := NewFileSource(write(t, dir, "notes.csv", "speaker,content\n"))
		_, err := src.Key()
		assert.ErrorIs(t, err, core.ErrInvalidFileKey)
		_, err = src.Load(context.Background())
		assert.ErrorIs(t, err, core.ErrInvalidFileKey)
	})

	t.Run("missing columns", func(t *testing.T) {
		src := NewFileSource(write(t, dir, "msft_2024_Q2.csv", "who,what\nOperator,hi\n"))
		_, err := src.Load(context.Background())
		assert.ErrorIs(t, err, table.ErrMissingColumn)
	})

	t.Run("cancelled context", func(t *testing.T) {
		src := NewFileSource(write(t, dir, "msft_2024_Q3.csv", "speaker,content\n"))
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := src.Load(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "msft_2024_Q1.csv", "speaker,content\n")
	write(t, dir, "aapl_2024_Q1.csv", "speaker,content\n")
	write(t, dir, "readme.txt", "ignore me")
	write(t, dir, "bad-name.csv", "speaker,content\n")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested_2024_Q1.csv"), 0o755))

	sources, err := Discover(dir, nil)
	require.NoError(t, err)

	var names []string
	for _, s := range sources {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"aapl_2024_Q1.csv", "bad-name.csv", "msft_2024_Q1.csv"}, names)

	_, err = sources[1].Key()
	assert.ErrorIs(t, err, core.ErrInvalidFileKey)
}

func TestDiscover_NotDirectory(t *testing.T) {
	path := write(t, t.TempDir(), "aapl_2024_Q1.csv", "speaker,content\n")
	_, err := Discover(path, nil)
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestMemorySource(t *testing.T) {
	key := core.FileKey{Ticker: "NVDA", Year: 2024, Quarter: 3}
	turns := []core.Turn{{Speaker: "Operator", Content: "hi"}}
	src := NewMemorySource(key, turns)

	assert.Equal(t, "NVDA_2024_Q3", src.Name())
	tr, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, turns, tr.Turns)

	tr.Turns[0].Content = "mutated"
	assert.Equal(t, "hi", turns[0].Content)
}
