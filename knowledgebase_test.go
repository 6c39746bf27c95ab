package fioneer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fioneer/fioneer/ai/mock"
	"github.com/fioneer/fioneer/core"
	"github.com/fioneer/fioneer/reference"
	"github.com/fioneer/fioneer/storage/filestore"
	"github.com/fioneer/fioneer/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen(t *testing.T) {
	t.Run("create new knowledge base", func(t *testing.T) {
		kb, err := Open(filepath.Join(t.TempDir(), "kb"), WithProvider(mock.NewMockProvider()))
		require.NoError(t, err)
		defer kb.Close()

		assert.NotNil(t, kb.Ledger())
		assert.NotNil(t, kb.Index())
		assert.NotNil(t, kb.Provider())
	})

	t.Run("default provider", func(t *testing.T) {
		kb, err := Open("", WithInMemory())
		require.NoError(t, err)
		assert.True(t, kb.ownsProvider)
		assert.NoError(t, kb.Close())
	})

	t.Run("error with invalid path", func(t *testing.T) {
		tmpFile := filepath.Join(t.TempDir(), "not_a_dir")
		require.NoError(t, os.WriteFile(tmpFile, []byte("test"), 0o644))

		kb, err := Open(tmpFile, WithProvider(mock.NewMockProvider()))
		assert.Error(t, err)
		assert.Nil(t, kb)
	})
}

func TestKnowledgeBase_Factories(t *testing.T) {
	kb, err := Open("", WithInMemory(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer kb.Close()

	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	driver, err := kb.NewDriver(store, reference.NewCompanies(), reference.NewEarningsDates(nil))
	require.NoError(t, err)
	driver.Release()

	_, err = kb.NewIndexer(store)
	require.NoError(t, err)

	_, err = kb.NewSearcher()
	require.NoError(t, err)
}

func TestKnowledgeBase_ExtractIndexSearch(t *testing.T) {
	kb, err := Open("", WithInMemory(), WithProvider(mock.NewMockProvider()))
	require.NoError(t, err)
	defer kb.Close()
	ctx := context.Background()

	store, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	key := core.FileKey{Ticker: "AAPL", Year: 2024, Quarter: 2}
	driver, err := kb.NewDriver(store,
		reference.NewCompanies(core.Company{Ticker: "AAPL", Name: "Apple Inc."}),
		reference.NewEarningsDates(map[string]string{"aapl_2024_Q2": "2024-05-02"}),
	)
	require.NoError(t, err)
	defer driver.Release()

	// The default mock reasoner echoes its input, which the structure
	// extractor cannot parse, so the file persists with no records.
	stats, err := driver.Run(ctx, []transcript.Source{transcript.NewMemorySource(key, []core.Turn{
		{Speaker: "Operator", Content: "First question."},
		{Speaker: "Jane Doe", Content: "How is demand?"},
		{Speaker: "CEO", Content: "Strong."},
	})})
	require.NoError(t, err)
	assert.Equal(t, 1, stats.FilesPersisted)
	assert.Equal(t, 1, stats.SectionsSkipped)

	entry, err := kb.Ledger().GetOutcome(ctx, "AAPL_2024_Q2")
	require.NoError(t, err)
	assert.Equal(t, "PERSISTED", entry.State)

	// Index a hand-written artifact and find it again.
	record := &core.MetadataRecord{
		Company: "Microsoft", Ticker: "MSFT", Date: "2023-07-25",
		QuestionSummary: "Azure growth", AnswerSummary: "Accelerating", Insight: "Azure growth accelerated.",
	}
	require.NoError(t, store.Save(ctx, core.FileKey{Ticker: "MSFT", Year: 2023, Quarter: 4}, []*core.MetadataRecord{record}))

	indexer, err := kb.NewIndexer(store)
	require.NoError(t, err)
	report, err := indexer.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Records)

	searcher, err := kb.NewSearcher()
	require.NoError(t, err)
	results, err := searcher.Search(ctx, record.IndexText(), 3)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "MSFT", results[0].Record.Record.Ticker)
}
