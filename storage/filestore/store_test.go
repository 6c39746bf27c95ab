package filestore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fioneer/fioneer/core"
	"github.com/fioneer/fioneer/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = core.FileKey{Ticker: "AAPL", Year: 2024, Quarter: 1}

func sampleRecords(insights ...string) []*core.MetadataRecord {
	records := make([]*core.MetadataRecord, len(insights))
	for i, insight := range insights {
		records[i] = &core.MetadataRecord{
			Company:        "Apple Inc.",
			Ticker:         "AAPL",
			Date:           "2024-02-01",
			Year:           2024,
			Quarter:        1,
			Insight:        insight,
			ReasoningSteps: []string{"1. step"},
		}
	}
	return records
}

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestStore_SaveAndLoad(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	exists, err := s.Exists(testKey)
	require.NoError(t, err)
	assert.False(t, exists)

	records := sampleRecords("Services & wearables <grew>.")
	require.NoError(t, s.Save(ctx, testKey, records))

	exists, err = s.Exists(testKey)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, filepath.Join(s.Dir(), "AAPL_2024_Q1.json"), s.Path(testKey))

	loaded, err := s.Load(testKey)
	require.NoError(t, err)
	assert.Equal(t, records, loaded)

	raw, err := os.ReadFile(s.Path(testKey))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  {\n    \"company\": \"Apple Inc.\"")
	assert.Contains(t, string(raw), "Services & wearables <grew>.", "HTML characters are not escaped")
	assert.Equal(t, []string{"AAPL_2024_Q1.json"}, dirNames(t, s.Dir()))
}

func TestStore_EmptyBatchIsPersisted(t *testing.T) {
	s := newStore(t)

	require.NoError(t, s.Save(context.Background(), testKey, nil))

	raw, err := os.ReadFile(s.Path(testKey))
	require.NoError(t, err)
	assert.Equal(t, "[]", strings.TrimSpace(string(raw)))

	exists, err := s.Exists(testKey)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestStore_ReplaceRemovesBackup(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, testKey, sampleRecords("old")))
	require.NoError(t, s.Save(ctx, testKey, sampleRecords("new")))

	loaded, err := s.Load(testKey)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "new", loaded[0].Insight)
	assert.Equal(t, []string{"AAPL_2024_Q1.json"}, dirNames(t, s.Dir()))
}

func TestStore_FailedSaveRestoresPrevious(t *testing.T) {
	tests := []struct {
		name   string
		breakf func(ops *fileOps)
	}{
		{
			name: "write fails",
			breakf: func(ops *fileOps) {
				ops.writeFile = func(name string, data []byte) error {
					// Leave a partial file behind, as a crash mid-write would.
					_ = os.WriteFile(name, data[:len(data)/2], 0o644)
					return errors.New("disk full")
				}
			},
		},
		{
			name: "final rename fails",
			breakf: func(ops *fileOps) {
				rename := ops.rename
				ops.rename = func(oldpath, newpath string) error {
					if strings.HasSuffix(oldpath, tempExt) {
						return errors.New("rename refused")
					}
					return rename(oldpath, newpath)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newStore(t)
			ctx := context.Background()
			require.NoError(t, s.Save(ctx, testKey, sampleRecords("previous")))
			before, err := os.ReadFile(s.Path(testKey))
			require.NoError(t, err)

			tt.breakf(&s.ops)
			err = s.Save(ctx, testKey, sampleRecords("replacement", "another"))

			require.ErrorIs(t, err, storage.ErrPersistFailed)
			after, err := os.ReadFile(s.Path(testKey))
			require.NoError(t, err)
			assert.Equal(t, before, after, "previous artifact must survive byte for byte")
			assert.Equal(t, []string{"AAPL_2024_Q1.json"}, dirNames(t, s.Dir()))
		})
	}
}

func TestStore_FailedFirstSaveLeavesNothing(t *testing.T) {
	s := newStore(t)
	s.ops.writeFile = func(string, []byte) error { return errors.New("read-only filesystem") }

	err := s.Save(context.Background(), testKey, sampleRecords("x"))

	require.ErrorIs(t, err, storage.ErrPersistFailed)
	exists, err := s.Exists(testKey)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Empty(t, dirNames(t, s.Dir()))
}

func TestStore_CancelledContext(t *testing.T) {
	s := newStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Save(ctx, testKey, sampleRecords("x"))

	assert.ErrorIs(t, err, storage.ErrPersistFailed)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_LoadMissing(t *testing.T) {
	s := newStore(t)
	_, err := s.Load(testKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestStore_Keys(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	msft := core.FileKey{Ticker: "MSFT", Year: 2023, Quarter: 4}

	require.NoError(t, s.Save(ctx, msft, nil))
	require.NoError(t, s.Save(ctx, testKey, nil))
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), "notes.json"), []byte("{}"), 0o644))

	keys, err := s.Keys()
	require.NoError(t, err)
	assert.Equal(t, []core.FileKey{testKey, msft}, keys)
}

func TestNew_CleansUpInterruptedSave(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	// Crash after the artifact was moved aside but before the new one landed.
	write("AAPL_2024_Q1.json.bak", "[]\n")
	// Crash after the new artifact landed but before the backup was removed.
	write("MSFT_2024_Q1.json", "[]\n")
	write("MSFT_2024_Q1.json.bak", "[]\n")
	// Crash mid-write of the temporary file.
	write("NVDA_2024_Q1.json.tmp", "[{\"comp")

	s, err := New(dir)
	require.NoError(t, err)

	assert.Equal(t, []string{"AAPL_2024_Q1.json", "MSFT_2024_Q1.json"}, dirNames(t, dir))
	exists, err := s.Exists(testKey)
	require.NoError(t, err)
	assert.True(t, exists)
}
