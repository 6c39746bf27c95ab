package badger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fioneer/fioneer/core"
	"github.com/fioneer/fioneer/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenBackend_InMemory(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_FileSystem(t *testing.T) {
	tmpDir := t.TempDir()
	backend, err := OpenBackend(tmpDir, false)
	require.NoError(t, err)
	require.NotNil(t, backend)
	defer backend.Close()

	assert.False(t, backend.IsClosed())
}

func TestOpenBackend_PathIsFile(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(tmpFile, []byte("x"), 0o644))

	backend, err := OpenBackend(tmpFile, false)
	if err == nil {
		backend.Close()
	}
	assert.Error(t, err)
}

func TestBackendClose(t *testing.T) {
	backend, err := OpenBackend("", true)
	require.NoError(t, err)

	assert.False(t, backend.IsClosed())
	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())
}

func TestBackend_ClosedOperations(t *testing.T) {
	ledger, index, backend, err := NewMemoryStores()
	require.NoError(t, err)
	require.NoError(t, backend.Close())

	ctx := context.Background()

	err = ledger.RecordOutcome(ctx, &core.RunEntry{Key: "AAPL_2024_Q1", State: "PERSISTED"})
	assert.ErrorIs(t, err, storage.ErrStorageClosed)

	_, err = index.CountRecords(ctx)
	assert.ErrorIs(t, err, storage.ErrStorageClosed)
}

func TestKeys(t *testing.T) {
	id := core.ID(0x0102030405060708)

	key := makeArtifactKey("AAPL_2024_Q1", id)
	assert.Equal(t, "kbart:AAPL_2024_Q1:", string(key[:len(key)-8]))
	assert.Equal(t, id, idFromArtifactKey(key))

	recordKey := makeIndexedRecordKey(id)
	assert.Len(t, recordKey, len(indexedRecordPrefix)+8)
	assert.Equal(t, []byte("runent:MSFT_2023_Q4"), makeRunEntryKey("MSFT_2023_Q4"))
}
