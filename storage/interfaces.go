package storage

import (
	"context"

	"github.com/fioneer/fioneer/core"
)

// RecordStore persists the metadata records extracted from one transcript
// as a single artifact per file key. An artifact's presence marks the key
// as processed.
type RecordStore interface {
	// Exists reports whether an artifact for key has been persisted.
	Exists(key core.FileKey) (bool, error)

	// Save replaces the artifact for key with records. A failed save leaves
	// any previous artifact in place and returns an error wrapping
	// ErrPersistFailed. An empty batch is persisted as an empty artifact.
	Save(ctx context.Context, key core.FileKey, records []*core.MetadataRecord) error

	// Load reads the artifact for key.
	// Returns ErrNotFound if no artifact exists.
	Load(key core.FileKey) ([]*core.MetadataRecord, error)

	// Keys lists the keys of all persisted artifacts, sorted by name.
	Keys() ([]core.FileKey, error)

	// Path returns where the artifact for key lives.
	Path(key core.FileKey) string
}

// RunLedger records the last known outcome of each transcript.
type RunLedger interface {
	// RecordOutcome stores entry, replacing any previous entry for the same key.
	RecordOutcome(ctx context.Context, entry *core.RunEntry) error

	// GetOutcome returns the entry for key.
	// Returns ErrNotFound if the key has never been processed.
	GetOutcome(ctx context.Context, key string) (*core.RunEntry, error)

	// ListOutcomes returns every entry ordered by key.
	ListOutcomes(ctx context.Context) ([]*core.RunEntry, error)
}

// RecordIndex stores metadata records with their embeddings for similarity search.
type RecordIndex interface {
	// ReplaceArtifact makes records the complete set indexed for the
	// artifact key, dropping any record previously indexed under it.
	ReplaceArtifact(ctx context.Context, key string, records []*core.IndexedRecord) error

	// GetRecord retrieves a single record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetRecord(ctx context.Context, id core.ID) (*core.IndexedRecord, error)

	// FindSimilar finds records similar to the given normalized vector.
	// Returns records with similarity >= minSimilarity, up to limit results,
	// ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)

	// CountRecords returns the number of indexed records.
	CountRecords(ctx context.Context) (int, error)
}
