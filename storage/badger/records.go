package badger

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fioneer/fioneer/core"
	"github.com/fioneer/fioneer/storage"
)

// RecordIndex implements storage.RecordIndex for BadgerDB.
type RecordIndex struct {
	backend *Backend
}

var _ storage.RecordIndex = (*RecordIndex)(nil)

// NewRecordIndex creates a new RecordIndex.
func NewRecordIndex(backend *Backend) *RecordIndex {
	return &RecordIndex{
		backend: backend,
	}
}

// ReplaceArtifact drops every record indexed under key and stores records
// in its place, in a single transaction.
func (r *RecordIndex) ReplaceArtifact(ctx context.Context, key string, records []*core.IndexedRecord) error {
	now := time.Now().UTC()
	return r.backend.WithTx(func(tx *badger.Txn) error {
		stale, err := r.artifactIDs(tx, key)
		if err != nil {
			return err
		}
		for _, id := range stale {
			if err := tx.Delete(makeArtifactKey(key, id)); err != nil {
				return err
			}
			owned, err := ownedBy(tx, id, key)
			if err != nil {
				return err
			}
			if owned {
				if err := tx.Delete(makeIndexedRecordKey(id)); err != nil {
					return err
				}
			}
		}

		for _, record := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			record.Key = key
			if record.IndexedAt.IsZero() {
				record.IndexedAt = now
			}
			if err := tx.Set(makeIndexedRecordKey(record.Id), storage.MarshalIndexedRecord(record)); err != nil {
				return err
			}
			if err := tx.Set(makeArtifactKey(key, record.Id), nil); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// ownedBy reports whether the record stored under id was last indexed from
// artifact. A record another artifact has since claimed is left alone.
func ownedBy(tx *badger.Txn, id core.ID, artifact string) (bool, error) {
	item, err := tx.Get(makeIndexedRecordKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	var owner string
	err = item.Value(func(val []byte) error {
		record, err := storage.UnmarshalIndexedRecord(val)
		if err != nil {
			return err
		}
		owner = record.Key
		return nil
	})
	return owner == artifact, err
}

func (r *RecordIndex) artifactIDs(tx *badger.Txn, key string) ([]core.ID, error) {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = makePartialArtifactKey(key)
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var ids []core.ID
	for iter.Rewind(); iter.Valid(); iter.Next() {
		ids = append(ids, idFromArtifactKey(iter.Item().Key()))
	}
	return ids, nil
}

// GetRecord retrieves a single record by ID.
func (r *RecordIndex) GetRecord(ctx context.Context, id core.ID) (*core.IndexedRecord, error) {
	var record *core.IndexedRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeIndexedRecordKey(id))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %d", storage.ErrNotFound, id)
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var unmarshalErr error
			record, unmarshalErr = storage.UnmarshalIndexedRecord(val)
			return unmarshalErr
		})
	}, false)
	return record, err
}

// CountRecords returns the number of indexed records.
func (r *RecordIndex) CountRecords(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(indexedRecordPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// FindSimilar scans every indexed record and scores it by dot product
// against vector. Both sides are expected to be L2-normalized, so the
// score is their cosine similarity.
func (r *RecordIndex) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", storage.ErrInvalidQuery)
	}

	var results []*core.SearchResult
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(indexedRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var record *core.IndexedRecord
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalIndexedRecord(val)
				return err
			})
			if err != nil {
				return err
			}

			// Skip records without embeddings
			if len(record.Vector) == 0 {
				continue
			}

			similarity := dotProduct(vector, record.Vector)
			if similarity >= minSimilarity {
				results = append(results, &core.SearchResult{
					Record: record,
					Score:  similarity,
				})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(results, func(a, b *core.SearchResult) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// dotProduct calculates the dot product of two vectors.
func dotProduct(a, b []float32) float32 {
	var sum float32
	n := min(len(a), len(b))
	for i := range n {
		sum += a[i] * b[i]
	}
	return sum
}
