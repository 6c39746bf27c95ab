// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fioneer/fioneer/core"
	"github.com/fioneer/fioneer/storage"
)

// Ledger implements storage.RunLedger for BadgerDB.
type Ledger struct {
	backend *Backend
}

var _ storage.RunLedger = (*Ledger)(nil)

// NewLedger creates a new Ledger.
func NewLedger(backend *Backend) *Ledger {
	return &Ledger{
		backend: backend,
	}
}

// RecordOutcome persists the outcome for entry.Key, replacing the previous one.
// UpdatedAt is stamped when not already set.
func (l *Ledger) RecordOutcome(ctx context.Context, entry *core.RunEntry) error {
	if entry.Key == "" {
		return fmt.Errorf("%w: empty ledger key", storage.ErrInvalidQuery)
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now().UTC()
	}
	return l.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makeRunEntryKey(entry.Key), storage.MarshalRunEntry(entry)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetOutcome retrieves the outcome recorded for key.
func (l *Ledger) GetOutcome(ctx context.Context, key string) (*core.RunEntry, error) {
	var entry *core.RunEntry
	err := l.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeRunEntryKey(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("%w: %s", storage.ErrNotFound, key)
			}
			return err
		}

		return item.Value(func(val []byte) error {
			var unmarshalErr error
			entry, unmarshalErr = storage.UnmarshalRunEntry(val)
			return unmarshalErr
		})
	}, false)

	return entry, err
}

// ListOutcomes returns every recorded outcome ordered by key.
func (l *Ledger) ListOutcomes(ctx context.Context) ([]*core.RunEntry, error) {
	var entries []*core.RunEntry
	err := l.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(runEntryPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := iter.Item().Value(func(val []byte) error {
				entry, err := storage.UnmarshalRunEntry(val)
				if err != nil {
					return err
				}
				entries = append(entries, entry)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)

	return entries, err
}
