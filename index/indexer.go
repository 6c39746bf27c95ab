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


package index

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fioneer/fioneer/ai"
	"github.com/fioneer/fioneer/core"
	"github.com/fioneer/fioneer/storage"
)

// Report summarizes an indexing run.
type Report struct {
	Artifacts int
	Records   int
	Elapsed   time.Duration
}

// Indexer embeds persisted metadata artifacts into a record index.
type Indexer struct {
	store    storage.RecordStore
	index    storage.RecordIndex
	embedder ai.Embedder
	config   *Config
	progress io.Writer
	logger   *slog.Logger
}

// NewIndexer creates a new indexer.
func NewIndexer(store storage.RecordStore, index storage.RecordIndex, embedder ai.Embedder, opts ...Option) (*Indexer, error) {
	if store == nil {
		return nil, ErrRecordStoreRequired
	}
	if index == nil {
		return nil, ErrRecordIndexRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	ix := &Indexer{
		store:    store,
		index:    index,
		embedder: embedder,
		config:   DefaultConfig(),
		progress: io.Discard,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(ix)
	}
	if err := ix.config.Validate(); err != nil {
		return nil, err
	}
	ix.logger = ix.logger.With("component", "indexer")
	return ix, nil
}

type artifact struct {
	key     core.FileKey
	records []*core.MetadataRecord
}

// Run indexes every persisted artifact. Artifacts are processed in key order
// and each one replaces whatever was previously indexed under its key.
func (ix *Indexer) Run(ctx context.Context) (*Report, error) {
	keys, err := ix.store.Keys()
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}

	artifacts := make([]artifact, 0, len(keys))
	total := 0
	for _, key := range keys {
		records, err := ix.store.Load(key)
		if err != nil {
			return nil, fmt.Errorf("failed to load artifact %s: %w", key, err)
		}
		artifacts = append(artifacts, artifact{key: key, records: records})
		total += len(records)
	}

	report := &Report{}
	if len(artifacts) == 0 {
		fmt.Fprintf(ix.progress, "No artifacts found\n")
		return report, nil
	}

	fmt.Fprintf(ix.progress, "Indexing %d records from %d artifacts (batch size: %d)\n",
		total, len(artifacts), ix.config.BatchSize)

	tracker := NewProgressTracker(ix.progress, total, ix.config.ReportInterval)
	tracker.Start()

	embedder := &batchEmbedder{
		embedder:   ix.embedder,
		batchSize:  ix.config.BatchSize,
		maxRetries: ix.config.MaxRetries,
		retryDelay: ix.config.RetryDelay,
		logger:     ix.logger,
	}

	for _, a := range artifacts {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		indexed, err := ix.indexArtifact(ctx, embedder, a, tracker.Add)
		if err != nil {
			return report, err
		}
		report.Artifacts++
		report.Records += indexed
	}

	tracker.Finish()
	report.Elapsed = tracker.Elapsed()
	ix.logger.Info("indexing complete", "artifacts", report.Artifacts, "records", report.Records, "elapsed", report.Elapsed)
	return report, nil
}

func (ix *Indexer) indexArtifact(ctx context.Context, embedder *batchEmbedder, a artifact, done func(int)) (int, error) {
	texts := make([]string, len(a.records))
	for i, record := range a.records {
		texts[i] = record.IndexText()
	}

	vectors, err := embedder.embed(ctx, texts, done)
	if err != nil {
		return 0, fmt.Errorf("failed to embed artifact %s: %w", a.key, err)
	}

	// Duplicate records within an artifact collapse onto one ID.
	seen := make(map[core.ID]bool, len(a.records))
	indexed := make([]*core.IndexedRecord, 0, len(a.records))
	for i, record := range a.records {
		id := record.ContentID(a.key.String())
		if seen[id] {
			continue
		}
		seen[id] = true
		indexed = append(indexed, &core.IndexedRecord{
			Id:     id,
			Record: *record,
			Vector: vectors[i],
		})
	}

	if err := ix.index.ReplaceArtifact(ctx, a.key.String(), indexed); err != nil {
		return 0, fmt.Errorf("failed to index artifact %s: %w", a.key, err)
	}
	ix.logger.Debug("indexed artifact", "file", a.key.String(), "records", len(indexed))
	return len(indexed), nil
}
