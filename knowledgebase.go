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


package fioneer

import (
	"log/slog"

	"github.com/fioneer/fioneer/ai"
	"github.com/fioneer/fioneer/ai/openai"
	"github.com/fioneer/fioneer/index"
	"github.com/fioneer/fioneer/ingestion"
	"github.com/fioneer/fioneer/search"
	"github.com/fioneer/fioneer/storage"
	"github.com/fioneer/fioneer/storage/badger"
)

// KnowledgeBase bundles the badger-backed run ledger and record index with
// the AI provider that feeds them.
type KnowledgeBase struct {
	backend      *badger.Backend
	ledger       storage.RunLedger
	index        storage.RecordIndex
	provider     ai.AIProvider
	ownsProvider bool
	logger       *slog.Logger
}

// Option configures a KnowledgeBase.
type Option func(*options)

type options struct {
	aiConfig *ai.Config
	provider ai.AIProvider
	inMemory bool
	logger   *slog.Logger
}

// WithAIConfig sets the configuration of the OpenAI-compatible provider.
func WithAIConfig(config *ai.Config) Option {
	return func(o *options) {
		o.aiConfig = config
	}
}

// WithProvider uses provider instead of creating one. The caller keeps
// ownership and closes it.
func WithProvider(provider ai.AIProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// WithInMemory keeps all data in memory; path is ignored.
func WithInMemory() Option {
	return func(o *options) {
		o.inMemory = true
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Open opens or creates the knowledge base stored at path.
func Open(path string, opts ...Option) (*KnowledgeBase, error) {
	o := &options{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	backend, err := badger.OpenBackend(path, o.inMemory)
	if err != nil {
		return nil, err
	}

	provider := o.provider
	ownsProvider := false
	if provider == nil {
		provider, err = openai.NewProvider(o.aiConfig)
		if err != nil {
			backend.Close()
			return nil, err
		}
		ownsProvider = true
	}

	return &KnowledgeBase{
		backend:      backend,
		ledger:       badger.NewLedger(backend),
		index:        badger.NewRecordIndex(backend),
		provider:     provider,
		ownsProvider: ownsProvider,
		logger:       o.logger,
	}, nil
}

func (kb *KnowledgeBase) Close() error {
	if kb.ownsProvider {
		if err := kb.provider.Close(); err != nil {
			kb.logger.Error("error closing AI provider", "err", err)
		}
	}

	if err := kb.backend.Close(); err != nil {
		kb.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (kb *KnowledgeBase) Ledger() storage.RunLedger {
	return kb.ledger
}

func (kb *KnowledgeBase) Index() storage.RecordIndex {
	return kb.index
}

func (kb *KnowledgeBase) Provider() ai.AIProvider {
	return kb.provider
}

// NewDriver creates an extraction driver that records outcomes in the ledger.
func (kb *KnowledgeBase) NewDriver(
	store storage.RecordStore,
	companies ingestion.CompanyLookup,
	dates ingestion.DateLookup,
	opts ...ingestion.Option,
) (*ingestion.Driver, error) {
	opts = append([]ingestion.Option{ingestion.WithLedger(kb.ledger), ingestion.WithLogger(kb.logger)}, opts...)
	return ingestion.NewDriver(store, companies, dates, kb.provider, opts...)
}

// NewIndexer creates an indexer that embeds the artifacts in store.
func (kb *KnowledgeBase) NewIndexer(store storage.RecordStore, opts ...index.Option) (*index.Indexer, error) {
	opts = append([]index.Option{index.WithLogger(kb.logger)}, opts...)
	return index.NewIndexer(store, kb.index, kb.provider.Embedder(), opts...)
}

func (kb *KnowledgeBase) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	opts = append([]search.Option{search.WithLogger(kb.logger)}, opts...)
	return search.NewSearcher(kb.index, kb.provider.Embedder(), opts...)
}
