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

import "errors"

var (
	// ErrRecordStoreRequired is returned when no artifact store is provided.
	ErrRecordStoreRequired = errors.New("record store required")

	// ErrRecordIndexRequired is returned when no record index is provided.
	ErrRecordIndexRequired = errors.New("record index required")

	// ErrEmbedderRequired is returned when no embedder is provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidConfig is returned for a non-positive batch size or retry count.
	ErrInvalidConfig = errors.New("invalid index config")

	// ErrEmbeddingMismatch is returned when the embedder returns the wrong
	// number of vectors for a batch.
	ErrEmbeddingMismatch = errors.New("embedding count mismatch")
)
