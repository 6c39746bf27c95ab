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


// Package storage provides the storage abstraction layer for fioneer.
//
// This package defines the interfaces that decouple persistence from the
// pipeline and the knowledge base:
//
//   - RecordStore: one JSON artifact of metadata records per call
//     (implemented by storage/filestore)
//   - RunLedger: last known outcome of each transcript
//     (implemented by storage/badger)
//   - RecordIndex: embedded records for similarity search
//     (implemented by storage/badger)
//
// It also holds the binary encoding used for values kept in BadgerDB.
//
// # Usage
//
// Open a knowledge base backend:
//
//	backend, err := badger.OpenBackend("/path/to/db", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer backend.Close()
//	ledger := badger.NewLedger(backend)
//
// Use in tests with in-memory storage:
//
//	backend, err := badger.NewMemoryBackend()
//
// # Thread Safety
//
// All implementations must be thread-safe and support concurrent access
// from multiple goroutines.
package storage
