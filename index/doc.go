// Package index builds the searchable knowledge base from persisted metadata
// artifacts.
//
// Every record's question summary, answer summary and insight are embedded in
// batches, normalized to unit length so that inner product equals cosine
// similarity, and stored in a storage.RecordIndex under the artifact key they
// came from. Records are identified by a hash of their source content, and an
// artifact's records are replaced as a unit, so indexing the same artifacts
// twice leaves the knowledge base unchanged.
package index
