package badger

import (
	"encoding/binary"

	"github.com/fioneer/fioneer/core"
)

// Key prefixes for different data types
const (
	runEntryPrefix      = "runent:"
	indexedRecordPrefix = "kbrec:"
	artifactIndexPrefix = "kbart:"
)

// makeRunEntryKey generates a key for the ledger entry of an artifact key.
func makeRunEntryKey(key string) []byte {
	return []byte(runEntryPrefix + key)
}

// makeIndexedRecordKey generates a key for an indexed record by ID.
// Format: prefix + 8 byte big-endian id
func makeIndexedRecordKey(id core.ID) []byte {
	buf := make([]byte, len(indexedRecordPrefix)+8)
	offset := copy(buf, indexedRecordPrefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makePartialArtifactKey generates the prefix of every index entry of an artifact.
// Format: prefix:artifact:
func makePartialArtifactKey(artifact string) []byte {
	return []byte(artifactIndexPrefix + artifact + ":")
}

// makeArtifactKey generates a composite key linking an artifact to one of its records.
// Format: prefix:artifact: + 8 byte big-endian id
func makeArtifactKey(artifact string, id core.ID) []byte {
	partial := makePartialArtifactKey(artifact)
	buf := make([]byte, len(partial)+8)
	offset := copy(buf, partial)
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// idFromArtifactKey extracts the record id from a composite artifact key.
func idFromArtifactKey(key []byte) core.ID {
	return core.ID(binary.BigEndian.Uint64(key[len(key)-8:]))
}
