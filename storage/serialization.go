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


package storage

import (
	"fmt"
	"math"
	"time"

	"github.com/fioneer/fioneer/core"
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Leading version of every encoded value.
const encodingVersion uint64 = 1

// fieldSink is fed the fields of a value in order. The same walk is used to
// size a buffer and then fill it.
type fieldSink interface {
	str(v string)
	int(v int64)
	uint(v uint64)
	f32(v float32)
}

type sizer struct{ n int }

func (s *sizer) str(v string)  { s.n += ord.String.Size(v) }
func (s *sizer) int(v int64)   { s.n += varint.Int64.Size(v) }
func (s *sizer) uint(v uint64) { s.n += varint.Uint64.Size(v) }
func (s *sizer) f32(v float32) { s.n += varint.Uint32.Size(math.Float32bits(v)) }

type writer struct {
	bs []byte
	n  int
}

func (w *writer) str(v string)  { w.n += ord.String.Marshal(v, w.bs[w.n:]) }
func (w *writer) int(v int64)   { w.n += varint.Int64.Marshal(v, w.bs[w.n:]) }
func (w *writer) uint(v uint64) { w.n += varint.Uint64.Marshal(v, w.bs[w.n:]) }
func (w *writer) f32(v float32) { w.n += varint.Uint32.Marshal(math.Float32bits(v), w.bs[w.n:]) }

// reader decodes fields in order and keeps the first error.
type reader struct {
	bs  []byte
	n   int
	err error
}

func (r *reader) str() string {
	if r.err != nil {
		return ""
	}
	v, n, err := ord.String.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *reader) int() int64 {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Int64.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *reader) uint() uint64 {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Uint64.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	return v
}

func (r *reader) f32() float32 {
	if r.err != nil {
		return 0
	}
	v, n, err := varint.Uint32.Unmarshal(r.bs[r.n:])
	r.n += n
	r.err = err
	return math.Float32frombits(v)
}

// count reads a slice length and rejects lengths the remaining bytes
// cannot possibly hold.
func (r *reader) count() int {
	c := r.uint()
	if r.err == nil && c > uint64(len(r.bs)-r.n) {
		r.err = fmt.Errorf("length %d exceeds remaining %d bytes", c, len(r.bs)-r.n)
	}
	return int(c)
}

func (r *reader) time() time.Time {
	return time.UnixMicro(r.int()).UTC()
}

func (r *reader) version() {
	if v := r.uint(); r.err == nil && v != encodingVersion {
		r.err = fmt.Errorf("unsupported encoding version %d", v)
	}
}

func (r *reader) done() error {
	if r.err != nil {
		return fmt.Errorf("%w: %w", ErrSerializationFailed, r.err)
	}
	return nil
}

func encode[T any](v *T, walk func(fieldSink, *T)) []byte {
	var s sizer
	walk(&s, v)
	w := writer{bs: make([]byte, s.n)}
	walk(&w, v)
	return w.bs
}

func walkStrings(s fieldSink, list []string) {
	s.uint(uint64(len(list)))
	for _, v := range list {
		s.str(v)
	}
}

func (r *reader) strings() []string {
	n := r.count()
	if r.err != nil || n == 0 {
		return nil
	}
	list := make([]string, n)
	for i := range list {
		list[i] = r.str()
	}
	return list
}

func walkVector(s fieldSink, vector []float32) {
	s.uint(uint64(len(vector)))
	for _, v := range vector {
		s.f32(v)
	}
}

func (r *reader) vector() []float32 {
	n := r.count()
	if r.err != nil || n == 0 {
		return nil
	}
	vector := make([]float32, n)
	for i := range vector {
		vector[i] = r.f32()
	}
	return vector
}

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, varint.Uint64.Size(uint64(id)))
	varint.Uint64.Marshal(uint64(id), buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := varint.Uint64.Unmarshal(data)
	return core.ID(id), err
}

func walkRunEntry(s fieldSink, e *core.RunEntry) {
	s.uint(encodingVersion)
	s.str(e.Key)
	s.str(e.State)
	s.int(int64(e.Records))
	s.int(int64(e.SectionsSkipped))
	s.int(int64(e.PairsSkipped))
	s.str(e.Reason)
	s.str(e.RunID)
	s.int(e.UpdatedAt.UnixMicro())
}

// MarshalRunEntry serializes a RunEntry to bytes.
func MarshalRunEntry(entry *core.RunEntry) []byte {
	return encode(entry, walkRunEntry)
}

// UnmarshalRunEntry deserializes a RunEntry from bytes.
func UnmarshalRunEntry(data []byte) (*core.RunEntry, error) {
	r := &reader{bs: data}
	r.version()
	entry := &core.RunEntry{
		Key:             r.str(),
		State:           r.str(),
		Records:         int(r.int()),
		SectionsSkipped: int(r.int()),
		PairsSkipped:    int(r.int()),
		Reason:          r.str(),
		RunID:           r.str(),
		UpdatedAt:       r.time(),
	}
	if err := r.done(); err != nil {
		return nil, err
	}
	return entry, nil
}

func walkMetadataRecord(s fieldSink, m *core.MetadataRecord) {
	s.str(m.Company)
	s.str(m.Country)
	s.str(m.Ticker)
	s.str(m.Date)
	s.int(int64(m.Year))
	s.int(int64(m.Quarter))
	s.str(m.Sector)
	s.str(m.Industry)
	s.str(m.QuestionSpeaker)
	s.str(m.AnswerSpeaker)
	s.str(m.QuestionSummary)
	s.str(m.AnswerSummary)
	s.str(m.QuestionFull)
	s.str(m.AnswerFull)
	s.str(m.Insight)
	walkStrings(s, m.ReasoningSteps)
}

func (r *reader) metadataRecord() core.MetadataRecord {
	return core.MetadataRecord{
		Company:         r.str(),
		Country:         r.str(),
		Ticker:          r.str(),
		Date:            r.str(),
		Year:            int(r.int()),
		Quarter:         int(r.int()),
		Sector:          r.str(),
		Industry:        r.str(),
		QuestionSpeaker: r.str(),
		AnswerSpeaker:   r.str(),
		QuestionSummary: r.str(),
		AnswerSummary:   r.str(),
		QuestionFull:    r.str(),
		AnswerFull:      r.str(),
		Insight:         r.str(),
		ReasoningSteps:  r.strings(),
	}
}

func walkIndexedRecord(s fieldSink, rec *core.IndexedRecord) {
	s.uint(encodingVersion)
	s.uint(uint64(rec.Id))
	s.str(rec.Key)
	walkMetadataRecord(s, &rec.Record)
	walkVector(s, rec.Vector)
	s.int(rec.IndexedAt.UnixMicro())
}

// MarshalIndexedRecord serializes an IndexedRecord to bytes.
func MarshalIndexedRecord(record *core.IndexedRecord) []byte {
	return encode(record, walkIndexedRecord)
}

// UnmarshalIndexedRecord deserializes an IndexedRecord from bytes.
func UnmarshalIndexedRecord(data []byte) (*core.IndexedRecord, error) {
	r := &reader{bs: data}
	r.version()
	record := &core.IndexedRecord{
		Id:  core.ID(r.uint()),
		Key: r.str(),
	}
	record.Record = r.metadataRecord()
	record.Vector = r.vector()
	record.IndexedAt = r.time()
	if err := r.done(); err != nil {
		return nil, err
	}
	return record, nil
}
