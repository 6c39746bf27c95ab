// Package extraction turns raw call transcripts into structured signal.
//
// Segment splits a transcript into Operator-delimited sections. The
// StructureExtractor asks the reasoning model to split a section into
// question/answer pairs, the InsightExtractor derives a one-sentence
// insight with supporting reasoning steps for a pair, and the Summarizer
// condenses either side of a pair.
//
// A model that answers with a sentinel or with a reply that cannot be
// parsed produces a Result without a value, so a bad section or pair is
// skipped without affecting its siblings. A reasoning service that cannot
// be reached is different: the structure and insight extractors return an
// error wrapping ErrReasoningFailed, and the Summarizer's caller falls back
// to the full text.
package extraction
