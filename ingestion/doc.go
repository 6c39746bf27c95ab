// Package ingestion runs the metadata extraction pipeline over earnings-call
// transcripts.
//
// A Driver takes each transcript through segmentation, structure extraction,
// per-pair enrichment (insight plus question and answer summaries), record
// assembly and persistence. Reasoning-service calls for one stage run
// concurrently on a bounded Orchestrator pool, and the stage waits for the
// whole batch before the next one starts.
//
// Failures are isolated. A section or pair that yields nothing is counted and
// skipped; a file that fails is recorded as FAILED and the run moves on to
// the next file.
package ingestion
