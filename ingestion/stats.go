package ingestion

import (
	"errors"
	"fmt"
	"time"
)

// FileState is the stage a file reached in a run.
type FileState int

const (
	StatePending FileState = iota
	StateSkipped
	StateSegmented
	StateStructured
	StateEnriched
	StatePersisted
	StateFailed
)

func (s FileState) String() string {
	switch s {
	case StatePending:
		return "PENDING"
	case StateSkipped:
		return "SKIPPED"
	case StateSegmented:
		return "SEGMENTED"
	case StateStructured:
		return "STRUCTURED"
	case StateEnriched:
		return "ENRICHED"
	case StatePersisted:
		return "PERSISTED"
	case StateFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("FileState(%d)", int(s))
	}
}

// FileOutcome is the result of processing one input.
type FileOutcome struct {
	Name            string
	Key             string // empty when the name is not a valid key
	State           FileState
	Records         int
	SectionsSkipped int
	PairsSkipped    int
	Reason          string // why the file was skipped or failed
	Err             error
	Duration        time.Duration
}

// RunStats aggregates the outcomes of one Driver run.
type RunStats struct {
	RunID            string
	FilesSeen        int
	FilesPersisted   int
	FilesSkipped     int
	FilesFailed      int
	RecordsPersisted int
	SectionsSkipped  int // counted for persisted files only
	PairsSkipped     int // counted for persisted files only
	Outcomes         []FileOutcome
	StartedAt        time.Time
	FinishedAt       time.Time
}

func (s *RunStats) add(o FileOutcome) {
	s.FilesSeen++
	switch o.State {
	case StatePersisted:
		s.FilesPersisted++
		s.RecordsPersisted += o.Records
		s.SectionsSkipped += o.SectionsSkipped
		s.PairsSkipped += o.PairsSkipped
	case StateSkipped:
		s.FilesSkipped++
	case StateFailed:
		s.FilesFailed++
	}
	s.Outcomes = append(s.Outcomes, o)
}

// Err joins the errors of every failed file, or returns nil.
func (s *RunStats) Err() error {
	var errs []error
	for _, o := range s.Outcomes {
		if o.State == StateFailed && o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.Name, o.Err))
		}
	}
	return errors.Join(errs...)
}

// Summary renders the run totals on one line.
func (s *RunStats) Summary() string {
	return fmt.Sprintf(
		"files=%d persisted=%d skipped=%d failed=%d records=%d sections_skipped=%d pairs_skipped=%d elapsed=%s",
		s.FilesSeen, s.FilesPersisted, s.FilesSkipped, s.FilesFailed,
		s.RecordsPersisted, s.SectionsSkipped, s.PairsSkipped,
		s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond),
	)
}
