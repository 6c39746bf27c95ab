package ingestion

import (
	"log/slog"

	"github.com/fioneer/fioneer/core"
)

// CompanyLookup resolves a ticker to its company facts.
type CompanyLookup interface {
	Lookup(ticker string) (core.Company, error)
}

// DateLookup resolves a call to its earnings date.
type DateLookup interface {
	Lookup(key core.FileKey) (string, error)
}

// Assembler joins extraction outputs with reference data into records.
type Assembler struct {
	companies CompanyLookup
	dates     DateLookup
	logger    *slog.Logger
}

// NewAssembler creates an Assembler over the given reference tables.
func NewAssembler(companies CompanyLookup, dates DateLookup, logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		companies: companies,
		dates:     dates,
		logger:    logger.With("component", "assembler"),
	}
}

// Company returns the company for key's ticker.
func (a *Assembler) Company(key core.FileKey) (core.Company, error) {
	return a.companies.Lookup(key.Ticker)
}

// EarningsDate returns the earnings date for key.
func (a *Assembler) EarningsDate(key core.FileKey) (string, error) {
	return a.dates.Lookup(key)
}

// Assemble builds the record for one pair. It reports false when the pair
// has no insight or the resulting record is invalid.
func (a *Assembler) Assemble(key core.FileKey, company core.Company, date string, pair core.QAPair, e Enrichment) (*core.MetadataRecord, bool) {
	insight, ok := e.Insight.Value()
	if !ok {
		return nil, false
	}

	steps := insight.ReasoningSteps
	if steps == nil {
		steps = []string{}
	}

	record := &core.MetadataRecord{
		Company:         company.Name,
		Country:         company.Country,
		Ticker:          key.Ticker,
		Date:            date,
		Year:            key.Year,
		Quarter:         key.Quarter,
		Sector:          company.Sector,
		Industry:        company.Industry,
		QuestionSpeaker: pair.QuestionSpeaker,
		AnswerSpeaker:   pair.AnswerSpeaker,
		QuestionSummary: e.QuestionSummary,
		AnswerSummary:   e.AnswerSummary,
		QuestionFull:    pair.Question,
		AnswerFull:      pair.Answer,
		Insight:         insight.Insight,
		ReasoningSteps:  steps,
	}
	if err := core.ValidateMetadataRecord(record); err != nil {
		a.logger.Debug("dropping invalid record", "file", key.String(), "err", err)
		return nil, false
	}
	return record, true
}
