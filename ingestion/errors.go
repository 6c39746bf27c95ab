package ingestion

import "errors"

var (
	// ErrRecordStoreRequired is returned when a record store is not provided.
	ErrRecordStoreRequired = errors.New("record store required")

	// ErrCompaniesRequired is returned when the company table is not provided.
	ErrCompaniesRequired = errors.New("company table required")

	// ErrEarningsDatesRequired is returned when the earnings-date table is not provided.
	ErrEarningsDatesRequired = errors.New("earnings date table required")

	// ErrAIProviderRequired is returned when an AI provider is needed to build
	// an extractor that was not supplied directly.
	ErrAIProviderRequired = errors.New("AI provider required")

	// ErrInvalidPoolSize is returned for a pool size outside [1, MaxPoolSize].
	ErrInvalidPoolSize = errors.New("invalid pool size")

	// ErrFilePanicked wraps a panic recovered while processing one file.
	ErrFilePanicked = errors.New("file processing panicked")
)
