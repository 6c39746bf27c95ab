package extraction

import "errors"

var (
	// ErrReasonerRequired indicates an extractor was built without a reasoning service.
	ErrReasonerRequired = errors.New("reasoner is required")

	// ErrUnknownRole indicates a summary was requested for an unknown side of a pair.
	ErrUnknownRole = errors.New("unknown summary role")

	// ErrReasoningFailed indicates the reasoning service could not answer a
	// request after its retries. It is a failure, not an absence of signal.
	ErrReasoningFailed = errors.New("reasoning service failed")

	// ErrNoJSON indicates a model reply contained no JSON value.
	ErrNoJSON = errors.New("no JSON found in response")
)
