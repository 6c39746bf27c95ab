package ai

import "errors"

var (
	// ErrNoChoices indicates the model returned a response without any choices.
	ErrNoChoices = errors.New("model returned no choices")

	// ErrEmbeddingCountMismatch indicates a batch embedding call returned the
	// wrong number of vectors.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")
)
