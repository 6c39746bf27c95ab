// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Reasoner, ai.Embedder
// and ai.AIProvider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
// All mocks are safe for concurrent use.
//
// # Usage in Tests
//
//	reasoner := mock.NewMockReasoner().
//	    WithCompleteFunc(func(ctx context.Context, msgs []ai.Message) (string, error) {
//	        return "NO_QA", nil
//	    })
//	provider := mock.NewMockProviderWithServices(reasoner, mock.NewMockEmbedder())
//
//	count := reasoner.CallCount()
//
// # Default Behavior
//
//   - MockReasoner: echoes the content of the last user message
//   - MockEmbedder: returns deterministic unit vectors based on text hash
//   - MockProvider: aggregates mock reasoner and embedder
package mock
