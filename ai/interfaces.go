package ai

import "context"

// MessageRole identifies the author of a message sent to a reasoning model.
type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// Message is a single entry of a chat conversation.
type Message struct {
	Role    MessageRole
	Content string
}

// SystemMessage returns a message carrying fixed instructions.
func SystemMessage(content string) Message {
	return Message{Role: MessageRoleSystem, Content: content}
}

// UserMessage returns a message carrying the text to operate on.
func UserMessage(content string) Message {
	return Message{Role: MessageRoleUser, Content: content}
}

// Reasoner completes a chat conversation with a language model.
// Implementations must be thread-safe for concurrent use.
type Reasoner interface {
	// Complete sends messages to the model and returns the text of its reply.
	// Returns an error if the service fails after the configured retries.
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// The returned slice contains embeddings in the same order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// AIProvider aggregates AI services for initialization and lifecycle management.
type AIProvider interface {
	// Reasoner returns the chat completion service.
	Reasoner() Reasoner

	// Embedder returns the text embedding service.
	Embedder() Embedder

	// Close releases resources held by the provider and its services.
	Close() error
}
