package interfaces

import (
	"context"
)

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// LLMService defines the interface for generative-text operations.
// Implementations wrap a cloud provider (Anthropic Claude, Google Gemini).
type LLMService interface {
	// Chat generates a completion response based on the conversation history.
	// The messages slice should contain the full conversation context in
	// chronological order, including system prompts, user messages, and
	// previous assistant responses.
	Chat(ctx context.Context, messages []Message) (string, error)

	// Provider returns the provider name ("claude", "gemini") for
	// observability and content metadata.
	Provider() string

	// Model returns the configured model name.
	Model() string

	// HealthCheck verifies the service is operational and can handle
	// requests. For cloud services this checks API connectivity and
	// authentication with a lightweight probe.
	HealthCheck(ctx context.Context) error

	// Close releases resources held by the service.
	Close() error
}
