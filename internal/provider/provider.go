// Package provider defines the LLM backend interface and implementations.
// Cohere is the default backend; OpenAI-compatible and Ollama endpoints are
// available for users who prefer them.
package provider

import "context"

// Message represents a single message in a conversation.
// Decoupled from any specific LLM API so callers don't import
// backend-specific types.
type Message struct {
	Role    string // "system", "user", "assistant"
	Content string
}

// ChatRequest represents a normalized LLM request.
type ChatRequest struct {
	Messages []Message
	Model    string
}

// Usage represents token usage metadata when available.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// ChatResponse is a normalized provider response.
type ChatResponse struct {
	// Text is the assistant content shown to the user.
	Text string
	// FinishReason is the provider stop reason, when available.
	FinishReason string
	// Usage is token usage metadata, when available.
	Usage Usage
}

// Provider sends conversations to an LLM backend.
type Provider interface {
	// Chat sends the request and returns a normalized provider response.
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)

	// Name returns the provider name (e.g., "cohere").
	Name() string

	// Available checks if this provider is ready to use.
	Available(ctx context.Context) error
}
