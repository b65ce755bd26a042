package llm

import "context"

// CompletionInput captures one chat-completion request.
type CompletionInput struct {
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Client abstracts LLM providers for text capabilities.
type Client interface {
	Complete(ctx context.Context, input CompletionInput) (string, error)
}
