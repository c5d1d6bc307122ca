package llmprovider

import "context"

// Provider defines the interface for LLM providers
type Provider interface {
	// Complete sends a single-shot completion request and returns the top reply
	Complete(ctx context.Context, req *Request) (*Response, error)

	// Name returns the provider name (e.g., "claude", "deepseek")
	Name() string

	// Model returns the model being used
	Model() string
}

// Request represents a normalized completion request.
// Sampling parameters are fixed per provider and not part of the request.
type Request struct {
	SystemPrompt string
	Messages     []Message
}

// Message represents a conversation message
type Message struct {
	Role    string // "user", "assistant"
	Content string
}

// NewUserRequest builds the (user_text, system_prompt) request the relay sends.
func NewUserRequest(systemPrompt, userText string) *Request {
	return &Request{
		SystemPrompt: systemPrompt,
		Messages:     []Message{{Role: RoleUser, Content: userText}},
	}
}

// Response represents a normalized completion response
type Response struct {
	Text         string
	ProviderName string
	ModelName    string
	Usage        *Usage
}

// Usage tracks token consumption
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"

	ProviderChatGPT  = "chatgpt"
	ProviderClaude   = "claude"
	ProviderDeepSeek = "deepseek"
)
