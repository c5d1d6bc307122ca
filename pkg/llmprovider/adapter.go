package llmprovider

import (
	"context"
	"errors"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"telegram-ai-relay/pkg/claude"
	"telegram-ai-relay/pkg/deepseek"
)

const (
	ChatGPTMaxTokens    = 1024
	ChatGPTTemperature  = 0.7
	ChatGPTDefaultModel = "gpt-4-1106-preview"
)

// ChatCompleter is the subset of *openai.Client the ChatGPT adapter needs.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// ChatGPTAdapter adapts go-openai to the Provider interface
type ChatGPTAdapter struct {
	client ChatCompleter
	model  string
}

// NewChatGPTAdapter creates a new ChatGPT adapter
func NewChatGPTAdapter(client ChatCompleter, model string) *ChatGPTAdapter {
	if model == "" {
		model = ChatGPTDefaultModel
	}
	return &ChatGPTAdapter{client: client, model: model}
}

// Complete implements Provider interface
func (a *ChatGPTAdapter) Complete(ctx context.Context, req *Request) (*Response, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(req.Messages)+1)
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.SystemPrompt})
	for _, m := range req.Messages {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}

	resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       a.model,
		Messages:    msgs,
		MaxTokens:   ChatGPTMaxTokens,
		Temperature: ChatGPTTemperature,
	})
	if err != nil {
		return nil, classify(ProviderChatGPT, openAIStatus(err))
	}
	if len(resp.Choices) == 0 {
		return nil, classify(ProviderChatGPT, ErrMalformedResponse)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, classify(ProviderChatGPT, ErrMalformedResponse)
	}

	return &Response{
		Text:         text,
		ProviderName: ProviderChatGPT,
		ModelName:    resp.Model,
		Usage: &Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

// Name returns provider name
func (a *ChatGPTAdapter) Name() string {
	return ProviderChatGPT
}

// Model returns model name
func (a *ChatGPTAdapter) Model() string {
	return a.model
}

// openAIStatus lifts the HTTP status out of go-openai error types.
func openAIStatus(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &statusError{status: apiErr.HTTPStatusCode, err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &statusError{status: reqErr.HTTPStatusCode, err: err}
	}
	return err
}

// ClaudeAdapter adapts pkg/claude to llmprovider.Provider interface
type ClaudeAdapter struct {
	client claude.IClaude
}

// NewClaudeAdapter creates a new Claude adapter
func NewClaudeAdapter(client claude.IClaude) *ClaudeAdapter {
	return &ClaudeAdapter{client: client}
}

// Complete implements Provider interface
func (a *ClaudeAdapter) Complete(ctx context.Context, req *Request) (*Response, error) {
	msgs := make([]claude.Message, len(req.Messages))
	for i, m := range req.Messages {
		msgs[i] = claude.Message{Role: m.Role, Content: m.Content}
	}

	resp, err := a.client.CreateMessage(ctx, &claude.Request{
		Model:       a.client.Model(),
		MaxTokens:   claude.DefaultMaxTokens,
		Temperature: claude.DefaultTemperature,
		System:      req.SystemPrompt,
		Messages:    msgs,
	})
	if err != nil {
		return nil, classify(ProviderClaude, err, claude.ErrInvalidResponse)
	}

	text, ok := resp.Text()
	if !ok {
		return nil, classify(ProviderClaude, ErrMalformedResponse)
	}

	return &Response{
		Text:         text,
		ProviderName: ProviderClaude,
		ModelName:    a.client.Model(),
		Usage: &Usage{
			InputTokens:  resp.Usage.InputTokens,
			OutputTokens: resp.Usage.OutputTokens,
			TotalTokens:  resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}, nil
}

// Name returns provider name
func (a *ClaudeAdapter) Name() string {
	return ProviderClaude
}

// Model returns model name
func (a *ClaudeAdapter) Model() string {
	return a.client.Model()
}

// DeepSeekAdapter adapts pkg/deepseek to llmprovider.Provider interface
type DeepSeekAdapter struct {
	client deepseek.IDeepSeek
}

// NewDeepSeekAdapter creates a new DeepSeek adapter
func NewDeepSeekAdapter(client deepseek.IDeepSeek) *DeepSeekAdapter {
	return &DeepSeekAdapter{client: client}
}

// Complete implements Provider interface
func (a *DeepSeekAdapter) Complete(ctx context.Context, req *Request) (*Response, error) {
	msgs := make([]deepseek.Message, 0, len(req.Messages)+1)
	msgs = append(msgs, deepseek.Message{Role: RoleSystem, Content: req.SystemPrompt})
	for _, m := range req.Messages {
		msgs = append(msgs, deepseek.Message{Role: m.Role, Content: m.Content})
	}

	resp, err := a.client.CreateChatCompletion(ctx, &deepseek.Request{
		Model:       a.client.Model(),
		Messages:    msgs,
		MaxTokens:   deepseek.DefaultMaxTokens,
		Temperature: deepseek.DefaultTemperature,
		Stream:      false,
	})
	if err != nil {
		return nil, classify(ProviderDeepSeek, err, deepseek.ErrInvalidResponse)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return nil, classify(ProviderDeepSeek, ErrMalformedResponse)
	}

	return &Response{
		Text:         resp.Choices[0].Message.Content,
		ProviderName: ProviderDeepSeek,
		ModelName:    resp.Model,
		Usage: &Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

// Name returns the provider name
func (a *DeepSeekAdapter) Name() string {
	return ProviderDeepSeek
}

// Model returns the model name
func (a *DeepSeekAdapter) Model() string {
	return a.client.Model()
}
