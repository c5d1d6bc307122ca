package llmprovider

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"telegram-ai-relay/config"
	"telegram-ai-relay/pkg/claude"
	"telegram-ai-relay/pkg/deepseek"
)

// InitializeProviders creates Provider entries from config.LLMConfig.
// Disabled providers are filtered out. Providers that fail to initialize are skipped
// instead of failing the entire service; the returned error lists them.
func InitializeProviders(cfg *config.LLMConfig) ([]Entry, error) {
	if cfg == nil {
		return nil, fmt.Errorf("LLM config is nil")
	}

	var entries []Entry
	var initErrors []string

	for _, p := range cfg.Providers {
		if !p.Enabled {
			continue
		}
		entry, err := createProvider(p)
		if err != nil {
			initErrors = append(initErrors, fmt.Sprintf("provider %s: %v", p.Name, err))
			continue
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		if len(initErrors) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoProvidersConfigured, strings.Join(initErrors, "; "))
		}
		return nil, ErrNoProvidersConfigured
	}
	if len(initErrors) > 0 {
		return entries, fmt.Errorf("some providers failed to initialize: %s", strings.Join(initErrors, "; "))
	}
	return entries, nil
}

// createProvider creates a concrete provider instance based on the provider config
func createProvider(cfg config.ProviderConfig) (Entry, error) {
	if cfg.APIKey == "" {
		return Entry{}, fmt.Errorf("API key is required")
	}

	timeout := DefaultTimeout
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return Entry{}, fmt.Errorf("invalid timeout %q: %w", cfg.Timeout, err)
		}
		timeout = d
	}

	switch strings.ToLower(cfg.Name) {
	case ProviderChatGPT, "openai":
		oc := openai.DefaultConfig(cfg.APIKey)
		if cfg.BaseURL != "" {
			oc.BaseURL = cfg.BaseURL
		}
		oc.HTTPClient = &http.Client{Timeout: timeout}
		return Entry{
			Provider: NewChatGPTAdapter(openai.NewClientWithConfig(oc), cfg.Model),
			Timeout:  timeout,
		}, nil

	case ProviderClaude, "anthropic":
		client, err := claude.New(claude.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: timeout,
		})
		if err != nil {
			return Entry{}, fmt.Errorf("failed to create claude client: %w", err)
		}
		return Entry{Provider: NewClaudeAdapter(client), Timeout: timeout}, nil

	case ProviderDeepSeek:
		client, err := deepseek.New(deepseek.Config{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
			Timeout: timeout,
		})
		if err != nil {
			return Entry{}, fmt.Errorf("failed to create deepseek client: %w", err)
		}
		return Entry{Provider: NewDeepSeekAdapter(client), Timeout: timeout}, nil

	default:
		return Entry{}, fmt.Errorf("unknown provider: %s", cfg.Name)
	}
}
