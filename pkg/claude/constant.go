package claude

import "time"

const (
	// DefaultBaseURL is the Anthropic API endpoint
	DefaultBaseURL = "https://api.anthropic.com/v1"

	// DefaultModel is the default model to use
	DefaultModel = "claude-3-7-sonnet-20250219"

	// APIVersion is sent in the anthropic-version header
	APIVersion = "2023-06-01"

	DefaultTimeout     = 30 * time.Second
	DefaultMaxTokens   = 4096
	DefaultTemperature = 0.7

	contentTypeText = "text"
)
