package deepseek

import "time"

const (
	// DefaultBaseURL is the default DeepSeek API endpoint
	DefaultBaseURL = "https://api.deepseek.com/v1"

	// DefaultModel is the default model to use
	DefaultModel = "deepseek-chat"

	// DefaultTimeout bounds a single chat completion call
	DefaultTimeout = 30 * time.Second

	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.7
)
