package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Relay
	Telegram TelegramConfig
	LLM      LLMConfig
	Database DatabaseConfig
	Dispatch DispatchConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Port int
	Mode string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type TelegramConfig struct {
	BotToken      string
	WebhookURL    string
	WebhookSecret string
	PollTimeout   time.Duration
	APIURL        string
	NgrokAPI      string
}

// LLMConfig holds configuration for the backend providers.
type LLMConfig struct {
	Providers []ProviderConfig `yaml:"providers"`
}

// ProviderConfig holds configuration for a single backend.
type ProviderConfig struct {
	Name    string `yaml:"name"`
	Enabled bool   `yaml:"enabled"`
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
	Model   string `yaml:"model"`
	Timeout string `yaml:"timeout"`
}

// DatabaseConfig configures the conversation recorder. An empty DSN disables it.
type DatabaseConfig struct {
	Driver       string
	DSN          string
	MaxOpenConns int
}

type DispatchConfig struct {
	MaxConcurrency    int
	MaxPendingPerUser int
	RateLimitPerMin   int
	DedupWindow       time.Duration
}

// Load loads configuration using Viper.
// A .env file in the working directory is loaded first if present.
// Config file name: config.yaml, searched in ./config, ., /etc/app/ unless configFile is set.
func Load(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/app/")
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	// Environment & Server
	cfg.Environment.Name = viper.GetString("environment.name")
	cfg.HTTPServer.Port = viper.GetInt("http_server.port")
	cfg.HTTPServer.Mode = viper.GetString("http_server.mode")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Mode = viper.GetString("logger.mode")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = viper.GetBool("logger.color_enabled")

	// Telegram
	cfg.Telegram.BotToken = expandEnvVar(viper.GetString("telegram.bot_token"))
	cfg.Telegram.WebhookURL = viper.GetString("telegram.webhook_url")
	cfg.Telegram.WebhookSecret = expandEnvVar(viper.GetString("telegram.webhook_secret"))
	cfg.Telegram.PollTimeout = viper.GetDuration("telegram.poll_timeout")
	cfg.Telegram.APIURL = viper.GetString("telegram.api_url")
	cfg.Telegram.NgrokAPI = viper.GetString("telegram.ngrok_api")

	// Backends
	if viper.IsSet("llm.providers") {
		providersRaw := viper.Get("llm.providers")
		if providersList, ok := providersRaw.([]interface{}); ok {
			for _, p := range providersList {
				if providerMap, ok := p.(map[string]interface{}); ok {
					cfg.LLM.Providers = append(cfg.LLM.Providers, ProviderConfig{
						Name:    getStringFromMap(providerMap, "name"),
						Enabled: getBoolFromMap(providerMap, "enabled"),
						APIKey:  expandEnvVar(getStringFromMap(providerMap, "api_key")),
						BaseURL: getStringFromMap(providerMap, "base_url"),
						Model:   getStringFromMap(providerMap, "model"),
						Timeout: getStringFromMap(providerMap, "timeout"),
					})
				}
			}
		}
	}
	if err := validateLLMConfig(&cfg.LLM); err != nil {
		return nil, err
	}

	// Recorder
	cfg.Database.Driver = viper.GetString("database.driver")
	cfg.Database.DSN = expandEnvVar(viper.GetString("database.dsn"))
	cfg.Database.MaxOpenConns = viper.GetInt("database.max_open_conns")

	// Dispatch
	cfg.Dispatch.MaxConcurrency = viper.GetInt("dispatch.max_concurrency")
	cfg.Dispatch.MaxPendingPerUser = viper.GetInt("dispatch.max_pending_per_user")
	cfg.Dispatch.RateLimitPerMin = viper.GetInt("dispatch.rate_limit_per_min")
	cfg.Dispatch.DedupWindow = viper.GetDuration("dispatch.dedup_window")

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("environment.name", "development")
	viper.SetDefault("http_server.port", 8080)
	viper.SetDefault("http_server.mode", "debug")
	viper.SetDefault("logger.level", "debug")
	viper.SetDefault("logger.mode", "debug")
	viper.SetDefault("logger.encoding", "console")
	viper.SetDefault("logger.color_enabled", true)

	viper.SetDefault("telegram.poll_timeout", "30s")
	viper.SetDefault("telegram.api_url", "https://api.telegram.org")

	viper.SetDefault("database.driver", "sqlite")

	viper.SetDefault("dispatch.max_concurrency", 16)
	viper.SetDefault("dispatch.max_pending_per_user", 32)
	viper.SetDefault("dispatch.rate_limit_per_min", 30)
	viper.SetDefault("dispatch.dedup_window", "10m")
}

// expandEnvVar expands environment variables in the format ${VAR_NAME}
func expandEnvVar(value string) string {
	if !strings.HasPrefix(value, "${") || !strings.HasSuffix(value, "}") {
		return value
	}

	envVar := value[2 : len(value)-1]
	// Try viper first (handles both env and config)
	if envValue := viper.GetString(envVar); envValue != "" {
		return envValue
	}
	if envValue := viper.GetString(strings.ToLower(envVar)); envValue != "" {
		return envValue
	}
	return os.Getenv(envVar)
}

// validateLLMConfig validates the backend configuration.
func validateLLMConfig(cfg *LLMConfig) error {
	if len(cfg.Providers) == 0 {
		return fmt.Errorf("no LLM providers configured - please add llm.providers section to config.yaml")
	}

	enabledCount := 0
	seen := make(map[string]bool)

	for i, provider := range cfg.Providers {
		name := strings.ToLower(strings.TrimSpace(provider.Name))
		if name == "" {
			return fmt.Errorf("provider %d: name is required", i)
		}
		if seen[name] {
			return fmt.Errorf("provider %s: configured more than once", provider.Name)
		}
		seen[name] = true

		if provider.Timeout != "" {
			if _, err := time.ParseDuration(provider.Timeout); err != nil {
				return fmt.Errorf("provider %s: invalid timeout %q", provider.Name, provider.Timeout)
			}
		}
		if provider.Enabled {
			enabledCount++
		}
	}

	if enabledCount == 0 {
		return fmt.Errorf("no enabled LLM providers")
	}

	return nil
}

// Helper functions to safely extract values from map[string]interface{}
func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getBoolFromMap(m map[string]interface{}, key string) bool {
	if val, ok := m[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return false
}
