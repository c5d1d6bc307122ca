package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("TEST_OPENAI_KEY", "sk-test")

	path := writeConfig(t, `
environment:
  name: production
http_server:
  port: 9090
  mode: release
telegram:
  bot_token: "123:abc"
  webhook_secret: s3cret
  poll_timeout: 45s
llm:
  providers:
    - name: chatgpt
      enabled: true
      api_key: "${TEST_OPENAI_KEY}"
      model: gpt-4-1106-preview
      timeout: 20s
    - name: claude
      enabled: false
      api_key: literal-key
database:
  driver: postgres
  dsn: postgres://relay@localhost/relay
dispatch:
  rate_limit_per_min: 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Environment.Name != "production" || cfg.HTTPServer.Port != 9090 || cfg.HTTPServer.Mode != "release" {
		t.Errorf("unexpected server config: %+v %+v", cfg.Environment, cfg.HTTPServer)
	}
	if cfg.Telegram.BotToken != "123:abc" || cfg.Telegram.WebhookSecret != "s3cret" {
		t.Errorf("unexpected telegram config: %+v", cfg.Telegram)
	}
	if cfg.Telegram.PollTimeout != 45*time.Second {
		t.Errorf("PollTimeout = %v", cfg.Telegram.PollTimeout)
	}
	if cfg.Telegram.APIURL != "https://api.telegram.org" {
		t.Errorf("APIURL default not applied: %q", cfg.Telegram.APIURL)
	}
	if len(cfg.LLM.Providers) != 2 {
		t.Fatalf("expected 2 providers, got %d", len(cfg.LLM.Providers))
	}
	if p := cfg.LLM.Providers[0]; p.APIKey != "sk-test" || !p.Enabled || p.Timeout != "20s" {
		t.Errorf("unexpected chatgpt provider: %+v", p)
	}
	if p := cfg.LLM.Providers[1]; p.APIKey != "literal-key" || p.Enabled {
		t.Errorf("unexpected claude provider: %+v", p)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.DSN == "" {
		t.Errorf("unexpected database config: %+v", cfg.Database)
	}
	if cfg.Dispatch.RateLimitPerMin != 5 || cfg.Dispatch.MaxConcurrency != 16 || cfg.Dispatch.DedupWindow != 10*time.Minute {
		t.Errorf("unexpected dispatch config: %+v", cfg.Dispatch)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("TELEGRAM_BOT_TOKEN", "from-env")

	path := writeConfig(t, `
telegram:
  bot_token: from-file
llm:
  providers:
    - name: deepseek
      enabled: true
      api_key: k
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Telegram.BotToken != "from-env" {
		t.Errorf("BotToken = %q, want env override", cfg.Telegram.BotToken)
	}
}

func TestLoad_NoProviders(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := writeConfig(t, "environment:\n  name: development\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected error when no providers are configured")
	}
}

func TestValidateLLMConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LLMConfig
		wantErr bool
	}{
		{"valid", LLMConfig{Providers: []ProviderConfig{{Name: "chatgpt", Enabled: true}}}, false},
		{"missing name", LLMConfig{Providers: []ProviderConfig{{Enabled: true}}}, true},
		{"duplicate", LLMConfig{Providers: []ProviderConfig{{Name: "claude", Enabled: true}, {Name: "Claude"}}}, true},
		{"none enabled", LLMConfig{Providers: []ProviderConfig{{Name: "claude"}}}, true},
		{"bad timeout", LLMConfig{Providers: []ProviderConfig{{Name: "claude", Enabled: true, Timeout: "soon"}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateLLMConfig(&tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateLLMConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestExpandEnvVar(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("RELAY_TEST_KEY", "secret")

	if got := expandEnvVar("${RELAY_TEST_KEY}"); got != "secret" {
		t.Errorf("expandEnvVar = %q", got)
	}
	if got := expandEnvVar("plain"); got != "plain" {
		t.Errorf("expandEnvVar(plain) = %q", got)
	}
	if got := expandEnvVar("${RELAY_TEST_MISSING}"); got != "" {
		t.Errorf("expandEnvVar(missing) = %q", got)
	}
}
