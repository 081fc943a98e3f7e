package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted in Config.Provider and PRIVCHECK_LLM_PROVIDER.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderMock      = "mock"
)

// vendors lists the hosted providers in discovery order with the key
// variable each vendor's own tooling uses and the default model alias.
var vendors = []struct {
	name, keyVar, model string
}{
	{ProviderAnthropic, "ANTHROPIC_API_KEY", "claude-haiku"},
	{ProviderOpenAI, "OPENAI_API_KEY", "gpt-4o-mini"},
	{ProviderGemini, "GEMINI_API_KEY", "gemini-flash"},
}

// aliases expands the short model names accepted in configuration. Other
// names are passed to the vendor unchanged.
var aliases = map[string]string{
	"claude-haiku":  "claude-haiku-4-5-20251001",
	"claude-sonnet": "claude-sonnet-4-5-20250929",
	"gemini-flash":  "gemini-2.5-flash",
	"gemini-pro":    "gemini-2.5-pro",
}

func modelID(name string) string {
	if id, ok := aliases[name]; ok {
		return id
	}
	return name
}

// Config selects one provider and how it is called.
type Config struct {
	Provider string
	APIKey   string
	Model    string

	// BaseURL overrides the vendor endpoint. ConfigFromEnv only sets it
	// for openai, to reach compatible servers.
	BaseURL string

	Retry RetryConfig

	// Timeout bounds one coach request including retries. Zero disables it.
	Timeout time.Duration
}

// DefaultConfig returns the settings for provider with no key set.
func DefaultConfig(provider string) Config {
	cfg := Config{
		Provider: provider,
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 45 * time.Second,
	}
	for _, v := range vendors {
		if v.name == provider {
			cfg.Model = v.model
		}
	}
	return cfg
}

// ConfigFromEnv reads PRIVCHECK_LLM_PROVIDER and the matching
// PRIVCHECK_<VENDOR>_API_KEY, _MODEL and (openai only) _BASE_URL.
// PRIVCHECK_LLM_TIMEOUT takes a Go duration.
func ConfigFromEnv() Config {
	cfg := DefaultConfig(strings.ToLower(os.Getenv("PRIVCHECK_LLM_PROVIDER")))
	prefix := "PRIVCHECK_" + strings.ToUpper(cfg.Provider) + "_"

	cfg.APIKey = os.Getenv(prefix + "API_KEY")
	if m := os.Getenv(prefix + "MODEL"); m != "" {
		cfg.Model = m
	}
	if cfg.Provider == ProviderOpenAI {
		cfg.BaseURL = os.Getenv(prefix + "BASE_URL")
	}
	if d, err := time.ParseDuration(os.Getenv("PRIVCHECK_LLM_TIMEOUT")); err == nil {
		cfg.Timeout = d
	}
	return cfg
}

// DiscoverConfig picks the first vendor, in the order Anthropic, OpenAI,
// Gemini, whose standard key variable is set.
func DiscoverConfig() (Config, bool) {
	for _, v := range vendors {
		if key := os.Getenv(v.keyVar); key != "" {
			cfg := DefaultConfig(v.name)
			cfg.APIKey = key
			return cfg, true
		}
	}
	return Config{}, false
}

// ResolveConfig prefers an explicit PRIVCHECK_LLM_PROVIDER over
// discovery. ok is false when nothing is configured; the coach stays off.
func ResolveConfig() (cfg Config, ok bool) {
	if os.Getenv("PRIVCHECK_LLM_PROVIDER") != "" {
		return ConfigFromEnv(), true
	}
	return DiscoverConfig()
}

// Validate checks the provider name and that hosted providers have a key.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini:
		if c.APIKey == "" {
			return fmt.Errorf("PRIVCHECK_%s_API_KEY is required for the %s provider", strings.ToUpper(c.Provider), c.Provider)
		}
		return nil
	}
	return fmt.Errorf("unknown LLM provider %q", c.Provider)
}
