package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearLLMEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		"PRIVCHECK_LLM_PROVIDER", "PRIVCHECK_LLM_TIMEOUT",
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY",
	} {
		t.Setenv(name, "")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		cfg     Config
		wantErr string
	}{
		{Config{Provider: ProviderMock}, ""},
		{Config{Provider: ProviderAnthropic, APIKey: "k"}, ""},
		{Config{Provider: ProviderGemini, APIKey: "k"}, ""},
		{Config{Provider: ProviderOpenAI}, "PRIVCHECK_OPENAI_API_KEY"},
		{Config{Provider: ProviderGemini}, "PRIVCHECK_GEMINI_API_KEY"},
		{Config{Provider: "openrouter", APIKey: "k"}, "unknown LLM provider"},
		{Config{}, "unknown LLM provider"},
	}
	for _, tt := range tests {
		err := tt.cfg.Validate()
		if tt.wantErr == "" {
			assert.NoError(t, err, "%+v", tt.cfg)
			continue
		}
		assert.ErrorContains(t, err, tt.wantErr)
	}
}

func TestDefaultConfig(t *testing.T) {
	assert.Equal(t, "claude-haiku", DefaultConfig(ProviderAnthropic).Model)
	assert.Equal(t, "gpt-4o-mini", DefaultConfig(ProviderOpenAI).Model)
	assert.Equal(t, "gemini-flash", DefaultConfig(ProviderGemini).Model)
	assert.Empty(t, DefaultConfig(ProviderMock).Model)
	assert.Equal(t, 3, DefaultConfig(ProviderMock).Retry.MaxAttempts)
}

func TestModelID(t *testing.T) {
	assert.Equal(t, "claude-haiku-4-5-20251001", modelID("claude-haiku"))
	assert.Equal(t, "gemini-2.5-pro", modelID("gemini-pro"))
	assert.Equal(t, "gpt-4.1-mini", modelID("gpt-4.1-mini"))
}

func TestConfigFromEnv(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("PRIVCHECK_LLM_PROVIDER", "OpenAI")
	t.Setenv("PRIVCHECK_OPENAI_API_KEY", "sk-env")
	t.Setenv("PRIVCHECK_OPENAI_BASE_URL", "http://localhost:11434/v1")
	t.Setenv("PRIVCHECK_LLM_TIMEOUT", "5s")

	cfg := ConfigFromEnv()
	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "sk-env", cfg.APIKey)
	assert.Equal(t, "http://localhost:11434/v1", cfg.BaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestConfigFromEnv_BaseURLIsOpenAIOnly(t *testing.T) {
	clearLLMEnv(t)
	t.Setenv("PRIVCHECK_LLM_PROVIDER", "gemini")
	t.Setenv("PRIVCHECK_GEMINI_API_KEY", "g")
	t.Setenv("PRIVCHECK_GEMINI_MODEL", "gemini-pro")
	t.Setenv("PRIVCHECK_GEMINI_BASE_URL", "http://example.invalid")

	cfg := ConfigFromEnv()
	assert.Equal(t, "gemini-pro", cfg.Model)
	assert.Empty(t, cfg.BaseURL)
	assert.Equal(t, 45*time.Second, cfg.Timeout)
}

func TestResolveConfig(t *testing.T) {
	clearLLMEnv(t)

	_, ok := ResolveConfig()
	assert.False(t, ok, "no provider without keys")

	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("OPENAI_API_KEY", "o-key")
	cfg, ok := ResolveConfig()
	require.True(t, ok)
	assert.Equal(t, ProviderOpenAI, cfg.Provider, "openai is discovered before gemini")
	assert.Equal(t, "o-key", cfg.APIKey)

	t.Setenv("PRIVCHECK_LLM_PROVIDER", "mock")
	cfg, ok = ResolveConfig()
	require.True(t, ok)
	assert.Equal(t, ProviderMock, cfg.Provider)
}

func TestNewProvider(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{Provider: ProviderAnthropic}, nil, nil)
	assert.Error(t, err, "hosted providers need a key")

	p, err := NewProvider(context.Background(), Config{Provider: ProviderMock}, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, &Canned{}, p)

	cfg := DefaultConfig(ProviderAnthropic)
	cfg.APIKey = "k"
	p, err = NewProvider(context.Background(), cfg, nil, nil)
	require.NoError(t, err)
	assert.IsType(t, wrapped{}, p)
	assert.Equal(t, "claude-haiku-4-5-20251001", p.Model())
}
