package llm

import (
	"context"
	"fmt"
	"log/slog"
)

// NewProvider builds the configured provider. Hosted providers are
// wrapped so that a call is bounded by cfg.Timeout, retried per cfg.Retry,
// and every attempt is logged and recorded through rec.
func NewProvider(ctx context.Context, cfg Config, rec RequestRecorder, logger *slog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		p   Provider
		err error
	)
	switch cfg.Provider {
	case ProviderMock:
		return NewCanned(), nil
	case ProviderAnthropic:
		p = newAnthropic(cfg)
	case ProviderOpenAI:
		p = newOpenAI(cfg)
	case ProviderGemini:
		p, err = newGemini(ctx, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("set up %s provider: %w", cfg.Provider, err)
	}

	p = WithEvents(p, cfg.Provider, rec, logger)
	p = WithRetry(p, cfg.Retry)
	return WithTimeout(p, cfg.Timeout), nil
}
