package llm

import (
	"context"
	"errors"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type anthropicProvider struct {
	client anthropic.Client
	model  string
}

func newAnthropic(cfg Config) *anthropicProvider {
	// WithRetry owns retries.
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &anthropicProvider{client: anthropic.NewClient(opts...), model: modelID(cfg.Model)}
}

func (p *anthropicProvider) Model() string { return p.model }

func (p *anthropicProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(req.MaxTokens),
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt))},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if req.Schema != nil {
		params.OutputConfig = anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{Schema: req.Schema.Definition},
		}
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			var h http.Header
			if apiErr.Response != nil {
				h = apiErr.Response.Header
			}
			return nil, statusError(ProviderAnthropic, apiErr.StatusCode, h, err)
		}
		return nil, &Error{Failure: Unavailable, Vendor: ProviderAnthropic, Err: err}
	}

	r := reply{
		vendor:    ProviderAnthropic,
		model:     string(msg.Model),
		in:        int(msg.Usage.InputTokens),
		out:       int(msg.Usage.OutputTokens),
		truncated: msg.StopReason == anthropic.StopReasonMaxTokens,
	}
	found := false
	for _, block := range msg.Content {
		if block.Type == "text" {
			r.text += block.Text
			found = true
		}
	}
	if !found {
		return nil, malformed(ProviderAnthropic, nil, "reply has no text block")
	}
	return settle(req, r)
}
