package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// openAIProvider also serves OpenAI-compatible endpoints through
// Config.BaseURL.
type openAIProvider struct {
	client *openai.Client
	model  string
}

func newOpenAI(cfg Config) *openAIProvider {
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	return &openAIProvider{client: openai.NewClientWithConfig(oc), model: modelID(cfg.Model)}
}

func (p *openAIProvider) Model() string { return p.model }

func (p *openAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var msgs []openai.ChatCompletionMessage
	if req.System != "" {
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	msgs = append(msgs, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	creq := openai.ChatCompletionRequest{
		Model:               p.model,
		Messages:            msgs,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return nil, fmt.Errorf("encode schema %s: %w", req.Schema.Name, err)
		}
		creq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      json.RawMessage(def),
				Strict:      true,
			},
		}
	}

	out, err := p.client.CreateChatCompletion(ctx, creq)
	if err != nil {
		return nil, openAIError(err)
	}
	if len(out.Choices) == 0 {
		return nil, malformed(ProviderOpenAI, nil, "reply has no choices")
	}

	choice := out.Choices[0]
	return settle(req, reply{
		vendor:    ProviderOpenAI,
		text:      choice.Message.Content,
		model:     out.Model,
		in:        out.Usage.PromptTokens,
		out:       out.Usage.CompletionTokens,
		truncated: choice.FinishReason == openai.FinishReasonLength,
	})
}

func openAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return statusError(ProviderOpenAI, apiErr.HTTPStatusCode, nil, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return statusError(ProviderOpenAI, reqErr.HTTPStatusCode, nil, err)
	}
	return &Error{Failure: Unavailable, Vendor: ProviderOpenAI, Err: err}
}
