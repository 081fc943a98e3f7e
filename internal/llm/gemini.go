package llm

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

type geminiProvider struct {
	client *genai.Client
	model  string
}

// newGemini talks to the Gemini API backend.
func newGemini(ctx context.Context, cfg Config) (*geminiProvider, error) {
	cc := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &geminiProvider{client: client, model: modelID(cfg.Model)}, nil
}

func (p *geminiProvider) Model() string { return p.model }

func (p *geminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	gc := &genai.GenerateContentConfig{MaxOutputTokens: int32(req.MaxTokens)}
	if req.System != "" {
		gc.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Temperature > 0 {
		gc.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.Schema != nil {
		// The API accepts JSON Schema as is; no conversion to genai.Schema.
		gc.ResponseMIMEType = "application/json"
		gc.ResponseJsonSchema = req.Schema.Definition
	}

	out, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(req.Prompt), gc)
	if err != nil {
		// genai returns APIError by value.
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return nil, statusError(ProviderGemini, apiErr.Code, nil, err)
		}
		return nil, &Error{Failure: Unavailable, Vendor: ProviderGemini, Err: err}
	}

	r := reply{vendor: ProviderGemini, text: out.Text(), model: p.model}
	if out.ModelVersion != "" {
		r.model = out.ModelVersion
	}
	if u := out.UsageMetadata; u != nil {
		r.in, r.out = int(u.PromptTokenCount), int(u.CandidatesTokenCount)
	}
	if len(out.Candidates) > 0 {
		r.truncated = out.Candidates[0].FinishReason == genai.FinishReasonMaxTokens
	}
	return settle(req, r)
}
