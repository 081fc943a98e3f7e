// Package llm asks hosted language models for coaching text. Every vendor
// is reduced to one exchange: a system prompt and a single user prompt go
// in, JSON checked against a schema comes out.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one structured reply per call.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)

	// Model names the model requests are sent to.
	Model() string
}

// Request is a single-turn prompt.
type Request struct {
	System string
	Prompt string

	// Schema, when set, switches the vendor to structured output and the
	// reply is validated before it is returned.
	Schema *Schema

	MaxTokens   int
	Temperature float64
}

// Schema is a named JSON Schema document.
type Schema struct {
	// Name is sent as the vendor-side schema name, e.g. "privacy-tips".
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a validated reply.
type Response struct {
	Content      json.RawMessage
	Model        string
	InputTokens  int
	OutputTokens int
}

type purposeKey struct{}

// WithPurpose labels the requests made with ctx in the event log.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unlabelled".
func PurposeFrom(ctx context.Context) string {
	if p, ok := ctx.Value(purposeKey{}).(string); ok && p != "" {
		return p
	}
	return "unlabelled"
}
