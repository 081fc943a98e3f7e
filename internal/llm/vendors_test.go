package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tipsSchema mirrors the coach's schema without importing it.
var tipsSchema = &Schema{
	Name: "vendor-test-tips",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"tips": map[string]any{"type": "array", "items": map[string]any{"type": "string"}, "minItems": 1, "maxItems": 3},
		},
		"required":             []any{"tips"},
		"additionalProperties": false,
	},
}

func tipsRequest() Request {
	return Request{
		System:    "You coach people on personal privacy.",
		Prompt:    "Category: Password Security\nCategory score: 20%",
		Schema:    tipsSchema,
		MaxTokens: 256,
	}
}

// vendorCase knows how one vendor shapes a reply.
type vendorCase struct {
	name  string
	reply func(text string, truncated bool) any
	open  func(t *testing.T, baseURL string) Provider
}

var vendorCases = []vendorCase{
	{
		name: ProviderAnthropic,
		reply: func(text string, truncated bool) any {
			stop := "end_turn"
			if truncated {
				stop = "max_tokens"
			}
			return map[string]any{
				"id": "msg_1", "type": "message", "role": "assistant",
				"model":       "claude-haiku-4-5-20251001",
				"content":     []map[string]any{{"type": "text", "text": text}},
				"stop_reason": stop,
				"usage":       map[string]any{"input_tokens": 42, "output_tokens": 17},
			}
		},
		open: func(t *testing.T, baseURL string) Provider {
			return newAnthropic(Config{APIKey: "k", Model: "claude-haiku", BaseURL: baseURL})
		},
	},
	{
		name: ProviderOpenAI,
		reply: func(text string, truncated bool) any {
			finish := "stop"
			if truncated {
				finish = "length"
			}
			return map[string]any{
				"id": "chatcmpl-1", "object": "chat.completion", "created": 1760000000,
				"model": "gpt-4o-mini",
				"choices": []map[string]any{{
					"index":         0,
					"message":       map[string]any{"role": "assistant", "content": text},
					"finish_reason": finish,
				}},
				"usage": map[string]any{"prompt_tokens": 42, "completion_tokens": 17, "total_tokens": 59},
			}
		},
		open: func(t *testing.T, baseURL string) Provider {
			return newOpenAI(Config{APIKey: "k", Model: "gpt-4o-mini", BaseURL: baseURL + "/v1"})
		},
	},
	{
		name: ProviderGemini,
		reply: func(text string, truncated bool) any {
			finish := "STOP"
			if truncated {
				finish = "MAX_TOKENS"
			}
			return map[string]any{
				"candidates": []map[string]any{{
					"content":      map[string]any{"role": "model", "parts": []map[string]any{{"text": text}}},
					"finishReason": finish,
				}},
				"usageMetadata": map[string]any{"promptTokenCount": 42, "candidatesTokenCount": 17, "totalTokenCount": 59},
				"modelVersion":  "gemini-2.5-flash",
			}
		},
		open: func(t *testing.T, baseURL string) Provider {
			p, err := newGemini(context.Background(), Config{APIKey: "k", Model: "gemini-flash", BaseURL: baseURL})
			require.NoError(t, err)
			return p
		},
	},
}

func serve(t *testing.T, h http.HandlerFunc) string {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv.URL
}

func replyWith(body any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}
}

func failWith(status int, header http.Header) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for k, v := range header {
			w.Header()[k] = v
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"type":  "error",
			"error": map[string]any{"type": "api_error", "code": status, "message": http.StatusText(status)},
		})
	}
}

func TestVendors_StructuredTips(t *testing.T) {
	for _, vc := range vendorCases {
		t.Run(vc.name, func(t *testing.T) {
			url := serve(t, replyWith(vc.reply(`{"tips":["Use a password manager.","Turn on app-based 2FA."]}`, false)))
			resp, err := vc.open(t, url).Generate(context.Background(), tipsRequest())
			require.NoError(t, err)

			var got struct{ Tips []string }
			require.NoError(t, json.Unmarshal(resp.Content, &got))
			assert.Equal(t, []string{"Use a password manager.", "Turn on app-based 2FA."}, got.Tips)
			assert.Equal(t, 42, resp.InputTokens)
			assert.Equal(t, 17, resp.OutputTokens)
			assert.NotEmpty(t, resp.Model)
		})
	}
}

func TestVendors_FencedReplyIsAccepted(t *testing.T) {
	for _, vc := range vendorCases {
		t.Run(vc.name, func(t *testing.T) {
			url := serve(t, replyWith(vc.reply("```json\n{\"tips\":[\"Review app permissions.\"]}\n```", false)))
			resp, err := vc.open(t, url).Generate(context.Background(), tipsRequest())
			require.NoError(t, err)
			assert.JSONEq(t, `{"tips":["Review app permissions."]}`, string(resp.Content))
		})
	}
}

func TestVendors_TruncatedReply(t *testing.T) {
	for _, vc := range vendorCases {
		t.Run(vc.name, func(t *testing.T) {
			url := serve(t, replyWith(vc.reply(`{"tips":["Use a pass`, true)))
			_, err := vc.open(t, url).Generate(context.Background(), tipsRequest())
			f, ok := FailureOf(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, Truncated, f)
		})
	}
}

func TestVendors_OffSchemaReply(t *testing.T) {
	for _, vc := range vendorCases {
		t.Run(vc.name, func(t *testing.T) {
			url := serve(t, replyWith(vc.reply(`{"advice":"lock down your accounts"}`, false)))
			_, err := vc.open(t, url).Generate(context.Background(), tipsRequest())

			var e *Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, Malformed, e.Failure)
			assert.Equal(t, vc.name, e.Vendor)
			assert.Contains(t, string(e.Output), "lock down")
		})
	}
}

func TestVendors_StatusMapping(t *testing.T) {
	tests := []struct {
		status int
		want   Failure
	}{
		{http.StatusTooManyRequests, RateLimited},
		{http.StatusUnauthorized, Rejected},
		{http.StatusBadGateway, Unavailable},
	}
	for _, vc := range vendorCases {
		for _, tt := range tests {
			t.Run(vc.name+"/"+http.StatusText(tt.status), func(t *testing.T) {
				url := serve(t, failWith(tt.status, nil))
				_, err := vc.open(t, url).Generate(context.Background(), tipsRequest())
				f, ok := FailureOf(err)
				require.True(t, ok, "got %v", err)
				assert.Equal(t, tt.want, f)
			})
		}
	}
}

func TestAnthropic_RetryAfterHeader(t *testing.T) {
	url := serve(t, failWith(http.StatusTooManyRequests, http.Header{"Retry-After": {"7"}}))
	_, err := newAnthropic(Config{APIKey: "k", BaseURL: url}).Generate(context.Background(), tipsRequest())

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, RateLimited, e.Failure)
	assert.Equal(t, 7*time.Second, e.RetryAfter)
}

func TestOpenAI_SendsSchemaAndSystemPrompt(t *testing.T) {
	var sent struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
		ResponseFormat struct {
			Type       string `json:"type"`
			JSONSchema struct {
				Name   string `json:"name"`
				Strict bool   `json:"strict"`
			} `json:"json_schema"`
		} `json:"response_format"`
	}
	reply := vendorCases[1].reply(`{"tips":["x"]}`, false)
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&sent)
		replyWith(reply)(w, r)
	})

	_, err := newOpenAI(Config{APIKey: "k", Model: "gpt-4o-mini", BaseURL: url + "/v1"}).Generate(context.Background(), tipsRequest())
	require.NoError(t, err)

	require.Len(t, sent.Messages, 2)
	assert.Equal(t, "system", sent.Messages[0].Role)
	assert.Equal(t, "user", sent.Messages[1].Role)
	assert.Contains(t, sent.Messages[1].Content, "Password Security")
	assert.Equal(t, "json_schema", sent.ResponseFormat.Type)
	assert.Equal(t, tipsSchema.Name, sent.ResponseFormat.JSONSchema.Name)
	assert.True(t, sent.ResponseFormat.JSONSchema.Strict)
}

func TestGemini_SendsJSONSchemaUnchanged(t *testing.T) {
	var sent struct {
		GenerationConfig struct {
			ResponseMIMEType   string         `json:"responseMimeType"`
			ResponseJSONSchema map[string]any `json:"responseJsonSchema"`
		} `json:"generationConfig"`
	}
	reply := vendorCases[2].reply(`{"tips":["x"]}`, false)
	url := serve(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&sent)
		replyWith(reply)(w, r)
	})

	p, err := newGemini(context.Background(), Config{APIKey: "k", Model: "gemini-flash", BaseURL: url})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.5-flash", p.Model())
	_, err = p.Generate(context.Background(), tipsRequest())
	require.NoError(t, err)

	assert.Equal(t, "application/json", sent.GenerationConfig.ResponseMIMEType)
	assert.Equal(t, false, sent.GenerationConfig.ResponseJSONSchema["additionalProperties"])
}
