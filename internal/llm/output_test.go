package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnfence(t *testing.T) {
	tests := []struct{ in, want string }{
		{`{"tips":["a"]}`, `{"tips":["a"]}`},
		{"  {\"tips\":[]}\n", `{"tips":[]}`},
		{"```json\n{\"tips\":[\"a\"]}\n```", `{"tips":["a"]}`},
		{"```\n{\"tips\":[\"a\"]}```", `{"tips":["a"]}`},
		{"```{\"tips\":[\"a\"]}```", `{"tips":["a"]}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, unfence(tt.in), "unfence(%q)", tt.in)
	}
}

func TestSettle_PlainTextIsQuoted(t *testing.T) {
	resp, err := settle(Request{Prompt: "hi"}, reply{vendor: "x", text: "Lock your phone.", model: "m", in: 3, out: 4})
	require.NoError(t, err)
	assert.JSONEq(t, `"Lock your phone."`, string(resp.Content))
	assert.Equal(t, "m", resp.Model)
	assert.Equal(t, 3, resp.InputTokens)
	assert.Equal(t, 4, resp.OutputTokens)
}

func TestSettle_TruncatedPlainTextIsKept(t *testing.T) {
	_, err := settle(Request{}, reply{text: "Lock your", truncated: true})
	assert.NoError(t, err)
}

func TestSettle_SchemaChecks(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Failure
	}{
		{"not json", `Here are some tips: use 2FA`, Malformed},
		{"empty", ``, Malformed},
		{"missing tips", `{}`, Malformed},
		{"tips not strings", `{"tips":[1,2]}`, Malformed},
		{"too many tips", `{"tips":["a","b","c","d"]}`, Malformed},
		{"extra field", `{"tips":["a"],"note":"x"}`, Malformed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := settle(tipsRequest(), reply{vendor: "x", text: tt.text})
			f, ok := FailureOf(err)
			require.True(t, ok, "got %v", err)
			assert.Equal(t, tt.want, f)
		})
	}
}

func TestSettle_TruncationWinsOverValidation(t *testing.T) {
	_, err := settle(tipsRequest(), reply{vendor: "x", text: `{"tips":["a"]}`, truncated: true})
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, Truncated, e.Failure)
	assert.Equal(t, `{"tips":["a"]}`, string(e.Output))
}

func TestCompile_CachesByName(t *testing.T) {
	a, err := compile(tipsSchema)
	require.NoError(t, err)
	b, err := compile(tipsSchema)
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestCompile_BadSchema(t *testing.T) {
	_, err := compile(&Schema{Name: "output-test-bad", Definition: map[string]any{"type": 7}})
	assert.Error(t, err)
}

func TestError_Message(t *testing.T) {
	e := statusError(ProviderOpenAI, 429, nil, assert.AnError)
	assert.Equal(t, RateLimited, e.Failure)
	assert.Equal(t, "openai: rate limited: "+assert.AnError.Error(), e.Error())
	assert.ErrorIs(t, e, assert.AnError)

	_, ok := FailureOf(assert.AnError)
	assert.False(t, ok)
}
