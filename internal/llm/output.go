package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// reply is what a vendor adapter extracts from its SDK response.
type reply struct {
	vendor    string
	text      string
	model     string
	in, out   int
	truncated bool
}

// settle turns a reply into a Response. Structured requests must yield
// complete JSON that matches the schema.
func settle(req Request, r reply) (*Response, error) {
	body := unfence(r.text)
	resp := &Response{Model: r.model, InputTokens: r.in, OutputTokens: r.out}

	if req.Schema == nil {
		quoted, _ := json.Marshal(body)
		resp.Content = quoted
		return resp, nil
	}
	if r.truncated {
		return nil, &Error{Failure: Truncated, Vendor: r.vendor, Output: []byte(body),
			Err: fmt.Errorf("stopped at %d output tokens", req.MaxTokens)}
	}
	if err := conform(req.Schema, []byte(body)); err != nil {
		return nil, malformed(r.vendor, []byte(body), "%s: %w", req.Schema.Name, err)
	}
	resp.Content = json.RawMessage(body)
	return resp, nil
}

// unfence strips the markdown code fence some models put around JSON.
func unfence(text string) string {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "```") {
		return t
	}
	t = strings.TrimPrefix(t, "```")
	if nl := strings.IndexByte(t, '\n'); nl >= 0 && !strings.ContainsAny(t[:nl], "{[") {
		t = t[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(t), "```"))
}

var compiled sync.Map // schema name -> *jsonschema.Schema

// conform validates body against s. Compiled schemas are cached by name.
func conform(s *Schema, body []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("not JSON: %w", err)
	}
	sch, err := compile(s)
	if err != nil {
		return err
	}
	return sch.Validate(doc)
}

func compile(s *Schema) (*jsonschema.Schema, error) {
	if v, ok := compiled.Load(s.Name); ok {
		return v.(*jsonschema.Schema), nil
	}
	raw, err := json.Marshal(s.Definition)
	if err != nil {
		return nil, fmt.Errorf("encode schema %s: %w", s.Name, err)
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode schema %s: %w", s.Name, err)
	}
	url := "mem://privcheck/" + s.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("load schema %s: %w", s.Name, err)
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %s: %w", s.Name, err)
	}
	compiled.Store(s.Name, sch)
	return sch, nil
}
