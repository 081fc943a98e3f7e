package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/abhisek/privcheck/internal/content"
	"github.com/abhisek/privcheck/internal/scoring"
)

// DefaultTimeout bounds a single request when no HTTP client is supplied.
const DefaultTimeout = 15 * time.Second

// Client talks to the assessment service. Each call is one request with no
// retry.
type Client struct {
	baseURL string
	token   string
	userID  string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithUserID sets the X-User-Id header.
func WithUserID(id string) Option {
	return func(c *Client) { c.userID = id }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http = &http.Client{Timeout: d}
		}
	}
}

// NewClient creates a client for the service rooted at baseURL, e.g.
// "http://localhost:8080".
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid assessment service URL %q", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/") + "/api/v1",
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// StartAssessment creates an assessment and returns its ID.
func (c *Client) StartAssessment(ctx context.Context, kind content.Kind) (string, error) {
	var resp StartResponse
	if err := c.do(ctx, http.MethodPost, "/assessments", StartRequest{Kind: kind}, &resp); err != nil {
		return "", err
	}
	if resp.AssessmentID == "" {
		return "", fmt.Errorf("start assessment: empty assessment id")
	}
	return resp.AssessmentID, nil
}

// SubmitAnswer records an answer. Resubmitting a question overwrites it.
func (c *Client) SubmitAnswer(ctx context.Context, assessmentID string, a scoring.Answer) error {
	body := AnswerRequest{QuestionID: a.QuestionID, Value: a.Value, Score: a.Score, Level: a.Level}
	var ack Ack
	return c.do(ctx, http.MethodPost, "/assessments/"+url.PathEscape(assessmentID)+"/answers", body, &ack)
}

// CompleteAssessment finishes the assessment and returns the server's
// outcome.
func (c *Client) CompleteAssessment(ctx context.Context, assessmentID string) (scoring.Outcome, error) {
	var resp CompleteResponse
	if err := c.do(ctx, http.MethodPost, "/assessments/"+url.PathEscape(assessmentID)+"/complete", nil, &resp); err != nil {
		return scoring.Outcome{}, err
	}
	if resp.Results == nil && resp.Audit == nil {
		return scoring.Outcome{}, fmt.Errorf("complete assessment: response carries no result")
	}
	return resp.Outcome(), nil
}

// GetStatus returns the status of an assessment.
func (c *Client) GetStatus(ctx context.Context, assessmentID string) (*Status, error) {
	var st Status
	if err := c.do(ctx, http.MethodGet, "/assessments/"+url.PathEscape(assessmentID), nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

// Health checks that the service is reachable.
func (c *Client) Health(ctx context.Context) error {
	var out map[string]any
	return c.do(ctx, http.MethodGet, "/health", nil, &out)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if c.userID != "" {
		req.Header.Set("X-User-Id", c.userID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode}
		var env ErrorResponse
		if json.Unmarshal(data, &env) == nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
