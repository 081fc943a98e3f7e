package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/abhisek/privcheck/internal/store"
)

// wrapped layers behaviour over a Provider and keeps its Model.
type wrapped struct {
	Provider
	generate func(ctx context.Context, req Request) (*Response, error)
}

func (w wrapped) Generate(ctx context.Context, req Request) (*Response, error) {
	return w.generate(ctx, req)
}

// WithTimeout bounds every call to p by d, retries included. A
// non-positive d returns p as is.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return wrapped{Provider: p, generate: func(ctx context.Context, req Request) (*Response, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return p.Generate(ctx, req)
	}}
}

// RetryConfig shapes the backoff between attempts.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// WithRetry retries unavailable and rate limited calls with jittered
// exponential backoff. Malformed output is retried once; rejected and
// truncated calls are not retried.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	attempts := max(cfg.MaxAttempts, 1)
	return wrapped{Provider: p, generate: func(ctx context.Context, req Request) (*Response, error) {
		var (
			err          error
			resp         *Response
			malformedRun bool
		)
		for n := range attempts {
			if n > 0 {
				t := time.NewTimer(cfg.wait(n-1, err))
				select {
				case <-ctx.Done():
					t.Stop()
					return nil, ctx.Err()
				case <-t.C:
				}
			}
			resp, err = p.Generate(ctx, req)
			if err == nil {
				return resp, nil
			}
			if !retryable(err, &malformedRun) {
				break
			}
		}
		return nil, err
	}}
}

func retryable(err error, malformedRun *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	f, ok := FailureOf(err)
	if !ok {
		return true
	}
	switch f {
	case Rejected, Truncated:
		return false
	case Malformed:
		if *malformedRun {
			return false
		}
		*malformedRun = true
	}
	return true
}

// wait is the pause after failed attempt n (zero based).
func (c RetryConfig) wait(n int, err error) time.Duration {
	var e *Error
	if errors.As(err, &e) && e.RetryAfter > 0 {
		return e.RetryAfter
	}
	d := float64(c.InitialWait)
	for range n {
		d *= c.Multiplier
	}
	if c.MaxWait > 0 {
		d = min(d, float64(c.MaxWait))
	}
	d *= 0.8 + 0.4*rand.Float64()
	return time.Duration(d)
}

// RequestRecorder stores one event per request. store.EventRepo
// satisfies it.
type RequestRecorder interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

// WithEvents logs every call and, with a non-nil rec, records it in the
// event store. Recorder failures are logged and never fail the call.
func WithEvents(p Provider, vendor string, rec RequestRecorder, logger *slog.Logger) Provider {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "llm", "provider", vendor)

	return wrapped{Provider: p, generate: func(ctx context.Context, req Request) (*Response, error) {
		start := time.Now()
		resp, err := p.Generate(ctx, req)

		ev := store.LLMRequestEventData{
			Provider:    vendor,
			Model:       p.Model(),
			Purpose:     PurposeFrom(ctx),
			LatencyMs:   time.Since(start).Milliseconds(),
			Success:     err == nil,
			RequestBody: transcript(req),
		}
		if resp != nil {
			ev.Model = resp.Model
			ev.InputTokens = resp.InputTokens
			ev.OutputTokens = resp.OutputTokens
			ev.ResponseBody = string(resp.Content)
		}
		if err != nil {
			ev.ErrorMessage = err.Error()
			var e *Error
			if errors.As(err, &e) && len(e.Output) > 0 {
				ev.ResponseBody = string(e.Output)
			}
			logger.Warn("llm request failed", "purpose", ev.Purpose, "latency_ms", ev.LatencyMs, "err", err)
		} else {
			logger.Debug("llm request", "model", ev.Model, "purpose", ev.Purpose,
				"input_tokens", ev.InputTokens, "output_tokens", ev.OutputTokens, "latency_ms", ev.LatencyMs)
		}

		if rec != nil {
			if rerr := rec.AppendLLMRequest(ctx, ev); rerr != nil {
				logger.Warn("record llm request", "err", rerr)
			}
		}
		return resp, err
	}}
}

// transcript renders a request for the event log.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	fmt.Fprintf(&b, "[user]\n%s\n", req.Prompt)
	if req.Schema != nil {
		fmt.Fprintf(&b, "\n[schema %s]\n", req.Schema.Name)
	}
	return b.String()
}
