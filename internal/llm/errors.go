package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// Failure classifies why a request produced no usable reply.
type Failure int

const (
	// Unavailable covers transport errors, 5xx answers and an exhausted
	// canned provider.
	Unavailable Failure = iota
	// RateLimited is a 429 from the vendor.
	RateLimited
	// Rejected is any other 4xx: a bad key, an unknown model, a request
	// the vendor refuses.
	Rejected
	// Malformed output is not JSON or does not match the schema.
	Malformed
	// Truncated output hit MaxTokens before the JSON was complete.
	Truncated
)

func (f Failure) String() string {
	switch f {
	case Unavailable:
		return "unavailable"
	case RateLimited:
		return "rate limited"
	case Rejected:
		return "rejected"
	case Malformed:
		return "malformed output"
	case Truncated:
		return "truncated output"
	}
	return "failure(" + strconv.Itoa(int(f)) + ")"
}

// Error is returned by every Provider in this package.
type Error struct {
	Failure Failure
	Vendor  string

	// RetryAfter is the wait the vendor asked for, if any.
	RetryAfter time.Duration

	// Output holds the raw reply for Malformed and Truncated.
	Output []byte

	Err error
}

func (e *Error) Error() string {
	msg := e.Vendor + ": " + e.Failure.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// FailureOf reports the Failure carried by err, if any.
func FailureOf(err error) (Failure, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Failure, true
	}
	return 0, false
}

// statusError maps an HTTP status returned by a vendor SDK.
func statusError(vendor string, status int, header http.Header, err error) *Error {
	e := &Error{Failure: Unavailable, Vendor: vendor, Err: err}
	switch {
	case status == http.StatusTooManyRequests:
		e.Failure = RateLimited
		e.RetryAfter = retryAfter(header)
	case status >= 400 && status < 500:
		e.Failure = Rejected
	}
	return e
}

// retryAfter reads a Retry-After header given in seconds.
func retryAfter(h http.Header) time.Duration {
	if h == nil {
		return 0
	}
	secs, err := strconv.Atoi(h.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func malformed(vendor string, output []byte, format string, args ...any) *Error {
	return &Error{Failure: Malformed, Vendor: vendor, Output: output, Err: fmt.Errorf(format, args...)}
}
