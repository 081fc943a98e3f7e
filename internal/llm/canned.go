package llm

import (
	"context"
	"encoding/json"
	"errors"
	"slices"
	"sync"
)

// Canned replays queued replies in order. It backs the "mock" provider
// and the coach tests. Replies are returned as queued, without schema
// checks; an empty queue fails as Unavailable.
type Canned struct {
	mu       sync.Mutex
	queue    []cannedReply
	requests []Request
}

type cannedReply struct {
	body json.RawMessage
	err  error
}

// NewCanned returns a Canned provider that answers with bodies in order.
func NewCanned(bodies ...string) *Canned {
	c := &Canned{}
	for _, b := range bodies {
		c.Push(b)
	}
	return c
}

// Push queues a JSON reply.
func (c *Canned) Push(body string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = append(c.queue, cannedReply{body: json.RawMessage(body)})
}

// PushErr queues a failure.
func (c *Canned) PushErr(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = append(c.queue, cannedReply{err: err})
}

func (c *Canned) Generate(_ context.Context, req Request) (*Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.requests = append(c.requests, req)
	if len(c.queue) == 0 {
		return nil, &Error{Failure: Unavailable, Vendor: ProviderMock, Err: errors.New("no canned reply left")}
	}
	next := c.queue[0]
	c.queue = c.queue[1:]
	if next.err != nil {
		return nil, next.err
	}
	return &Response{Content: next.body, Model: c.Model()}, nil
}

func (c *Canned) Model() string { return "canned" }

// Requests returns the requests seen so far.
func (c *Canned) Requests() []Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.requests)
}
