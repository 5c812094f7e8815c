package llm

import (
	"context"
	"errors"
	"sync"
)

// ErrScriptExhausted is returned by Scripted when no response is left.
var ErrScriptExhausted = errors.New("scripted generator: no response left")

// ScriptedResponse is one canned reply of a Scripted generator.
type ScriptedResponse struct {
	Text string
	Err  error
}

// Scripted is a Generator replaying canned responses in order and recording requests.
type Scripted struct {
	mu        sync.Mutex
	responses []ScriptedResponse
	requests  []Request
}

// NewScripted creates a Scripted generator returning texts in order.
func NewScripted(texts ...string) *Scripted {
	s := &Scripted{}
	for _, t := range texts {
		s.responses = append(s.responses, ScriptedResponse{Text: t})
	}
	return s
}

// Push appends a canned response.
func (s *Scripted) Push(text string, err error) *Scripted {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses = append(s.responses, ScriptedResponse{Text: text, Err: err})
	return s
}

// Generate implements Generator.
func (s *Scripted) Generate(ctx context.Context, req Request) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(s.responses) == 0 {
		return "", ErrScriptExhausted
	}
	r := s.responses[0]
	s.responses = s.responses[1:]
	return r.Text, r.Err
}

// Requests returns the requests received so far.
func (s *Scripted) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}
