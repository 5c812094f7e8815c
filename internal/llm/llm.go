// Package llm provides the text-completion capability used for merchant classification,
// SQL generation and answer synthesis. The rest of the code depends only on Generator.
package llm

import (
	"context"
	"strings"
)

// Request is one prompt: a system instruction and a user message.
type Request struct {
	System string
	Prompt string
}

// Generator completes a request with the model's text output.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// StripCodeFences removes a surrounding Markdown code fence (``` or ```lang) if present.
func StripCodeFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	idx := strings.Index(s, "\n")
	if idx == -1 {
		return strings.TrimSpace(strings.Trim(s, "`"))
	}
	s = s[idx+1:]
	if end := strings.LastIndex(s, "```"); end != -1 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}
