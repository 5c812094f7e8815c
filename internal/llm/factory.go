package llm

import (
	"context"
	"fmt"
	"io"
	"time"

	"spendwise/internal/logging"
)

// Options selects and configures a backend.
type Options struct {
	Provider          string
	Model             string
	APIKey            string
	Temperature       float32
	RequestsPerMinute int
	Timeout           time.Duration
}

// New builds the configured backend and wraps it with the optional rate limit and timeout.
// The returned closer releases the backend.
func New(ctx context.Context, opts Options, logger logging.Logger) (Generator, io.Closer, error) {
	var (
		gen    Generator
		closer io.Closer
	)

	switch opts.Provider {
	case "gemini", "":
		c, err := NewGeminiClient(ctx, opts.APIKey, opts.Model, opts.Temperature, logger)
		if err != nil {
			return nil, nil, err
		}
		gen, closer = c, c
	case "genai":
		c, err := NewGenAIClient(ctx, opts.APIKey, opts.Model, opts.Temperature, logger)
		if err != nil {
			return nil, nil, err
		}
		gen, closer = c, c
	default:
		return nil, nil, fmt.Errorf("unknown AI provider: %s", opts.Provider)
	}

	return Wrap(gen, opts), closer, nil
}

// Wrap applies the rate limit and timeout policies configured in opts.
func Wrap(gen Generator, opts Options) Generator {
	if opts.Timeout > 0 {
		gen = NewTimeout(gen, opts.Timeout)
	}
	if opts.RequestsPerMinute > 0 {
		gen = NewRateLimited(gen, opts.RequestsPerMinute)
	}
	return gen
}
