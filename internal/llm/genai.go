package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"spendwise/internal/logging"
)

// GenAIClient implements Generator with the google.golang.org/genai SDK.
type GenAIClient struct {
	client      *genai.Client
	model       string
	temperature float32
	logger      logging.Logger
}

// NewGenAIClient creates a client for the Gemini API backend.
func NewGenAIClient(ctx context.Context, apiKey, model string, temperature float32, logger logging.Logger) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &GenAIClient{client: client, model: model, temperature: temperature, logger: logger}, nil
}

// Generate sends the prompt with the system text as the system instruction.
func (c *GenAIClient) Generate(ctx context.Context, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(c.temperature),
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	c.logger.Debug("Calling GenAI",
		logging.F(logging.FieldProvider, "genai"),
		logging.F(logging.FieldModel, c.model))

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}

// Close is a no-op; the genai client holds no resources that need releasing.
func (c *GenAIClient) Close() error {
	return nil
}
