package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"spendwise/internal/logging"
)

// GeminiClient implements Generator with the github.com/google/generative-ai-go SDK.
type GeminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
	name   string
	logger logging.Logger
}

// NewGeminiClient creates a Gemini client for the given model.
func NewGeminiClient(ctx context.Context, apiKey, model string, temperature float32, logger logging.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	m := client.GenerativeModel(model)
	m.SetTemperature(temperature)

	return &GeminiClient{client: client, model: m, name: model, logger: logger}, nil
}

// Generate sends the system instruction and the prompt as one user turn.
func (c *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	var parts []genai.Part
	if req.System != "" {
		parts = append(parts, genai.Text(req.System))
	}
	parts = append(parts, genai.Text(req.Prompt))

	c.logger.Debug("Calling Gemini",
		logging.F(logging.FieldProvider, "gemini"),
		logging.F(logging.FieldModel, c.name))

	resp, err := c.model.GenerateContent(ctx, parts...)
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response from Gemini API")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return sb.String(), nil
}

// Close releases the underlying client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}
