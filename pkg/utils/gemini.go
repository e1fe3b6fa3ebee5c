package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"placesync/internal/models/request_models"
)

// GeminiDescriptionClient implements DescriptionGenerator using Google's Gemini models
type GeminiDescriptionClient struct {
	client *genai.Client
	model  string
}

func NewGeminiDescriptionClient(apiKey, model string) (*GeminiDescriptionClient, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiDescriptionClient{
		client: client,
		model:  model,
	}, nil
}

func (c *GeminiDescriptionClient) GenerateDescription(ctx context.Context, prompt request_models.DescriptionPrompt) (*GeneratedDescription, error) {
	m := c.client.GenerativeModel(c.model)
	m.ResponseMIMEType = "application/json"
	m.SetTemperature(0.3)
	m.SetTopP(0.8)
	m.SetMaxOutputTokens(1024)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := m.GenerateContent(ctx, genai.Text(buildDescriptionPrompt(prompt)))
	if err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini: no content")
	}

	content := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])
	generated, err := parseGeneratedDescription(content)
	if err != nil {
		return nil, err
	}
	if resp.UsageMetadata != nil {
		generated.CachedTokens = int(resp.UsageMetadata.CachedContentTokenCount)
	}
	return generated, nil
}

// Close closes the Gemini client
func (c *GeminiDescriptionClient) Close() error {
	return c.client.Close()
}
