package utils

import (
	"context"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"placesync/internal/models/request_models"
)

type OpenAIDescriptionClient struct {
	client *openai.Client
	model  string
}

func NewOpenAIDescriptionClient(apiKey, model string) *OpenAIDescriptionClient {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIDescriptionClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *OpenAIDescriptionClient) GenerateDescription(ctx context.Context, prompt request_models.DescriptionPrompt) (*GeneratedDescription, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.3,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You write concise place descriptions for a travel app."},
			{Role: openai.ChatMessageRoleUser, Content: buildDescriptionPrompt(prompt)},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai: no choices returned")
	}

	generated, err := parseGeneratedDescription(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	if resp.Usage.PromptTokensDetails != nil {
		generated.CachedTokens = resp.Usage.PromptTokensDetails.CachedTokens
	}
	return generated, nil
}
