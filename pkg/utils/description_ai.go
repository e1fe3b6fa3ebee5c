package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"placesync/internal/models/request_models"
)

// MaxDescriptionKeywords is the number of keywords kept per place.
const MaxDescriptionKeywords = 9

type GeneratedDescription struct {
	Description  string
	Keywords     []string
	CachedTokens int
}

// DescriptionGenerator turns crawled text into a readable summary and keywords.
type DescriptionGenerator interface {
	GenerateDescription(ctx context.Context, prompt request_models.DescriptionPrompt) (*GeneratedDescription, error)
}

// NewDescriptionGenerator Factory function to create either OpenAI or Gemini client based on config.
// An empty or "none" provider returns (nil, nil); callers treat that as "generation disabled".
func NewDescriptionGenerator(provider, apiKey, model string) (DescriptionGenerator, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", "none":
		return nil, nil
	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when using OpenAI provider")
		}
		return NewOpenAIDescriptionClient(apiKey, model), nil
	case "gemini":
		if apiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when using Gemini provider")
		}
		client, err := NewGeminiDescriptionClient(apiKey, model)
		if err != nil {
			return nil, err
		}
		return client, nil
	default:
		return nil, fmt.Errorf("unsupported description provider: %s. Use 'openai', 'gemini' or 'none'", provider)
	}
}

const descriptionSchema = `{"description":"string","keywords":["string"]}`

func buildDescriptionPrompt(p request_models.DescriptionPrompt) string {
	var b strings.Builder
	b.WriteString("Write a short, friendly description of a place for visitors. Return JSON only matching:\n")
	b.WriteString(descriptionSchema)
	fmt.Fprintf(&b, "\nUse 2-3 sentences and exactly %d short keywords.\n\n", MaxDescriptionKeywords)
	fmt.Fprintf(&b, "Name: %s\n", p.PlaceName)
	if p.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", p.Category)
	}
	fmt.Fprintf(&b, "Pet friendly: %t\n", p.PetFriendly)
	if p.OriginalDescription != "" {
		fmt.Fprintf(&b, "Owner description: %s\n", p.OriginalDescription)
	}
	if p.AISummary != "" {
		fmt.Fprintf(&b, "Review highlights: %s\n", p.AISummary)
	}
	if p.ReviewSnippet != "" {
		fmt.Fprintf(&b, "Sample reviews: %s\n", p.ReviewSnippet)
	}
	b.WriteString("\nReturn JSON only. No comments, no markdown.")
	return b.String()
}

// parseGeneratedDescription extracts the JSON object from a model reply.
func parseGeneratedDescription(content string) (*GeneratedDescription, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	if start := strings.Index(content, "{"); start != -1 {
		if end := findMatchingBrace(content, start); end != -1 {
			content = content[start : end+1]
		}
	}

	var raw struct {
		Description string   `json:"description"`
		Keywords    []string `json:"keywords"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("invalid description JSON: %w", err)
	}
	desc := strings.TrimSpace(raw.Description)
	if desc == "" {
		return nil, fmt.Errorf("empty description in model reply")
	}

	keywords := make([]string, 0, MaxDescriptionKeywords)
	for _, k := range raw.Keywords {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		keywords = append(keywords, k)
		if len(keywords) == MaxDescriptionKeywords {
			break
		}
	}
	return &GeneratedDescription{Description: desc, Keywords: keywords}, nil
}

// findMatchingBrace finds the matching closing brace for an opening brace
func findMatchingBrace(s string, start int) int {
	if start >= len(s) || s[start] != '{' {
		return -1
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}
		if char == '\\' && inString {
			escaped = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}
