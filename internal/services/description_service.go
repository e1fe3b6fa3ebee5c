package services

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"

	"placesync/internal/models/db_models"
	"placesync/internal/models/request_models"
	"placesync/internal/models/response_models"
	"placesync/pkg/utils"
)

const (
	reviewSnippetCount    = 3
	reviewSnippetMaxRunes = 300
)

// DescriptionComposer builds a place's description record from crawled text,
// optionally asking a DescriptionGenerator for a rewritten summary.
type DescriptionComposer struct {
	generator utils.DescriptionGenerator
}

func NewDescriptionComposer(generator utils.DescriptionGenerator) *DescriptionComposer {
	return &DescriptionComposer{generator: generator}
}

func (d *DescriptionComposer) GenerationEnabled() bool {
	return d != nil && d.generator != nil
}

// Compose never fails: if generation errors, the summary falls back to the
// crawled AI summary lines (or the original description).
func (d *DescriptionComposer) Compose(ctx context.Context, place *db_models.Place, data *response_models.CrawlPlaceData, searchQuery string) *db_models.PlaceDescription {
	aiSummary := joinSummaryLines(data.AISummary)
	original := strings.TrimSpace(data.OriginalDescription)

	desc := &db_models.PlaceDescription{
		PlaceID:             place.ID,
		OriginalDescription: original,
		AISummary:           aiSummary,
		Summary:             aiSummary,
		SearchQuery:         searchQuery,
	}
	if desc.Summary == "" {
		desc.Summary = original
	}
	if place.Description != nil {
		desc.Keywords = place.Description.Keywords
	}

	if !d.GenerationEnabled() {
		return desc
	}

	petFriendly := place.PetFriendly
	if data.PetFriendly != nil {
		petFriendly = *data.PetFriendly
	}
	generated, err := d.generator.GenerateDescription(ctx, request_models.DescriptionPrompt{
		PlaceName:           place.Name,
		AISummary:           aiSummary,
		ReviewSnippet:       reviewSnippet(data.Reviews),
		OriginalDescription: original,
		Category:            place.Category,
		PetFriendly:         petFriendly,
	})
	if err != nil {
		log.Warn().Err(err).Str("place_id", place.ID.String()).Msg("description generation failed, keeping composed summary")
		return desc
	}
	if generated == nil {
		return desc
	}

	desc.Summary = generated.Description
	desc.Keywords = generated.Keywords
	log.Debug().Str("place_id", place.ID.String()).Int("cached_tokens", generated.CachedTokens).Msg("description generated")
	return desc
}

func joinSummaryLines(lines []string) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			parts = append(parts, l)
		}
	}
	return strings.Join(parts, " ")
}

func reviewSnippet(reviews []string) string {
	parts := make([]string, 0, reviewSnippetCount)
	for _, r := range reviews {
		if len(parts) == reviewSnippetCount {
			break
		}
		if r = NormalizeReviewText(SanitizeReviewText(r)); r != "" {
			parts = append(parts, r)
		}
	}
	snippet := []rune(strings.Join(parts, " / "))
	if len(snippet) > reviewSnippetMaxRunes {
		snippet = snippet[:reviewSnippetMaxRunes]
	}
	return string(snippet)
}
