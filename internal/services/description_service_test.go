package services

import (
	"context"
	"strings"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placesync/internal/models/db_models"
	"placesync/internal/models/response_models"
	"placesync/pkg/utils"
)

func TestDescriptionComposer_WithoutGenerator(t *testing.T) {
	place := &db_models.Place{
		Name:        "Harbor Diner",
		Description: &db_models.PlaceDescription{Keywords: pq.StringArray{"seafood"}},
	}
	composer := NewDescriptionComposer(nil)

	desc := composer.Compose(context.Background(), place, &response_models.CrawlPlaceData{
		OriginalDescription: "  Family diner by the port. ",
	}, "Busan Harbor Diner")

	assert.False(t, composer.GenerationEnabled())
	assert.Equal(t, "Family diner by the port.", desc.Summary)
	assert.Equal(t, "Family diner by the port.", desc.OriginalDescription)
	assert.Empty(t, desc.AISummary)
	assert.Equal(t, pq.StringArray{"seafood"}, desc.Keywords)
	assert.Equal(t, "Busan Harbor Diner", desc.SearchQuery)
}

func TestDescriptionComposer_UsesGeneratedText(t *testing.T) {
	pet := true
	gen := &fakeGenerator{result: &utils.GeneratedDescription{Description: "Seaside diner.", Keywords: []string{"diner", "sea"}}}
	place := &db_models.Place{Name: "Harbor Diner", Category: "restaurant"}

	desc := NewDescriptionComposer(gen).Compose(context.Background(), place, &response_models.CrawlPlaceData{
		AISummary:   []string{"Fresh fish daily."},
		Reviews:     []string{"Great  FISH", "", "Nice view", "Kind staff", "ignored fourth"},
		PetFriendly: &pet,
	}, "q")

	assert.Equal(t, "Seaside diner.", desc.Summary)
	assert.Equal(t, pq.StringArray{"diner", "sea"}, desc.Keywords)
	assert.Equal(t, "Fresh fish daily.", desc.AISummary)

	assert.Equal(t, "Harbor Diner", gen.last.PlaceName)
	assert.Equal(t, "restaurant", gen.last.Category)
	assert.True(t, gen.last.PetFriendly)
	assert.Equal(t, "great fish / nice view / kind staff", gen.last.ReviewSnippet)
}

func TestReviewSnippet_TruncatesRunes(t *testing.T) {
	long := strings.Repeat("맛", 400)

	got := reviewSnippet([]string{long})

	require.Len(t, []rune(got), reviewSnippetMaxRunes)
}
