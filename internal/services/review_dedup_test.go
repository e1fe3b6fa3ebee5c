package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"placesync/internal/models/db_models"
)

func TestSanitizeReviewText(t *testing.T) {
	assert.Equal(t, "good\ncoffee\tnice", SanitizeReviewText("  good\x00\ncoffee\x07\tnice \x1b"))
	assert.Empty(t, SanitizeReviewText("\x00\x01 "))
}

func TestNormalizeReviewText(t *testing.T) {
	assert.Equal(t, "great coffee and bread", NormalizeReviewText("  Great\n\nCOFFEE   and\tbread "))
}

func TestReviewFingerprint_UsesFirstFiftyRunes(t *testing.T) {
	prefix := strings.Repeat("가", 50)

	assert.Equal(t, prefix, ReviewFingerprint(prefix+" and more"))
	assert.Equal(t, ReviewFingerprint("Nice  PLACE"), ReviewFingerprint("nice place"))
}

func TestMergeReviews_FiftyCharCollision(t *testing.T) {
	prefix := strings.Repeat("a", 50)
	existing := []db_models.PlaceReview{{Content: prefix + " first ending", DisplayOrder: 1}}

	res := MergeReviews(existing, []string{prefix + " different ending"})

	assert.Empty(t, res.NewReviews)
	assert.Equal(t, 1, res.Total)
}

func TestMergeReviews_CapsAndContinuesOrder(t *testing.T) {
	existing := []db_models.PlaceReview{
		{Content: "first", DisplayOrder: 1},
		{Content: "second", DisplayOrder: 4},
	}
	crawled := reviewTexts(15, "fresh")

	res := MergeReviews(existing, crawled)

	require.Len(t, res.NewReviews, MaxPlaceReviews-2)
	assert.Equal(t, MaxPlaceReviews, res.Total)
	assert.Equal(t, 5, res.NewReviews[0].DisplayOrder)
	assert.Equal(t, 12, res.NewReviews[len(res.NewReviews)-1].DisplayOrder)
}

func TestMergeReviews_DedupsWithinBatchAndSkipsBlank(t *testing.T) {
	res := MergeReviews(nil, []string{"Cozy spot", "  cozy   SPOT ", "\x00", "Friendly staff"})

	require.Len(t, res.NewReviews, 2)
	assert.Equal(t, "Cozy spot", res.NewReviews[0].Content)
	assert.Equal(t, "Friendly staff", res.NewReviews[1].Content)
	assert.Equal(t, 2, res.Total)
}

func TestMergeReviews_FullPlaceTakesNothing(t *testing.T) {
	existing := make([]db_models.PlaceReview, MaxPlaceReviews)
	for i, text := range reviewTexts(MaxPlaceReviews, "old") {
		existing[i] = db_models.PlaceReview{Content: text, DisplayOrder: i + 1}
	}

	res := MergeReviews(existing, []string{"brand new opinion"})

	assert.Empty(t, res.NewReviews)
	assert.Equal(t, MaxPlaceReviews, res.Total)
}
