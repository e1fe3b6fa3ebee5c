package services

import (
	"strings"
	"unicode"

	"placesync/internal/models/db_models"
)

const (
	// MaxPlaceReviews caps the stored reviews of a place.
	MaxPlaceReviews = 10
	// reviewFingerprintLength is measured in runes of the normalized text.
	reviewFingerprintLength = 50
)

// SanitizeReviewText drops NUL and control characters, keeping \n, \t and \r.
func SanitizeReviewText(s string) string {
	cleaned := strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r == '\r' {
			return r
		}
		if r == 0 || unicode.IsControl(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(cleaned)
}

// NormalizeReviewText lowercases and collapses whitespace runs to one space.
func NormalizeReviewText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// ReviewFingerprint is the first 50 runes of the sanitized, normalized text.
// Two reviews that share that prefix are treated as the same review.
func ReviewFingerprint(s string) string {
	normalized := []rune(NormalizeReviewText(SanitizeReviewText(s)))
	if len(normalized) > reviewFingerprintLength {
		normalized = normalized[:reviewFingerprintLength]
	}
	return string(normalized)
}

type ReviewMergeResult struct {
	NewReviews []db_models.PlaceReview
	Total      int
}

// MergeReviews appends crawled reviews that are not near-duplicates of stored
// ones (or of each other) until the place holds MaxPlaceReviews.
func MergeReviews(existing []db_models.PlaceReview, crawled []string) ReviewMergeResult {
	seen := make(map[string]struct{}, len(existing)+len(crawled))
	nextOrder := 1
	for _, r := range existing {
		seen[ReviewFingerprint(r.Content)] = struct{}{}
		if r.DisplayOrder >= nextOrder {
			nextOrder = r.DisplayOrder + 1
		}
	}

	result := ReviewMergeResult{Total: len(existing)}
	for _, text := range crawled {
		if result.Total >= MaxPlaceReviews {
			break
		}
		content := SanitizeReviewText(text)
		if content == "" {
			continue
		}
		fp := ReviewFingerprint(content)
		if _, dup := seen[fp]; dup {
			continue
		}
		seen[fp] = struct{}{}
		result.NewReviews = append(result.NewReviews, db_models.PlaceReview{
			Content:      content,
			DisplayOrder: nextOrder,
		})
		nextOrder++
		result.Total++
	}
	return result
}
