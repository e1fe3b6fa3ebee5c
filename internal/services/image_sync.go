package services

import (
	"context"
	"strings"

	"placesync/internal/models/db_models"
)

// MaxPlaceImages caps the stored gallery of a place.
const MaxPlaceImages = 5

// selectImageURLs looks only at the first MaxPlaceImages payload entries and
// drops blank and repeated URLs among them.
func selectImageURLs(urls []string) []string {
	if len(urls) > MaxPlaceImages {
		urls = urls[:MaxPlaceImages]
	}
	out := make([]string, 0, len(urls))
	seen := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}
	return out
}

type ImageSync struct {
	storage ImageStorage
}

func NewImageSync(storage ImageStorage) *ImageSync {
	return &ImageSync{storage: storage}
}

// Build downloads the crawled images and returns the rows that replace the
// current gallery, numbered in fetch order. There is no retry of single URLs.
func (s *ImageSync) Build(ctx context.Context, place *db_models.Place, crawled []string) []db_models.PlaceImage {
	urls := selectImageURLs(crawled)
	if len(urls) == 0 {
		return []db_models.PlaceImage{}
	}

	saved := s.storage.DownloadAndSaveImages(ctx, place.ID, place.Name, urls)
	rows := make([]db_models.PlaceImage, 0, len(saved))
	for _, img := range saved {
		if img.Path == "" || len(rows) == MaxPlaceImages {
			continue
		}
		rows = append(rows, db_models.PlaceImage{
			PlaceID:      place.ID,
			ImageURL:     img.Path,
			SourceURL:    img.SourceURL,
			DisplayOrder: len(rows) + 1,
		})
	}
	return rows
}
