package services

import (
	"context"
	"path"
	"strings"

	"github.com/rs/zerolog/log"

	"placesync/internal/models/db_models"
	"placesync/internal/models/response_models"
)

// MaxPlaceMenus caps the stored menu of a place.
const MaxPlaceMenus = 50

var placeholderImageMarkers = []string{"placeholder", "no_image", "noimage"}

// isPlaceholderImage reports whether a crawled menu image URL is not worth
// downloading. "default" only counts in the file name, so CDN hosts and
// directories that happen to contain it are not mistaken for placeholders.
func isPlaceholderImage(url string) bool {
	u := strings.ToLower(strings.TrimSpace(url))
	if u == "" || strings.HasPrefix(u, "data:") {
		return true
	}
	for _, marker := range placeholderImageMarkers {
		if strings.Contains(u, marker) {
			return true
		}
	}
	clean := strings.SplitN(strings.SplitN(u, "?", 2)[0], "#", 2)[0]
	return strings.Contains(path.Base(clean), "default")
}

type MenuSync struct {
	storage ImageStorage
}

func NewMenuSync(storage ImageStorage) *MenuSync {
	return &MenuSync{storage: storage}
}

// Build turns crawled menus into replacement rows: at most MaxPlaceMenus in
// crawl order, nameless items skipped, thumbnails fetched where available.
// The second return value counts rows whose thumbnail was stored.
func (s *MenuSync) Build(ctx context.Context, place *db_models.Place, crawled []response_models.CrawledMenu) ([]db_models.PlaceMenu, int) {
	rows := make([]db_models.PlaceMenu, 0, min(len(crawled), MaxPlaceMenus))
	withImage := 0

	for _, item := range crawled {
		if len(rows) == MaxPlaceMenus {
			break
		}
		name := strings.TrimSpace(item.Name)
		if name == "" {
			continue
		}

		row := db_models.PlaceMenu{
			PlaceID:      place.ID,
			Name:         name,
			Price:        strings.TrimSpace(item.Price),
			Description:  strings.TrimSpace(item.Description),
			ImageURL:     strings.TrimSpace(item.ImageURL),
			IsPopular:    item.IsPopular,
			DisplayOrder: len(rows) + 1,
		}

		if !isPlaceholderImage(row.ImageURL) {
			p, err := s.storage.SaveMenuImage(ctx, place.ID, name, row.ImageURL)
			if err != nil {
				log.Warn().Err(err).Str("place_id", place.ID.String()).Str("menu", name).Msg("menu image download failed")
			} else if p != "" {
				row.ImagePath = p
				withImage++
			}
		}
		rows = append(rows, row)
	}
	return rows, withImage
}
