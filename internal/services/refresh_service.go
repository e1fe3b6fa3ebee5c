package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"placesync/internal/models/db_models"
	"placesync/internal/models/response_models"
	"placesync/internal/repositories"
	mem "placesync/pkg/memcache"
	"placesync/pkg/utils"
)

type RefreshServiceInterface interface {
	PlaceRefresher
	RefreshImages(ctx context.Context, id uuid.UUID) (response_models.RefreshResult, error)
	RefreshReviews(ctx context.Context, id uuid.UUID) (response_models.RefreshResult, error)
	RefreshBusinessHours(ctx context.Context, id uuid.UUID) (response_models.RefreshResult, error)
	RefreshMenus(ctx context.Context, id uuid.UUID) (response_models.RefreshResult, error)
	RefreshDescription(ctx context.Context, id uuid.UUID) (response_models.RefreshResult, error)
}

// PlaceRefresher is the per-place entry point used by the batch runner. Each
// call persists through its own transaction.
type PlaceRefresher interface {
	RefreshPlace(ctx context.Context, id uuid.UUID) (response_models.RefreshResult, error)
}

type RefreshOptions struct {
	// DescriptionOnFull also rebuilds the description record during a full refresh.
	DescriptionOnFull bool
	LockTTL           time.Duration
}

type RefreshService struct {
	placeRepo repositories.PlaceRepository
	crawler   CrawlClient
	images    *ImageSync
	menus     *MenuSync
	describer *DescriptionComposer
	locker    mem.PlaceLocker
	opts      RefreshOptions
	now       func() int64
}

func NewRefreshService(
	placeRepo repositories.PlaceRepository,
	crawler CrawlClient,
	storage ImageStorage,
	generator utils.DescriptionGenerator,
	locker mem.PlaceLocker,
	opts RefreshOptions,
) *RefreshService {
	if opts.LockTTL <= 0 {
		opts.LockTTL = 10 * time.Minute
	}
	return &RefreshService{
		placeRepo: placeRepo,
		crawler:   crawler,
		images:    NewImageSync(storage),
		menus:     NewMenuSync(storage),
		describer: NewDescriptionComposer(generator),
		locker:    locker,
		opts:      opts,
		now:       utils.NowUnixSeconds,
	}
}

// BuildSearchQuery combines city, district and name; the name alone is the fallback.
func BuildSearchQuery(place *db_models.Place) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{place.City, place.District, place.Name} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func (s *RefreshService) RefreshPlace(ctx context.Context, id uuid.UUID) (response_models.RefreshResult, error) {
	place, release, err := s.begin(ctx, id)
	if err != nil {
		return response_models.RefreshResult{}, err
	}
	defer release()

	result := newRefreshResult(place)
	data, query, failure := s.crawlPlace(ctx, place)
	if data == nil {
		result.Message = failure
		return result, nil
	}

	images := s.images.Build(ctx, place, data.Images)
	merge := MergeReviews(place.Reviews, data.Reviews)
	hours := MapBusinessHours(place.ID, data.BusinessHours, data.LastOrderMinutes)
	menus, menusWithImage, menuFailure := s.fetchMenus(ctx, place)

	var desc *db_models.PlaceDescription
	if s.opts.DescriptionOnFull {
		desc = s.describer.Compose(ctx, place, data, query)
	}
	applyPlaceFlags(place, data)
	place.LastRefreshedAt = s.now()

	err = s.persist(ctx, func(tx repositories.PlaceRepository) error {
		if err := tx.ReplaceImages(ctx, place.ID, images); err != nil {
			return err
		}
		if err := tx.AppendReviews(ctx, place.ID, merge.NewReviews); err != nil {
			return err
		}
		if err := tx.ReplaceBusinessHours(ctx, place.ID, hours); err != nil {
			return err
		}
		if menus != nil {
			if err := tx.ReplaceMenus(ctx, place.ID, menus); err != nil {
				return err
			}
		}
		if desc != nil {
			if err := tx.SaveDescription(ctx, desc); err != nil {
				return err
			}
		}
		return tx.UpdateRefreshFields(ctx, place)
	})
	if err != nil {
		return response_models.RefreshResult{}, err
	}

	result.Success = true
	result.Message = "Place data refreshed"
	if menuFailure != "" {
		result.Message += "; menus unchanged: " + menuFailure
	}
	fillImages(&result, images)
	fillReviews(&result, merge)
	result.BusinessHoursStored = len(hours)
	if menus != nil {
		fillMenus(&result, menus, menusWithImage)
	}
	result.DescriptionUpdated = desc != nil

	log.Info().
		Str("place_id", place.ID.String()).
		Int("images", result.ImagesStored).
		Int("new_reviews", result.NewReviews).
		Int("hours", result.BusinessHoursStored).
		Int("menus", result.MenusStored).
		Msg("place refreshed")
	return result, nil
}

func (s *RefreshService) RefreshImages(ctx context.Context, id uuid.UUID) (response_models.RefreshResult, error) {
	place, release, err := s.begin(ctx, id)
	if err != nil {
		return response_models.RefreshResult{}, err
	}
	defer release()

	result := newRefreshResult(place)
	resp, err := s.crawler.FetchPlaceImages(ctx, place.Name, place.FullAddress())
	if err != nil {
		log.Warn().Err(err).Str("place_id", place.ID.String()).Msg("image crawl failed")
		result.Message = "Image crawl failed: " + err.Error()
		return result, nil
	}
	if resp == nil {
		result.Message = "Image crawl returned no data"
		return result, nil
	}

	images := s.images.Build(ctx, place, resp.Images)
	err = s.persist(ctx, func(tx repositories.PlaceRepository) error {
		return tx.ReplaceImages(ctx, place.ID, images)
	})
	if err != nil {
		return response_models.RefreshResult{}, err
	}

	result.Success = true
	result.Message = fmt.Sprintf("%d images stored", len(images))
	fillImages(&result, images)
	result.TotalReviews = len(place.Reviews)
	return result, nil
}

func (s *RefreshService) RefreshReviews(ctx context.Context, id uuid.UUID) (response_models.RefreshResult, error) {
	place, release, err := s.begin(ctx, id)
	if err != nil {
		return response_models.RefreshResult{}, err
	}
	defer release()

	result := newRefreshResult(place)
	data, _, failure := s.crawlPlace(ctx, place)
	if data == nil {
		result.Message = failure
		return result, nil
	}

	merge := MergeReviews(place.Reviews, data.Reviews)
	if len(merge.NewReviews) > 0 {
		err = s.persist(ctx, func(tx repositories.PlaceRepository) error {
			return tx.AppendReviews(ctx, place.ID, merge.NewReviews)
		})
		if err != nil {
			return response_models.RefreshResult{}, err
		}
	}

	result.Success = true
	result.Message = fmt.Sprintf("%d new reviews added", len(merge.NewReviews))
	fillReviews(&result, merge)
	return result, nil
}

func (s *RefreshService) RefreshBusinessHours(ctx context.Context, id uuid.UUID) (response_models.RefreshResult, error) {
	place, release, err := s.begin(ctx, id)
	if err != nil {
		return response_models.RefreshResult{}, err
	}
	defer release()

	result := newRefreshResult(place)
	data, _, failure := s.crawlPlace(ctx, place)
	if data == nil {
		result.Message = failure
		return result, nil
	}

	hours := MapBusinessHours(place.ID, data.BusinessHours, data.LastOrderMinutes)
	err = s.persist(ctx, func(tx repositories.PlaceRepository) error {
		return tx.ReplaceBusinessHours(ctx, place.ID, hours)
	})
	if err != nil {
		return response_models.RefreshResult{}, err
	}

	result.Success = true
	result.Message = fmt.Sprintf("%d business-hour rows stored", len(hours))
	result.BusinessHoursStored = len(hours)
	result.TotalReviews = len(place.Reviews)
	return result, nil
}

func (s *RefreshService) RefreshMenus(ctx context.Context, id uuid.UUID) (response_models.RefreshResult, error) {
	place, release, err := s.begin(ctx, id)
	if err != nil {
		return response_models.RefreshResult{}, err
	}
	defer release()

	result := newRefreshResult(place)
	menus, withImage, failure := s.fetchMenus(ctx, place)
	if menus == nil {
		result.Message = failure
		return result, nil
	}

	err = s.persist(ctx, func(tx repositories.PlaceRepository) error {
		return tx.ReplaceMenus(ctx, place.ID, menus)
	})
	if err != nil {
		return response_models.RefreshResult{}, err
	}

	result.Success = true
	result.Message = fmt.Sprintf("%d menus stored, %d with image", len(menus), withImage)
	fillMenus(&result, menus, withImage)
	result.TotalReviews = len(place.Reviews)
	return result, nil
}

func (s *RefreshService) RefreshDescription(ctx context.Context, id uuid.UUID) (response_models.RefreshResult, error) {
	place, release, err := s.begin(ctx, id)
	if err != nil {
		return response_models.RefreshResult{}, err
	}
	defer release()

	result := newRefreshResult(place)
	data, query, failure := s.crawlPlace(ctx, place)
	if data == nil {
		result.Message = failure
		return result, nil
	}

	desc := s.describer.Compose(ctx, place, data, query)
	err = s.persist(ctx, func(tx repositories.PlaceRepository) error {
		return tx.SaveDescription(ctx, desc)
	})
	if err != nil {
		return response_models.RefreshResult{}, err
	}

	result.Success = true
	result.Message = "Description refreshed"
	result.DescriptionUpdated = true
	result.TotalReviews = len(place.Reviews)
	return result, nil
}

// begin takes the per-place lock and loads the place with its children.
func (s *RefreshService) begin(ctx context.Context, id uuid.UUID) (*db_models.Place, func(), error) {
	release := func() {}
	if s.locker != nil {
		key := id.String()
		token, ok, err := s.locker.TryLock(ctx, key, s.opts.LockTTL)
		switch {
		case err != nil:
			log.Warn().Err(err).Str("place_id", key).Msg("place lock unavailable, refreshing without it")
		case !ok:
			return nil, nil, utils.ErrRefreshInProgress
		default:
			release = func() {
				if err := s.locker.Unlock(context.Background(), key, token); err != nil {
					log.Warn().Err(err).Str("place_id", key).Msg("place unlock failed")
				}
			}
		}
	}

	place, err := s.placeRepo.GetByIDWithChildren(ctx, id)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	if place == nil {
		release()
		return nil, nil, utils.ErrPlaceNotFound
	}
	return place, release, nil
}

// crawlPlace returns nil data and a failure message when the crawl did not
// produce a payload; that outcome is reported, not raised.
func (s *RefreshService) crawlPlace(ctx context.Context, place *db_models.Place) (*response_models.CrawlPlaceData, string, string) {
	query := BuildSearchQuery(place)
	resp, err := s.crawler.CrawlPlaceData(ctx, query, place.Name)
	if err != nil {
		log.Warn().Err(err).Str("place_id", place.ID.String()).Str("query", query).Msg("place crawl failed")
		return nil, query, "Crawl failed: " + err.Error()
	}
	if resp == nil || !resp.Success || resp.Data == nil {
		msg := "Crawler returned no data"
		if resp != nil && resp.Message != "" {
			msg = "Crawl failed: " + resp.Message
		}
		log.Warn().Str("place_id", place.ID.String()).Str("query", query).Msg(msg)
		return nil, query, msg
	}
	return resp.Data, query, ""
}

// fetchMenus returns nil menus with a reason when the menu crawl failed or
// found nothing; stored menus are then left as they are.
func (s *RefreshService) fetchMenus(ctx context.Context, place *db_models.Place) ([]db_models.PlaceMenu, int, string) {
	resp, err := s.crawler.FetchPlaceMenus(ctx, place.Name, place.FullAddress())
	if err != nil {
		log.Warn().Err(err).Str("place_id", place.ID.String()).Msg("menu crawl failed")
		return nil, 0, "Menu crawl failed: " + err.Error()
	}
	if resp == nil || len(resp.Menus) == 0 {
		return nil, 0, "No menus found"
	}
	menus, withImage := s.menus.Build(ctx, place, resp.Menus)
	if len(menus) == 0 {
		return nil, 0, "No named menus found"
	}
	return menus, withImage, ""
}

func (s *RefreshService) persist(ctx context.Context, fn func(tx repositories.PlaceRepository) error) error {
	if err := s.placeRepo.Transaction(ctx, fn); err != nil {
		return fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	return nil
}

func applyPlaceFlags(place *db_models.Place, data *response_models.CrawlPlaceData) {
	if data.PetFriendly != nil {
		place.PetFriendly = *data.PetFriendly
	}
	if data.ParkingAvailable != nil {
		v := *data.ParkingAvailable
		place.Parking = &v
	}
	if len(data.SocialLinks) > 0 {
		if raw, err := json.Marshal(data.SocialLinks); err == nil {
			place.SocialLinks = datatypes.JSON(raw)
		}
	}
}

func newRefreshResult(place *db_models.Place) response_models.RefreshResult {
	return response_models.RefreshResult{
		PlaceID:        place.ID.String(),
		PlaceName:      place.Name,
		TotalReviews:   len(place.Reviews),
		NewImages:      []string{},
		NewReviewTexts: []string{},
		NewMenus:       []string{},
	}
}

func fillImages(r *response_models.RefreshResult, images []db_models.PlaceImage) {
	r.ImagesStored = len(images)
	for _, img := range images {
		r.NewImages = append(r.NewImages, img.ImageURL)
	}
}

func fillReviews(r *response_models.RefreshResult, merge ReviewMergeResult) {
	r.NewReviews = len(merge.NewReviews)
	r.TotalReviews = merge.Total
	for _, rv := range merge.NewReviews {
		r.NewReviewTexts = append(r.NewReviewTexts, rv.Content)
	}
}

func fillMenus(r *response_models.RefreshResult, menus []db_models.PlaceMenu, withImage int) {
	r.MenusStored = len(menus)
	r.MenusWithImage = withImage
	for _, m := range menus {
		r.NewMenus = append(r.NewMenus, m.Name)
	}
}
