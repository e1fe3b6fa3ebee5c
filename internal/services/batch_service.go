package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"placesync/internal/models/db_models"
	"placesync/internal/models/response_models"
	"placesync/internal/repositories"
	"placesync/pkg/utils"
)

const maxBatchPageSize = 100

type BatchRefreshServiceInterface interface {
	RefreshAll(ctx context.Context) (response_models.BatchRefreshResult, error)
	RefreshPage(ctx context.Context, offset, limit int) (response_models.BatchRefreshResult, error)
	// RefreshAllAsync starts a whole-catalog run in the background and returns at once.
	RefreshAllAsync()
}

// BatchRefreshService refreshes places one after another. It depends on the
// PlaceRefresher interface so that every place goes through the same
// transactional entry point as a single-place API call.
type BatchRefreshService struct {
	placeRepo repositories.PlaceRepository
	refresher PlaceRefresher
	limiter   *rate.Limiter
	goFn      func(func())
}

func NewBatchRefreshService(placeRepo repositories.PlaceRepository, refresher PlaceRefresher, ratePerSecond float64) *BatchRefreshService {
	limit := rate.Inf
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
	}
	return &BatchRefreshService{
		placeRepo: placeRepo,
		refresher: refresher,
		limiter:   rate.NewLimiter(limit, 1),
		goFn:      func(f func()) { go f() },
	}
}

func (b *BatchRefreshService) RefreshAll(ctx context.Context) (response_models.BatchRefreshResult, error) {
	places, err := b.placeRepo.ListAllRefs(ctx)
	if err != nil {
		return response_models.BatchRefreshResult{}, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	log.Info().Int("places", len(places)).Msg("batch refresh started for whole catalog")
	return b.run(ctx, places), nil
}

func (b *BatchRefreshService) RefreshPage(ctx context.Context, offset, limit int) (response_models.BatchRefreshResult, error) {
	if offset < 0 {
		return response_models.BatchRefreshResult{}, utils.ErrInvalidPage
	}
	if limit < 1 || limit > maxBatchPageSize {
		return response_models.BatchRefreshResult{}, utils.ErrInvalidPageSize
	}

	places, err := b.placeRepo.ListRefs(ctx, offset, limit)
	if err != nil {
		return response_models.BatchRefreshResult{}, fmt.Errorf("%w: %w", utils.ErrDatabaseError, err)
	}
	log.Info().Int("offset", offset).Int("limit", limit).Int("places", len(places)).Msg("batch refresh started for page")
	return b.run(ctx, places), nil
}

func (b *BatchRefreshService) RefreshAllAsync() {
	b.goFn(func() {
		result, err := b.RefreshAll(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("async batch refresh aborted")
			return
		}
		log.Info().
			Int("total", result.Total).
			Int("succeeded", result.SuccessCount).
			Int("failed", result.FailureCount).
			Int64("elapsed_ms", result.ElapsedMillis).
			Msg("async batch refresh finished")
	})
}

func (b *BatchRefreshService) run(ctx context.Context, places []db_models.Place) response_models.BatchRefreshResult {
	start := time.Now()
	result := response_models.BatchRefreshResult{
		Total:   len(places),
		Results: make([]response_models.PlaceRefreshOutcome, 0, len(places)),
	}

	for _, place := range places {
		outcome := b.refreshOne(ctx, place)
		if outcome.Success {
			result.SuccessCount++
		} else {
			result.FailureCount++
		}
		result.Results = append(result.Results, outcome)
	}

	result.ElapsedMillis = utils.ElapsedMillis(start)
	log.Info().
		Int("total", result.Total).
		Int("succeeded", result.SuccessCount).
		Int("failed", result.FailureCount).
		Int64("elapsed_ms", result.ElapsedMillis).
		Msg("batch refresh finished")
	return result
}

// refreshOne never lets an error or panic escape; both become a failed outcome.
func (b *BatchRefreshService) refreshOne(ctx context.Context, place db_models.Place) (outcome response_models.PlaceRefreshOutcome) {
	outcome = response_models.PlaceRefreshOutcome{
		PlaceID:   place.ID.String(),
		PlaceName: place.Name,
	}
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("place_id", outcome.PlaceID).Interface("panic", r).Msg("place refresh panicked")
			outcome.Success = false
			outcome.Message = fmt.Sprintf("panic: %v", r)
		}
	}()

	if err := b.limiter.Wait(ctx); err != nil {
		outcome.Message = "rate limiter: " + err.Error()
		return outcome
	}

	res, err := b.refresher.RefreshPlace(ctx, place.ID)
	if err != nil {
		log.Error().Err(err).Str("place_id", outcome.PlaceID).Str("place_name", place.Name).Msg("place refresh failed")
		outcome.Message = err.Error()
		return outcome
	}

	outcome.Success = res.Success
	outcome.Message = res.Message
	outcome.ImagesStored = res.ImagesStored
	outcome.NewReviews = res.NewReviews
	outcome.MenusStored = res.MenusStored
	outcome.MenusWithImage = res.MenusWithImage
	return outcome
}
