package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"placesync/internal/models/response_models"
	"placesync/internal/services"
	"placesync/pkg/utils"
)

type RefreshController struct {
	refreshService services.RefreshServiceInterface
	batchService   services.BatchRefreshServiceInterface
}

func NewRefreshController(
	refreshService services.RefreshServiceInterface,
	batchService services.BatchRefreshServiceInterface,
) *RefreshController {
	return &RefreshController{
		refreshService: refreshService,
		batchService:   batchService,
	}
}

type refreshFunc func(ctx context.Context, id uuid.UUID) (response_models.RefreshResult, error)

// RefreshPlace godoc
// @Summary Refresh all crawled data of a place
// @Tags Refresh
// @Produce json
// @Param id path string true "Place ID"
// @Success 200 {object} response_models.RefreshResult
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /admin/places/{id}/refresh [post]
func (r *RefreshController) RefreshPlace(c *gin.Context) {
	r.handleRefresh(c, r.refreshService.RefreshPlace)
}

// RefreshImages godoc
// @Summary Replace the image gallery of a place
// @Description Keeps at most 5 images from the latest crawl.
// @Tags Refresh
// @Produce json
// @Param id path string true "Place ID"
// @Success 200 {object} response_models.RefreshResult
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /admin/places/{id}/refresh/images [post]
func (r *RefreshController) RefreshImages(c *gin.Context) {
	r.handleRefresh(c, r.refreshService.RefreshImages)
}

// RefreshReviews godoc
// @Summary Append new reviews to a place
// @Description Near-duplicates are skipped; a place holds at most 10 reviews.
// @Tags Refresh
// @Produce json
// @Param id path string true "Place ID"
// @Success 200 {object} response_models.RefreshResult
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /admin/places/{id}/refresh/reviews [post]
func (r *RefreshController) RefreshReviews(c *gin.Context) {
	r.handleRefresh(c, r.refreshService.RefreshReviews)
}

// RefreshBusinessHours godoc
// @Summary Replace the weekly business hours of a place
// @Tags Refresh
// @Produce json
// @Param id path string true "Place ID"
// @Success 200 {object} response_models.RefreshResult
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /admin/places/{id}/refresh/business-hours [post]
func (r *RefreshController) RefreshBusinessHours(c *gin.Context) {
	r.handleRefresh(c, r.refreshService.RefreshBusinessHours)
}

// RefreshMenus godoc
// @Summary Replace the menu of a place
// @Description Keeps at most 50 items; an empty crawl leaves the menu unchanged.
// @Tags Refresh
// @Produce json
// @Param id path string true "Place ID"
// @Success 200 {object} response_models.RefreshResult
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /admin/places/{id}/refresh/menus [post]
func (r *RefreshController) RefreshMenus(c *gin.Context) {
	r.handleRefresh(c, r.refreshService.RefreshMenus)
}

// RefreshDescription godoc
// @Summary Rebuild the description of a place
// @Tags Refresh
// @Produce json
// @Param id path string true "Place ID"
// @Success 200 {object} response_models.RefreshResult
// @Failure 400 {object} utils.APIResponse
// @Failure 404 {object} utils.APIResponse
// @Failure 409 {object} utils.APIResponse
// @Router /admin/places/{id}/refresh/description [post]
func (r *RefreshController) RefreshDescription(c *gin.Context) {
	r.handleRefresh(c, r.refreshService.RefreshDescription)
}

// handleRefresh answers 200 whenever the place exists; a crawl failure is
// reported through success=false in the payload.
func (r *RefreshController) handleRefresh(c *gin.Context, fn refreshFunc) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, utils.ErrInvalidPlaceID)
		return
	}

	result, err := fn(c.Request.Context(), id)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, result.Message)
}

// RefreshAll godoc
// @Summary Refresh every place synchronously
// @Description Runs place by place; a failure on one place does not stop the run.
// @Tags Refresh
// @Produce json
// @Success 200 {object} response_models.BatchRefreshResult
// @Router /admin/places/refresh [post]
func (r *RefreshController) RefreshAll(c *gin.Context) {
	// The run outlives a dropped client connection.
	ctx := context.WithoutCancel(c.Request.Context())
	result, err := r.batchService.RefreshAll(ctx)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Batch refresh finished")
}

// RefreshAllAsync godoc
// @Summary Start a whole-catalog refresh in the background
// @Description Returns immediately; progress and the final summary are only logged.
// @Tags Refresh
// @Produce json
// @Success 202 {object} utils.APIResponse
// @Router /admin/places/refresh/async [post]
func (r *RefreshController) RefreshAllAsync(c *gin.Context) {
	r.batchService.RefreshAllAsync()
	utils.RespondAccepted(c, "Batch refresh started")
}

// RefreshPage godoc
// @Summary Refresh one window of places
// @Tags Refresh
// @Produce json
// @Param offset query int false "Offset (default: 0)"
// @Param limit query int false "Limit (default: 20, max: 100)"
// @Success 200 {object} response_models.BatchRefreshResult
// @Failure 400 {object} utils.APIResponse
// @Router /admin/places/refresh/page [post]
func (r *RefreshController) RefreshPage(c *gin.Context) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid offset")
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid limit")
		return
	}

	result, err := r.batchService.RefreshPage(context.WithoutCancel(c.Request.Context()), offset, limit)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Batch refresh finished")
}
