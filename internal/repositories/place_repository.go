package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"placesync/internal/models/db_models"
)

type PlaceRepository interface {
	GetByIDWithChildren(ctx context.Context, id uuid.UUID) (*db_models.Place, error)
	ListAllRefs(ctx context.Context) ([]db_models.Place, error)
	ListRefs(ctx context.Context, offset, limit int) ([]db_models.Place, error)

	// Transaction runs fn in a new transaction opened from the root
	// connection, never joining a transaction the caller may hold.
	Transaction(ctx context.Context, fn func(tx PlaceRepository) error) error

	ReplaceImages(ctx context.Context, placeID uuid.UUID, images []db_models.PlaceImage) error
	AppendReviews(ctx context.Context, placeID uuid.UUID, reviews []db_models.PlaceReview) error
	ReplaceBusinessHours(ctx context.Context, placeID uuid.UUID, hours []db_models.BusinessHour) error
	ReplaceMenus(ctx context.Context, placeID uuid.UUID, menus []db_models.PlaceMenu) error
	SaveDescription(ctx context.Context, desc *db_models.PlaceDescription) error
	UpdateRefreshFields(ctx context.Context, place *db_models.Place) error
}

type placeRepository struct {
	root *gorm.DB
	db   *gorm.DB
}

func NewPlaceRepository(db *gorm.DB) PlaceRepository {
	return &placeRepository{root: db, db: db}
}

func byDisplayOrder(db *gorm.DB) *gorm.DB {
	return db.Order("display_order ASC")
}

// ────────────────────────────────────────────────────────────────
// Read helpers return (nil, nil) when no rows are found.
// ────────────────────────────────────────────────────────────────

func (r *placeRepository) GetByIDWithChildren(ctx context.Context, id uuid.UUID) (*db_models.Place, error) {
	var place db_models.Place
	err := r.db.WithContext(ctx).
		Preload("Images", byDisplayOrder).
		Preload("Reviews", byDisplayOrder).
		Preload("BusinessHours", func(db *gorm.DB) *gorm.DB { return db.Order("day_of_week ASC") }).
		Preload("Menus", byDisplayOrder).
		Preload("Description").
		First(&place, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &place, nil
}

func (r *placeRepository) ListAllRefs(ctx context.Context) ([]db_models.Place, error) {
	var places []db_models.Place
	err := r.db.WithContext(ctx).
		Select("id", "name", "created_at").
		Order("created_at ASC, id ASC").
		Find(&places).Error
	if err != nil {
		return nil, err
	}
	return places, nil
}

func (r *placeRepository) ListRefs(ctx context.Context, offset, limit int) ([]db_models.Place, error) {
	var places []db_models.Place
	err := r.db.WithContext(ctx).
		Select("id", "name", "created_at").
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&places).Error
	if err != nil {
		return nil, err
	}
	return places, nil
}

func (r *placeRepository) Transaction(ctx context.Context, fn func(tx PlaceRepository) error) error {
	return r.root.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&placeRepository{root: r.root, db: tx})
	})
}

func (r *placeRepository) ReplaceImages(ctx context.Context, placeID uuid.UUID, images []db_models.PlaceImage) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("place_id = ?", placeID).Delete(&db_models.PlaceImage{}).Error; err != nil {
		return fmt.Errorf("clear images: %w", err)
	}
	if len(images) == 0 {
		return nil
	}
	if err := db.Create(&images).Error; err != nil {
		return fmt.Errorf("insert images: %w", err)
	}
	return nil
}

func (r *placeRepository) AppendReviews(ctx context.Context, placeID uuid.UUID, reviews []db_models.PlaceReview) error {
	if len(reviews) == 0 {
		return nil
	}
	for i := range reviews {
		reviews[i].PlaceID = placeID
	}
	if err := r.db.WithContext(ctx).Create(&reviews).Error; err != nil {
		return fmt.Errorf("insert reviews: %w", err)
	}
	return nil
}

func (r *placeRepository) ReplaceBusinessHours(ctx context.Context, placeID uuid.UUID, hours []db_models.BusinessHour) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("place_id = ?", placeID).Delete(&db_models.BusinessHour{}).Error; err != nil {
		return fmt.Errorf("clear business hours: %w", err)
	}
	if len(hours) == 0 {
		return nil
	}
	if err := db.Create(&hours).Error; err != nil {
		return fmt.Errorf("insert business hours: %w", err)
	}
	return nil
}

// ReplaceMenus deletes first and inserts second; both statements run on the
// same connection so the delete is visible before any insert.
func (r *placeRepository) ReplaceMenus(ctx context.Context, placeID uuid.UUID, menus []db_models.PlaceMenu) error {
	db := r.db.WithContext(ctx)
	res := db.Where("place_id = ?", placeID).Delete(&db_models.PlaceMenu{})
	if res.Error != nil {
		return fmt.Errorf("clear menus: %w", res.Error)
	}
	if len(menus) == 0 {
		return nil
	}
	if err := db.CreateInBatches(&menus, 25).Error; err != nil {
		return fmt.Errorf("insert menus: %w", err)
	}
	return nil
}

func (r *placeRepository) SaveDescription(ctx context.Context, desc *db_models.PlaceDescription) error {
	db := r.db.WithContext(ctx)

	var existing db_models.PlaceDescription
	err := db.Where("place_id = ?", desc.PlaceID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return db.Create(desc).Error
	case err != nil:
		return fmt.Errorf("load description: %w", err)
	}

	existing.OriginalDescription = desc.OriginalDescription
	existing.AISummary = desc.AISummary
	existing.Summary = desc.Summary
	existing.Keywords = desc.Keywords
	existing.SearchQuery = desc.SearchQuery
	if err := db.Save(&existing).Error; err != nil {
		return fmt.Errorf("update description: %w", err)
	}
	*desc = existing
	return nil
}

func (r *placeRepository) UpdateRefreshFields(ctx context.Context, place *db_models.Place) error {
	result := r.db.WithContext(ctx).
		Model(&db_models.Place{}).
		Where("id = ?", place.ID).
		Updates(map[string]interface{}{
			"pet_friendly":      place.PetFriendly,
			"parking":           place.Parking,
			"social_links":      place.SocialLinks,
			"last_refreshed_at": place.LastRefreshedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update place: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
