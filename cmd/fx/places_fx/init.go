package places_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"placesync/internal/repositories"
)

var Module = fx.Provide(
	providePlaceRepo)

func providePlaceRepo(db *gorm.DB) repositories.PlaceRepository {
	return repositories.NewPlaceRepository(db)
}
