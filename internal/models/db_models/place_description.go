package db_models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type PlaceDescription struct {
	BaseModel
	PlaceID             uuid.UUID      `gorm:"type:uuid;unique"`
	OriginalDescription string         `gorm:"type:text"`
	AISummary           string         `gorm:"type:text"`
	Summary             string         `gorm:"type:text"`
	Keywords            pq.StringArray `gorm:"type:text[]"`
	SearchQuery         string
}
