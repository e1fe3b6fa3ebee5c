package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// BusinessHour holds one row per day of week; DayOfWeek is 1 (Monday) to 7 (Sunday).
type BusinessHour struct {
	ChildModel
	PlaceID          uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_business_hours_place_day"`
	DayOfWeek        int             `gorm:"not null;uniqueIndex:idx_business_hours_place_day"`
	OpenTime         *datatypes.Time `gorm:"type:time"`
	CloseTime        *datatypes.Time `gorm:"type:time"`
	Description      string
	IsOperating      bool
	LastOrderMinutes *int
}
