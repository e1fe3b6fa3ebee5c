package db_models

import "github.com/google/uuid"

type PlaceImage struct {
	ChildModel
	PlaceID      uuid.UUID `gorm:"type:uuid;index;not null"`
	ImageURL     string    `gorm:"not null"`
	SourceURL    string
	DisplayOrder int
}

type PlaceReview struct {
	BaseModel
	PlaceID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Content      string    `gorm:"type:text;not null"`
	DisplayOrder int
}

type PlaceMenu struct {
	ChildModel
	PlaceID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Name         string    `gorm:"not null"`
	Price        string
	Description  string `gorm:"type:text"`
	ImageURL     string
	ImagePath    string
	IsPopular    bool
	DisplayOrder int
}
