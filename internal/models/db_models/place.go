package db_models

import (
	"strings"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Place is the aggregate root. Children are only mutated by refresh
// operations; the place row itself is created by ingestion.
type Place struct {
	BaseModel
	Name         string
	Category     string
	Tags         pq.StringArray `gorm:"type:text[]"`
	Province     string
	City         string
	District     string
	RoadAddress  string
	JibunAddress string
	PetFriendly  bool
	Parking      *bool
	SocialLinks  datatypes.JSON `gorm:"type:jsonb"`

	LastRefreshedAt int64

	Images        []PlaceImage      `gorm:"foreignKey:PlaceID"`
	Reviews       []PlaceReview     `gorm:"foreignKey:PlaceID"`
	BusinessHours []BusinessHour    `gorm:"foreignKey:PlaceID"`
	Menus         []PlaceMenu       `gorm:"foreignKey:PlaceID"`
	Description   *PlaceDescription `gorm:"foreignKey:PlaceID"`
}

// FullAddress joins the non-empty address parts, road address preferred.
func (p *Place) FullAddress() string {
	street := p.RoadAddress
	if street == "" {
		street = p.JibunAddress
	}
	parts := make([]string, 0, 4)
	for _, s := range []string{p.Province, p.City, p.District, street} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
