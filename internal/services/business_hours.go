package services

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"

	"placesync/internal/models/db_models"
	"placesync/internal/models/response_models"
	"placesync/pkg/utils"
)

var dayOfWeekKeys = map[string]int{
	"monday": 1, "mon": 1, "월": 1, "월요일": 1,
	"tuesday": 2, "tue": 2, "tues": 2, "화": 2, "화요일": 2,
	"wednesday": 3, "wed": 3, "수": 3, "수요일": 3,
	"thursday": 4, "thu": 4, "thur": 4, "thurs": 4, "목": 4, "목요일": 4,
	"friday": 5, "fri": 5, "금": 5, "금요일": 5,
	"saturday": 6, "sat": 6, "토": 6, "토요일": 6,
	"sunday": 7, "sun": 7, "일": 7, "일요일": 7,
}

// DayOfWeekFromKey maps a crawled day key to 1 (Monday) .. 7 (Sunday).
func DayOfWeekFromKey(key string) (int, bool) {
	day, ok := dayOfWeekKeys[strings.ToLower(strings.TrimSpace(key))]
	return day, ok
}

// MapBusinessHours builds the replacement rows for a place's weekly hours.
// A day whose times cannot be parsed still gets a row with nil open/close.
func MapBusinessHours(placeID uuid.UUID, weekly map[string]response_models.CrawledDayHours, lastOrderMinutes *int) []db_models.BusinessHour {
	keys := make([]string, 0, len(weekly))
	for k := range weekly {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var byDay [8]*db_models.BusinessHour
	for _, key := range keys {
		day, ok := DayOfWeekFromKey(key)
		if !ok {
			log.Warn().Str("place_id", placeID.String()).Str("day", key).Msg("unknown business-hours day key, skipped")
			continue
		}
		if byDay[day] != nil {
			continue
		}

		hours := weekly[key]
		row := &db_models.BusinessHour{
			PlaceID:     placeID,
			DayOfWeek:   day,
			Description: strings.TrimSpace(hours.Description),
			IsOperating: hours.IsOperating,
		}
		if open, closeAt, err := parseDayHours(hours); err != nil {
			log.Warn().Err(err).Str("place_id", placeID.String()).Str("day", key).Msg("business hours parse failed, storing day without times")
		} else {
			row.OpenTime, row.CloseTime = open, closeAt
		}
		if lastOrderMinutes != nil {
			v := *lastOrderMinutes
			row.LastOrderMinutes = &v
		}
		byDay[day] = row
	}

	rows := make([]db_models.BusinessHour, 0, 7)
	for day := 1; day <= 7; day++ {
		if byDay[day] != nil {
			rows = append(rows, *byDay[day])
		}
	}
	return rows
}

// parseDayHours returns nil times for a day with no open/close values.
func parseDayHours(h response_models.CrawledDayHours) (*datatypes.Time, *datatypes.Time, error) {
	if strings.TrimSpace(h.Open) == "" && strings.TrimSpace(h.Close) == "" {
		return nil, nil, nil
	}
	open, err := utils.ParseClock(h.Open)
	if err != nil {
		return nil, nil, err
	}
	closeAt, err := utils.ParseClock(h.Close)
	if err != nil {
		return nil, nil, err
	}
	return &open, &closeAt, nil
}
