// utils/timeutil.go
package utils

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Use explicit "seconds" variant for DB storage
func NowUnixSeconds() int64 { return time.Now().Unix() }

var clockLayouts = []string{"15:04", "15:04:05"}

// ParseClock reads a wall-clock time such as "09:30" or "21:00:00".
// "24:00" is treated as the last minute of the day.
func ParseClock(s string) (datatypes.Time, error) {
	v := strings.TrimSpace(s)
	if v == "" {
		return 0, fmt.Errorf("empty time value")
	}
	if v == "24:00" || v == "24:00:00" {
		return datatypes.NewTime(23, 59, 0, 0), nil
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return datatypes.NewTime(t.Hour(), t.Minute(), t.Second(), 0), nil
		}
	}
	return 0, fmt.Errorf("unrecognised time value %q", s)
}

// ElapsedMillis returns the milliseconds since start.
func ElapsedMillis(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
