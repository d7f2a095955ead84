package metrics

import (
	"fmt"
	"time"

	"github.com/figures-analytics/figures/internal/shared/biztime"
)

// normalizeDate reduces t to its calendar date at 00:00 UTC.
func normalizeDate(t time.Time) (time.Time, error) {
	if t.IsZero() {
		return time.Time{}, fmt.Errorf("%w: date_for is required", ErrInvalidDate)
	}
	return biztime.Date(t.Year(), t.Month(), t.Day()), nil
}

func checkCounts(fields map[string]int) error {
	for name, value := range fields {
		if value < 0 {
			return negativeCount(name, value)
		}
	}
	return nil
}

func checkOptionalCounts(fields map[string]*int) error {
	for name, value := range fields {
		if value != nil && *value < 0 {
			return negativeCount(name, *value)
		}
	}
	return nil
}
