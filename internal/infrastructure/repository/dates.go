package repository

import (
	"time"

	"github.com/figures-analytics/figures/internal/shared/biztime"
)

// dateKey normalizes a date_for argument to the stored form (00:00 UTC) so
// equality and range predicates compare like with like on every driver.
// The zero time stays zero so open range bounds remain open.
func dateKey(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return biztime.Date(t.Year(), t.Month(), t.Day())
}
