package metrics

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrDuplicateMetrics is returned when a record with the same unique key
	// already exists. Existing records are never overwritten by Create.
	ErrDuplicateMetrics = errors.New("metrics record already exists")
	ErrMetricsNotFound  = errors.New("metrics record not found")
	ErrInvalidCourseKey = errors.New("invalid course key")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidSite      = errors.New("site is required")
	ErrNegativeCount    = errors.New("count must not be negative")
	ErrInvalidProgress  = errors.New("average progress must be between 0 and 1")
)

// DuplicateSiteRecord wraps ErrDuplicateMetrics with a site scoped key.
func DuplicateSiteRecord(table string, siteID uint, dateFor time.Time) error {
	return fmt.Errorf("%w: %s site=%d date_for=%s", ErrDuplicateMetrics, table, siteID, dateFor.Format("2006-01-02"))
}

// DuplicateCourseRecord wraps ErrDuplicateMetrics with a course scoped key.
func DuplicateCourseRecord(table string, siteID uint, courseID string, dateFor time.Time) error {
	return fmt.Errorf("%w: %s site=%d course_id=%s date_for=%s", ErrDuplicateMetrics, table, siteID, courseID, dateFor.Format("2006-01-02"))
}

func negativeCount(field string, value int) error {
	return fmt.Errorf("%w: %s=%d", ErrNegativeCount, field, value)
}
