package usecases

import (
	"time"

	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/domain/platform"
	"github.com/figures-analytics/figures/internal/shared/biztime"
	"github.com/figures-analytics/figures/internal/shared/errors"
	"github.com/figures-analytics/figures/internal/shared/query"
	"github.com/figures-analytics/figures/internal/shared/utils"
)

// PageQuery carries the limit/offset window of list endpoints. A zero Limit
// returns every row.
type PageQuery struct {
	Limit  int `form:"limit" validate:"gte=0"`
	Offset int `form:"offset" validate:"gte=0"`
}

func (p PageQuery) filter() query.PageFilter {
	return query.PageFilter{Limit: p.Limit, Offset: p.Offset}
}

// DateRangeQuery bounds date_for inclusively. Both ends are optional.
type DateRangeQuery struct {
	DateFrom string `form:"date_0" validate:"omitempty,datefor"`
	DateTo   string `form:"date_1" validate:"omitempty,datefor"`
}

func (q DateRangeQuery) filter() (query.DateFilter, error) {
	var f query.DateFilter
	var err error
	if q.DateFrom != "" {
		if f.From, err = biztime.ParseDate(q.DateFrom); err != nil {
			return f, errors.NewValidationError("invalid date_0", err.Error())
		}
	}
	if q.DateTo != "" {
		if f.To, err = biztime.ParseDate(q.DateTo); err != nil {
			return f, errors.NewValidationError("invalid date_1", err.Error())
		}
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return f, errors.NewValidationError("date_1 must not be before date_0")
	}
	return f, nil
}

// Page is one window of a list result.
type Page[T any] struct {
	Results []T
	Count   int64
}

func requireSite(site *platform.Site) error {
	if site == nil || site.ID == 0 {
		return errors.NewValidationError("site is required")
	}
	return nil
}

// validateCourseID accepts an empty id when optional is set.
func validateCourseID(courseID string, optional bool) error {
	if courseID == "" && optional {
		return nil
	}
	if _, err := metrics.ParseCourseKey(courseID); err != nil {
		return errors.NewValidationError("invalid course_id", err.Error())
	}
	return nil
}

// parseOptionalDate returns fallback when s is empty.
func parseOptionalDate(s string, fallback time.Time) (time.Time, error) {
	if s == "" {
		return fallback, nil
	}
	d, err := biztime.ParseDate(s)
	if err != nil {
		return time.Time{}, errors.NewValidationError("invalid date", err.Error())
	}
	return d, nil
}

func validate(q interface{}) error {
	return utils.ValidateStruct(q)
}
