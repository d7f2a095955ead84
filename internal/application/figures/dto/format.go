package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/shared/biztime"
)

func formatDate(t time.Time) string {
	return biztime.FormatDate(t)
}

func formatDateTime(t time.Time) string {
	return biztime.FormatDateTime(t)
}

func optionalDateTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDateTime(*t)
	return &s
}

// formatProgress renders a ratio with the stored number of places, or nil.
func formatProgress(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.StringFixed(metrics.ProgressPlaces)
	return &s
}

// CountryField renders a country code. A missing country renders as "".
func CountryField(code *string) string {
	if code == nil {
		return ""
	}
	return *code
}
