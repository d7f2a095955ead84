package usecases

import (
	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/shared/errors"
)

// toAppError maps domain errors to the error types rendered by the API.
// Anything unrecognised becomes an internal error carrying msg only.
func toAppError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.IsAppError(err) {
		return err
	}

	switch {
	case errors.Is(err, metrics.ErrDuplicateMetrics):
		return errors.NewConflictError(msg, err.Error())
	case errors.Is(err, metrics.ErrMetricsNotFound):
		return errors.NewNotFoundError(msg, err.Error())
	case errors.Is(err, metrics.ErrInvalidCourseKey),
		errors.Is(err, metrics.ErrInvalidDate),
		errors.Is(err, metrics.ErrInvalidSite),
		errors.Is(err, metrics.ErrNegativeCount),
		errors.Is(err, metrics.ErrInvalidProgress):
		return errors.NewValidationError(msg, err.Error())
	default:
		return errors.NewInternalError(msg)
	}
}
