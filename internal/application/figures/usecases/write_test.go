package usecases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/shared/errors"
	"github.com/figures-analytics/figures/internal/shared/logger"
)

func TestToAppError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want errors.ErrorType
	}{
		{"duplicate", metrics.DuplicateSiteRecord("figures_sitedailymetrics", 1, testDay), errors.ErrorTypeConflict},
		{"not found", metrics.ErrMetricsNotFound, errors.ErrorTypeNotFound},
		{"course key", fmt.Errorf("%w: bad", metrics.ErrInvalidCourseKey), errors.ErrorTypeValidation},
		{"negative", metrics.ErrNegativeCount, errors.ErrorTypeValidation},
		{"progress", metrics.ErrInvalidProgress, errors.ErrorTypeValidation},
		{"other", fmt.Errorf("connection reset"), errors.ErrorTypeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := errors.GetAppError(toAppError(tt.err, "failed"))
			require.NotNil(t, appErr)
			assert.Equal(t, tt.want, appErr.Type)
		})
	}

	assert.Nil(t, toAppError(nil, "failed"))
	existing := errors.NewForbiddenError("nope")
	assert.Same(t, existing, toAppError(existing, "failed"))
}

func TestCreateSiteDailyMetrics_Success(t *testing.T) {
	repo := &mockSiteDailyRepo{}
	uc := NewCreateSiteDailyMetricsUseCase(repo, logger.NewNop())

	result, err := uc.Execute(context.Background(), SiteDailyMetricsCommand{
		SiteID:  testSite.ID,
		DateFor: testDay,
		Counts:  metrics.SiteDailyCounts{TotalUserCount: 10, CourseCount: 2, TotalEnrollmentCount: 7, MAU: intPtr(4)},
	})

	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, uint(1), result.Metrics.ID)
	assert.Equal(t, "2024-03-14", result.Metrics.DateFor)
	assert.Equal(t, 10, result.Metrics.TotalUserCount)
	assert.Equal(t, 4, *result.Metrics.MAU)
}

func TestCreateSiteDailyMetrics_DuplicateIsConflict(t *testing.T) {
	repo := &mockSiteDailyRepo{
		CreateFunc: func(ctx context.Context, m *metrics.SiteDailyMetrics) error {
			return metrics.DuplicateSiteRecord("figures_sitedailymetrics", m.SiteID(), m.DateFor())
		},
	}
	uc := NewCreateSiteDailyMetricsUseCase(repo, logger.NewNop())

	_, err := uc.Execute(context.Background(), SiteDailyMetricsCommand{SiteID: testSite.ID, DateFor: testDay})

	assert.True(t, errors.IsConflictError(err))
}

func TestCreateSiteDailyMetrics_RejectsNegativeCounts(t *testing.T) {
	uc := NewCreateSiteDailyMetricsUseCase(&mockSiteDailyRepo{
		CreateFunc: func(ctx context.Context, m *metrics.SiteDailyMetrics) error {
			t.Fatal("repository must not be called")
			return nil
		},
	}, logger.NewNop())

	_, err := uc.Execute(context.Background(), SiteDailyMetricsCommand{
		SiteID:  testSite.ID,
		DateFor: testDay,
		Counts:  metrics.SiteDailyCounts{CourseCount: -1},
	})

	assert.True(t, errors.IsValidationError(err))
}

func TestGetOrCreateSiteDailyMetrics(t *testing.T) {
	stored := metrics.SiteDailyCounts{TotalUserCount: 3}
	incoming := metrics.SiteDailyCounts{TotalUserCount: 9}

	tests := []struct {
		name        string
		created     bool
		force       bool
		wantUsers   int
		wantUpdates int
	}{
		{"created uses defaults", true, false, 9, 0},
		{"existing kept", false, false, 3, 0},
		{"existing forced", false, true, 9, 1},
		{"created with force does not update", true, true, 9, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockSiteDailyRepo{
				GetOrCreateFunc: func(ctx context.Context, siteID uint, dateFor time.Time, defaults metrics.SiteDailyCounts) (*metrics.SiteDailyMetrics, bool, error) {
					if tt.created {
						return newSiteRecord(t, 5, dateFor, defaults), true, nil
					}
					return newSiteRecord(t, 5, dateFor, stored), false, nil
				},
			}
			uc := NewGetOrCreateSiteDailyMetricsUseCase(repo, logger.NewNop())

			result, err := uc.Execute(context.Background(), SiteDailyMetricsCommand{
				SiteID: testSite.ID, DateFor: testDay, Counts: incoming, Force: tt.force,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.created, result.Created)
			assert.Equal(t, tt.wantUsers, result.Metrics.TotalUserCount)
			assert.Equal(t, tt.wantUpdates, repo.updated)
		})
	}
}

func TestCreateCourseDailyMetrics_InvalidCourseKey(t *testing.T) {
	uc := NewCreateCourseDailyMetricsUseCase(&mockCourseDailyRepo{}, logger.NewNop())

	_, err := uc.Execute(context.Background(), CourseDailyMetricsCommand{
		SiteID: testSite.ID, CourseID: "not a course", DateFor: testDay,
	})

	assert.True(t, errors.IsValidationError(err))
}

func TestCreateCourseDailyMetrics_DuplicateIsConflict(t *testing.T) {
	repo := &mockCourseDailyRepo{
		CreateFunc: func(ctx context.Context, m *metrics.CourseDailyMetrics) error {
			return metrics.DuplicateCourseRecord("figures_coursedailymetrics", m.SiteID(), m.CourseID(), m.DateFor())
		},
	}
	uc := NewCreateCourseDailyMetricsUseCase(repo, logger.NewNop())

	_, err := uc.Execute(context.Background(), CourseDailyMetricsCommand{
		SiteID: testSite.ID, CourseID: testCourseID, DateFor: testDay,
	})

	assert.True(t, errors.IsConflictError(err))
}

func TestGetOrCreateCourseDailyMetrics_ForceReplacesCounts(t *testing.T) {
	existing := newCourseRecord(t, 8, testCourseID, testDay, 2, "0.10")
	repo := &mockCourseDailyRepo{
		GetOrCreateFunc: func(ctx context.Context, siteID uint, courseID string, dateFor time.Time, defaults metrics.CourseDailyCounts) (*metrics.CourseDailyMetrics, bool, error) {
			return existing, false, nil
		},
	}
	uc := NewGetOrCreateCourseDailyMetricsUseCase(repo, logger.NewNop())

	result, err := uc.Execute(context.Background(), CourseDailyMetricsCommand{
		SiteID:   testSite.ID,
		CourseID: testCourseID,
		DateFor:  testDay,
		Counts:   metrics.CourseDailyCounts{EnrollmentCount: 5, AverageProgress: metrics.ProgressFromFloat(0.456)},
		Force:    true,
	})

	require.NoError(t, err)
	assert.False(t, result.Created)
	assert.Equal(t, 1, repo.updated)
	assert.Equal(t, 5, result.Metrics.EnrollmentCount)
	require.NotNil(t, result.Metrics.AverageProgress)
	assert.Equal(t, "0.46", *result.Metrics.AverageProgress)
}
