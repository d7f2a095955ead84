package usecases

import (
	"context"
	"time"

	"github.com/figures-analytics/figures/internal/application/figures/dto"
	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/shared/logger"
)

// CourseDailyMetricsCommand identifies a course day and carries its counts.
type CourseDailyMetricsCommand struct {
	SiteID   uint
	CourseID string
	DateFor  time.Time
	Counts   metrics.CourseDailyCounts
	Force    bool
}

type CourseDailyMetricsResult struct {
	Metrics *dto.CourseDailyMetricsDTO
	Created bool
}

type CreateCourseDailyMetricsUseCase struct {
	repo   metrics.CourseDailyMetricsRepository
	logger logger.Interface
}

func NewCreateCourseDailyMetricsUseCase(
	repo metrics.CourseDailyMetricsRepository,
	logger logger.Interface,
) *CreateCourseDailyMetricsUseCase {
	return &CreateCourseDailyMetricsUseCase{
		repo:   repo,
		logger: logger,
	}
}

func (uc *CreateCourseDailyMetricsUseCase) Execute(ctx context.Context, cmd CourseDailyMetricsCommand) (*CourseDailyMetricsResult, error) {
	m, err := metrics.NewCourseDailyMetrics(cmd.SiteID, cmd.CourseID, cmd.DateFor, cmd.Counts)
	if err != nil {
		return nil, toAppError(err, "invalid course daily metrics")
	}

	if err := uc.repo.Create(ctx, m); err != nil {
		uc.logger.Warnw("failed to create course daily metrics",
			"site_id", cmd.SiteID, "course_id", cmd.CourseID, "date_for", cmd.DateFor, "error", err)
		return nil, toAppError(err, "failed to create course daily metrics")
	}

	uc.logger.Infow("course daily metrics created", "id", m.ID(), "course_id", cmd.CourseID, "date_for", m.DateFor())
	return &CourseDailyMetricsResult{Metrics: dto.ToCourseDailyMetricsDTO(m), Created: true}, nil
}

type GetOrCreateCourseDailyMetricsUseCase struct {
	repo   metrics.CourseDailyMetricsRepository
	logger logger.Interface
}

func NewGetOrCreateCourseDailyMetricsUseCase(
	repo metrics.CourseDailyMetricsRepository,
	logger logger.Interface,
) *GetOrCreateCourseDailyMetricsUseCase {
	return &GetOrCreateCourseDailyMetricsUseCase{
		repo:   repo,
		logger: logger,
	}
}

func (uc *GetOrCreateCourseDailyMetricsUseCase) Execute(ctx context.Context, cmd CourseDailyMetricsCommand) (*CourseDailyMetricsResult, error) {
	if err := validateCourseID(cmd.CourseID, false); err != nil {
		return nil, err
	}

	m, created, err := uc.repo.GetOrCreate(ctx, cmd.SiteID, cmd.CourseID, cmd.DateFor, cmd.Counts)
	if err != nil {
		uc.logger.Errorw("failed to get or create course daily metrics",
			"site_id", cmd.SiteID, "course_id", cmd.CourseID, "date_for", cmd.DateFor, "error", err)
		return nil, toAppError(err, "failed to get or create course daily metrics")
	}

	if !created && cmd.Force {
		if err := m.ReplaceCounts(cmd.Counts); err != nil {
			return nil, toAppError(err, "invalid course daily metrics")
		}
		if err := uc.repo.Update(ctx, m); err != nil {
			uc.logger.Errorw("failed to update course daily metrics", "id", m.ID(), "error", err)
			return nil, toAppError(err, "failed to update course daily metrics")
		}
		uc.logger.Infow("course daily metrics replaced", "id", m.ID(), "course_id", cmd.CourseID, "date_for", m.DateFor())
	}

	return &CourseDailyMetricsResult{Metrics: dto.ToCourseDailyMetricsDTO(m), Created: created}, nil
}
