package usecases

import (
	"context"

	"github.com/figures-analytics/figures/internal/application/figures/dto"
	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/domain/platform"
	"github.com/figures-analytics/figures/internal/shared/errors"
	"github.com/figures-analytics/figures/internal/shared/logger"
)

type ListSiteDailyMetricsQuery struct {
	Site *platform.Site `form:"-"`
	DateRangeQuery
	PageQuery
}

type ListSiteDailyMetricsUseCase struct {
	repo   metrics.SiteDailyMetricsRepository
	logger logger.Interface
}

func NewListSiteDailyMetricsUseCase(repo metrics.SiteDailyMetricsRepository, logger logger.Interface) *ListSiteDailyMetricsUseCase {
	return &ListSiteDailyMetricsUseCase{repo: repo, logger: logger}
}

// Execute lists the site's records, newest date first.
func (uc *ListSiteDailyMetricsUseCase) Execute(ctx context.Context, q ListSiteDailyMetricsQuery) (*Page[*dto.SiteDailyMetricsDTO], error) {
	if err := requireSite(q.Site); err != nil {
		return nil, err
	}
	if err := validate(q); err != nil {
		return nil, err
	}
	dates, err := q.DateRangeQuery.filter()
	if err != nil {
		return nil, err
	}

	items, total, err := uc.repo.List(ctx, metrics.SiteDailyMetricsFilter{
		SiteID: q.Site.ID,
		Dates:  dates,
		Page:   q.PageQuery.filter(),
	})
	if err != nil {
		uc.logger.Errorw("failed to list site daily metrics", "site_id", q.Site.ID, "error", err)
		return nil, errors.NewInternalError("failed to list site daily metrics")
	}

	return &Page[*dto.SiteDailyMetricsDTO]{Results: dto.ToSiteDailyMetricsDTOList(items), Count: total}, nil
}

type GetSiteDailyMetricsQuery struct {
	Site *platform.Site `form:"-"`
	ID   uint
}

type GetSiteDailyMetricsUseCase struct {
	repo   metrics.SiteDailyMetricsRepository
	logger logger.Interface
}

func NewGetSiteDailyMetricsUseCase(repo metrics.SiteDailyMetricsRepository, logger logger.Interface) *GetSiteDailyMetricsUseCase {
	return &GetSiteDailyMetricsUseCase{repo: repo, logger: logger}
}

func (uc *GetSiteDailyMetricsUseCase) Execute(ctx context.Context, q GetSiteDailyMetricsQuery) (*dto.SiteDailyMetricsDTO, error) {
	if err := requireSite(q.Site); err != nil {
		return nil, err
	}

	m, err := uc.repo.GetByID(ctx, q.Site.ID, q.ID)
	if err != nil {
		uc.logger.Errorw("failed to get site daily metrics", "id", q.ID, "error", err)
		return nil, errors.NewInternalError("failed to get site daily metrics")
	}
	if m == nil {
		return nil, errors.NewNotFoundError("site daily metrics not found")
	}
	return dto.ToSiteDailyMetricsDTO(m), nil
}

type ListCourseDailyMetricsQuery struct {
	Site     *platform.Site `form:"-"`
	CourseID string         `form:"course_id"`
	DateRangeQuery
	PageQuery
}

type ListCourseDailyMetricsUseCase struct {
	repo   metrics.CourseDailyMetricsRepository
	logger logger.Interface
}

func NewListCourseDailyMetricsUseCase(repo metrics.CourseDailyMetricsRepository, logger logger.Interface) *ListCourseDailyMetricsUseCase {
	return &ListCourseDailyMetricsUseCase{repo: repo, logger: logger}
}

// Execute lists course records of the site, optionally for one course.
func (uc *ListCourseDailyMetricsUseCase) Execute(ctx context.Context, q ListCourseDailyMetricsQuery) (*Page[*dto.CourseDailyMetricsDTO], error) {
	if err := requireSite(q.Site); err != nil {
		return nil, err
	}
	if err := validate(q); err != nil {
		return nil, err
	}
	if err := validateCourseID(q.CourseID, true); err != nil {
		return nil, err
	}
	dates, err := q.DateRangeQuery.filter()
	if err != nil {
		return nil, err
	}

	items, total, err := uc.repo.List(ctx, metrics.CourseDailyMetricsFilter{
		SiteID:   q.Site.ID,
		CourseID: q.CourseID,
		Dates:    dates,
		Page:     q.PageQuery.filter(),
	})
	if err != nil {
		uc.logger.Errorw("failed to list course daily metrics", "site_id", q.Site.ID, "course_id", q.CourseID, "error", err)
		return nil, errors.NewInternalError("failed to list course daily metrics")
	}

	return &Page[*dto.CourseDailyMetricsDTO]{Results: dto.ToCourseDailyMetricsDTOList(items), Count: total}, nil
}

type GetCourseDailyMetricsQuery struct {
	Site *platform.Site `form:"-"`
	ID   uint
}

type GetCourseDailyMetricsUseCase struct {
	repo   metrics.CourseDailyMetricsRepository
	logger logger.Interface
}

func NewGetCourseDailyMetricsUseCase(repo metrics.CourseDailyMetricsRepository, logger logger.Interface) *GetCourseDailyMetricsUseCase {
	return &GetCourseDailyMetricsUseCase{repo: repo, logger: logger}
}

func (uc *GetCourseDailyMetricsUseCase) Execute(ctx context.Context, q GetCourseDailyMetricsQuery) (*dto.CourseDailyMetricsDTO, error) {
	if err := requireSite(q.Site); err != nil {
		return nil, err
	}

	m, err := uc.repo.GetByID(ctx, q.Site.ID, q.ID)
	if err != nil {
		uc.logger.Errorw("failed to get course daily metrics", "id", q.ID, "error", err)
		return nil, errors.NewInternalError("failed to get course daily metrics")
	}
	if m == nil {
		return nil, errors.NewNotFoundError("course daily metrics not found")
	}
	return dto.ToCourseDailyMetricsDTO(m), nil
}
