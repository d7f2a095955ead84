package usecases

import (
	"context"

	"github.com/figures-analytics/figures/internal/application/figures/dto"
	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/domain/platform"
	"github.com/figures-analytics/figures/internal/shared/biztime"
	"github.com/figures-analytics/figures/internal/shared/errors"
	"github.com/figures-analytics/figures/internal/shared/logger"
)

type ListMauMetricsQuery struct {
	Site     *platform.Site `form:"-"`
	CourseID string         `form:"course_id"`
	DateRangeQuery
	PageQuery
}

func (q ListMauMetricsQuery) filter() (metrics.MauMetricsFilter, error) {
	if err := requireSite(q.Site); err != nil {
		return metrics.MauMetricsFilter{}, err
	}
	if err := validate(q); err != nil {
		return metrics.MauMetricsFilter{}, err
	}
	if err := validateCourseID(q.CourseID, true); err != nil {
		return metrics.MauMetricsFilter{}, err
	}
	dates, err := q.DateRangeQuery.filter()
	if err != nil {
		return metrics.MauMetricsFilter{}, err
	}
	return metrics.MauMetricsFilter{
		SiteID:   q.Site.ID,
		CourseID: q.CourseID,
		Dates:    dates,
		Page:     q.PageQuery.filter(),
	}, nil
}

type ListSiteMauMetricsUseCase struct {
	repo   metrics.MauMetricsRepository
	logger logger.Interface
}

func NewListSiteMauMetricsUseCase(repo metrics.MauMetricsRepository, logger logger.Interface) *ListSiteMauMetricsUseCase {
	return &ListSiteMauMetricsUseCase{repo: repo, logger: logger}
}

func (uc *ListSiteMauMetricsUseCase) Execute(ctx context.Context, q ListMauMetricsQuery) (*Page[*dto.SiteMauMetricsDTO], error) {
	filter, err := q.filter()
	if err != nil {
		return nil, err
	}
	filter.CourseID = ""

	items, total, err := uc.repo.ListSite(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list site mau metrics", "site_id", filter.SiteID, "error", err)
		return nil, errors.NewInternalError("failed to list site mau metrics")
	}

	results := make([]*dto.SiteMauMetricsDTO, 0, len(items))
	for _, m := range items {
		results = append(results, dto.ToSiteMauMetricsDTO(m, q.Site.Domain))
	}
	return &Page[*dto.SiteMauMetricsDTO]{Results: results, Count: total}, nil
}

type ListCourseMauMetricsUseCase struct {
	repo   metrics.MauMetricsRepository
	logger logger.Interface
}

func NewListCourseMauMetricsUseCase(repo metrics.MauMetricsRepository, logger logger.Interface) *ListCourseMauMetricsUseCase {
	return &ListCourseMauMetricsUseCase{repo: repo, logger: logger}
}

func (uc *ListCourseMauMetricsUseCase) Execute(ctx context.Context, q ListMauMetricsQuery) (*Page[*dto.CourseMauMetricsDTO], error) {
	filter, err := q.filter()
	if err != nil {
		return nil, err
	}

	items, total, err := uc.repo.ListCourse(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list course mau metrics", "site_id", filter.SiteID, "course_id", filter.CourseID, "error", err)
		return nil, errors.NewInternalError("failed to list course mau metrics")
	}

	results := make([]*dto.CourseMauMetricsDTO, 0, len(items))
	for _, m := range items {
		results = append(results, dto.ToCourseMauMetricsDTO(m, q.Site.Domain))
	}
	return &Page[*dto.CourseMauMetricsDTO]{Results: results, Count: total}, nil
}

// MauLiveQuery asks for the month-to-date active learners up to MonthFor,
// which defaults to today.
type MauLiveQuery struct {
	Site     *platform.Site `form:"-"`
	CourseID string         `form:"course_id"`
	MonthFor string         `form:"month_for" validate:"omitempty,datefor"`
}

type GetSiteMauLiveMetricsUseCase struct {
	activityRepo platform.ActivityRepository
	logger       logger.Interface
}

func NewGetSiteMauLiveMetricsUseCase(activityRepo platform.ActivityRepository, logger logger.Interface) *GetSiteMauLiveMetricsUseCase {
	return &GetSiteMauLiveMetricsUseCase{activityRepo: activityRepo, logger: logger}
}

func (uc *GetSiteMauLiveMetricsUseCase) Execute(ctx context.Context, q MauLiveQuery) (*dto.SiteMauLiveMetricsDTO, error) {
	if err := requireSite(q.Site); err != nil {
		return nil, err
	}
	if err := validate(q); err != nil {
		return nil, err
	}
	monthFor, err := parseOptionalDate(q.MonthFor, biztime.Today())
	if err != nil {
		return nil, err
	}

	from, to := biztime.MonthToDateBoundsUTC(monthFor)
	count, err := uc.activityRepo.CountActiveUsers(ctx, q.Site.ID, from, to, "")
	if err != nil {
		uc.logger.Errorw("failed to count site active users", "site_id", q.Site.ID, "error", err)
		return nil, errors.NewInternalError("failed to count active users")
	}
	return dto.NewSiteMauLiveMetricsDTO(monthFor, count, q.Site.Domain), nil
}

type GetCourseMauLiveMetricsUseCase struct {
	activityRepo platform.ActivityRepository
	courseRepo   platform.CourseRepository
	logger       logger.Interface
}

func NewGetCourseMauLiveMetricsUseCase(
	activityRepo platform.ActivityRepository,
	courseRepo platform.CourseRepository,
	logger logger.Interface,
) *GetCourseMauLiveMetricsUseCase {
	return &GetCourseMauLiveMetricsUseCase{activityRepo: activityRepo, courseRepo: courseRepo, logger: logger}
}

func (uc *GetCourseMauLiveMetricsUseCase) Execute(ctx context.Context, q MauLiveQuery) (*dto.CourseMauLiveMetricsDTO, error) {
	if err := requireSite(q.Site); err != nil {
		return nil, err
	}
	if err := validate(q); err != nil {
		return nil, err
	}
	if err := validateCourseID(q.CourseID, false); err != nil {
		return nil, err
	}
	monthFor, err := parseOptionalDate(q.MonthFor, biztime.Today())
	if err != nil {
		return nil, err
	}

	course, err := uc.courseRepo.GetByID(ctx, q.Site.ID, q.CourseID)
	if err != nil {
		uc.logger.Errorw("failed to get course", "course_id", q.CourseID, "error", err)
		return nil, errors.NewInternalError("failed to get course")
	}
	if course == nil {
		return nil, errors.NewNotFoundError(platform.ErrCourseNotFound.Error(), q.CourseID)
	}

	from, to := biztime.MonthToDateBoundsUTC(monthFor)
	count, err := uc.activityRepo.CountActiveUsers(ctx, q.Site.ID, from, to, q.CourseID)
	if err != nil {
		uc.logger.Errorw("failed to count course active users", "course_id", q.CourseID, "error", err)
		return nil, errors.NewInternalError("failed to count active users")
	}
	return dto.NewCourseMauLiveMetricsDTO(monthFor, count, q.CourseID, q.Site.Domain), nil
}
