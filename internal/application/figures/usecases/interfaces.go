package usecases

import (
	"context"

	"github.com/figures-analytics/figures/internal/application/figures/dto"
)

type ListSiteDailyMetricsExecutor interface {
	Execute(ctx context.Context, q ListSiteDailyMetricsQuery) (*Page[*dto.SiteDailyMetricsDTO], error)
}

type GetSiteDailyMetricsExecutor interface {
	Execute(ctx context.Context, q GetSiteDailyMetricsQuery) (*dto.SiteDailyMetricsDTO, error)
}

type ListCourseDailyMetricsExecutor interface {
	Execute(ctx context.Context, q ListCourseDailyMetricsQuery) (*Page[*dto.CourseDailyMetricsDTO], error)
}

type GetCourseDailyMetricsExecutor interface {
	Execute(ctx context.Context, q GetCourseDailyMetricsQuery) (*dto.CourseDailyMetricsDTO, error)
}

type ListSiteMauMetricsExecutor interface {
	Execute(ctx context.Context, q ListMauMetricsQuery) (*Page[*dto.SiteMauMetricsDTO], error)
}

type ListCourseMauMetricsExecutor interface {
	Execute(ctx context.Context, q ListMauMetricsQuery) (*Page[*dto.CourseMauMetricsDTO], error)
}

type GetSiteMauLiveMetricsExecutor interface {
	Execute(ctx context.Context, q MauLiveQuery) (*dto.SiteMauLiveMetricsDTO, error)
}

type GetCourseMauLiveMetricsExecutor interface {
	Execute(ctx context.Context, q MauLiveQuery) (*dto.CourseMauLiveMetricsDTO, error)
}

type ListGeneralCourseDataExecutor interface {
	Execute(ctx context.Context, q SearchQuery) (*Page[*dto.GeneralCourseDataDTO], error)
}

type GetGeneralCourseDataExecutor interface {
	Execute(ctx context.Context, q CourseQuery) (*dto.GeneralCourseDataDTO, error)
}

type GetCourseDetailsExecutor interface {
	Execute(ctx context.Context, q CourseQuery) (*dto.CourseDetailsDTO, error)
}

type ListUserIndexExecutor interface {
	Execute(ctx context.Context, q SearchQuery) (*Page[*dto.UserIndexDTO], error)
}

type ListGeneralUserDataExecutor interface {
	Execute(ctx context.Context, q SearchQuery) (*Page[*dto.GeneralUserDataDTO], error)
}

type GetLearnerDetailsExecutor interface {
	Execute(ctx context.Context, q LearnerQuery) (*dto.LearnerDetailsDTO, error)
}

type ListCourseEnrollmentsExecutor interface {
	Execute(ctx context.Context, q ListCourseEnrollmentsQuery) (*Page[*dto.CourseEnrollmentDTO], error)
}
