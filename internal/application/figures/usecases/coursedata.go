package usecases

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/figures-analytics/figures/internal/application/figures/dto"
	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/domain/platform"
	"github.com/figures-analytics/figures/internal/shared/errors"
	"github.com/figures-analytics/figures/internal/shared/logger"
	"github.com/figures-analytics/figures/internal/shared/query"
)

// SearchQuery is the dashboard list contract: free text search, an ordering
// field with optional "-" prefix, and a limit/offset window.
type SearchQuery struct {
	Site     *platform.Site `form:"-"`
	Search   string         `form:"search" validate:"max=255"`
	Ordering string         `form:"ordering" validate:"max=64"`
	PageQuery
}

func (q SearchQuery) listFilter() query.ListFilter {
	return query.NewListFilter(
		query.WithPage(q.Limit, q.Offset),
		query.WithSearch(q.Search),
		query.WithOrdering(q.Ordering),
	)
}

type CourseQuery struct {
	Site     *platform.Site `form:"-"`
	CourseID string
}

type ListGeneralCourseDataUseCase struct {
	courseRepo platform.CourseRepository
	roleRepo   platform.AccessRoleRepository
	latest     *LatestMetricsReader
	logger     logger.Interface
}

func NewListGeneralCourseDataUseCase(
	courseRepo platform.CourseRepository,
	roleRepo platform.AccessRoleRepository,
	latest *LatestMetricsReader,
	logger logger.Interface,
) *ListGeneralCourseDataUseCase {
	return &ListGeneralCourseDataUseCase{
		courseRepo: courseRepo,
		roleRepo:   roleRepo,
		latest:     latest,
		logger:     logger,
	}
}

func (uc *ListGeneralCourseDataUseCase) Execute(ctx context.Context, q SearchQuery) (*Page[*dto.GeneralCourseDataDTO], error) {
	if err := requireSite(q.Site); err != nil {
		return nil, err
	}
	if err := validate(q); err != nil {
		return nil, err
	}

	courses, total, err := uc.courseRepo.List(ctx, platform.CourseFilter{ListFilter: q.listFilter(), SiteID: q.Site.ID})
	if err != nil {
		uc.logger.Errorw("failed to list courses", "site_id", q.Site.ID, "error", err)
		return nil, errors.NewInternalError("failed to list courses")
	}

	courseIDs := make([]string, 0, len(courses))
	for _, c := range courses {
		courseIDs = append(courseIDs, c.ID)
	}

	var (
		roles  map[string][]*platform.CourseAccessRole
		latest map[string]*metrics.CourseDailyMetrics
	)
	if len(courseIDs) > 0 {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			roles, err = uc.roleRepo.ListForCourses(gctx, courseIDs)
			return err
		})
		g.Go(func() error {
			var err error
			latest, err = uc.latest.Courses(gctx, q.Site.ID, courseIDs)
			return err
		})
		if err := g.Wait(); err != nil {
			uc.logger.Errorw("failed to load course staff and metrics", "site_id", q.Site.ID, "error", err)
			return nil, errors.NewInternalError("failed to load course data")
		}
	}

	results := make([]*dto.GeneralCourseDataDTO, 0, len(courses))
	for _, c := range courses {
		results = append(results, dto.ToGeneralCourseDataDTO(c, roles[c.ID], latest[c.ID]))
	}
	return &Page[*dto.GeneralCourseDataDTO]{Results: results, Count: total}, nil
}

// courseWithStaff loads a course of the site together with its staff roles
// and latest daily record.
func courseWithStaff(
	ctx context.Context,
	courseRepo platform.CourseRepository,
	roleRepo platform.AccessRoleRepository,
	latest *LatestMetricsReader,
	q CourseQuery,
) (*platform.CourseOverview, []*platform.CourseAccessRole, *metrics.CourseDailyMetrics, error) {
	if err := requireSite(q.Site); err != nil {
		return nil, nil, nil, err
	}
	if err := validateCourseID(q.CourseID, false); err != nil {
		return nil, nil, nil, err
	}

	course, err := courseRepo.GetByID(ctx, q.Site.ID, q.CourseID)
	if err != nil {
		return nil, nil, nil, errors.NewInternalError("failed to get course")
	}
	if course == nil {
		return nil, nil, nil, errors.NewNotFoundError(platform.ErrCourseNotFound.Error(), q.CourseID)
	}

	var (
		roles  []*platform.CourseAccessRole
		record *metrics.CourseDailyMetrics
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		roles, err = roleRepo.ListForCourse(gctx, course.ID)
		return err
	})
	g.Go(func() error {
		var err error
		record, err = latest.Course(gctx, q.Site.ID, course.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, nil, errors.NewInternalError("failed to load course data", err.Error())
	}
	return course, roles, record, nil
}

type GetGeneralCourseDataUseCase struct {
	courseRepo platform.CourseRepository
	roleRepo   platform.AccessRoleRepository
	latest     *LatestMetricsReader
	logger     logger.Interface
}

func NewGetGeneralCourseDataUseCase(
	courseRepo platform.CourseRepository,
	roleRepo platform.AccessRoleRepository,
	latest *LatestMetricsReader,
	logger logger.Interface,
) *GetGeneralCourseDataUseCase {
	return &GetGeneralCourseDataUseCase{
		courseRepo: courseRepo,
		roleRepo:   roleRepo,
		latest:     latest,
		logger:     logger,
	}
}

func (uc *GetGeneralCourseDataUseCase) Execute(ctx context.Context, q CourseQuery) (*dto.GeneralCourseDataDTO, error) {
	course, roles, latest, err := courseWithStaff(ctx, uc.courseRepo, uc.roleRepo, uc.latest, q)
	if err != nil {
		uc.logger.Warnw("failed to get general course data", "course_id", q.CourseID, "error", err)
		return nil, err
	}
	return dto.ToGeneralCourseDataDTO(course, roles, latest), nil
}

type GetCourseDetailsUseCase struct {
	courseRepo platform.CourseRepository
	roleRepo   platform.AccessRoleRepository
	latest     *LatestMetricsReader
	logger     logger.Interface
}

func NewGetCourseDetailsUseCase(
	courseRepo platform.CourseRepository,
	roleRepo platform.AccessRoleRepository,
	latest *LatestMetricsReader,
	logger logger.Interface,
) *GetCourseDetailsUseCase {
	return &GetCourseDetailsUseCase{
		courseRepo: courseRepo,
		roleRepo:   roleRepo,
		latest:     latest,
		logger:     logger,
	}
}

// Execute renders the detail view. Numbers come from the latest daily record
// and are zero when the course has none.
func (uc *GetCourseDetailsUseCase) Execute(ctx context.Context, q CourseQuery) (*dto.CourseDetailsDTO, error) {
	course, roles, latest, err := courseWithStaff(ctx, uc.courseRepo, uc.roleRepo, uc.latest, q)
	if err != nil {
		uc.logger.Warnw("failed to get course details", "course_id", q.CourseID, "error", err)
		return nil, err
	}
	return dto.ToCourseDetailsDTO(course, roles, latest), nil
}
