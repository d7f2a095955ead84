package usecases

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/figures-analytics/figures/internal/application/figures/dto"
	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/domain/platform"
	"github.com/figures-analytics/figures/internal/shared/errors"
	"github.com/figures-analytics/figures/internal/shared/logger"
)

// userFanout bounds the concurrent per-user lookups of a list page.
const userFanout = 8

type ListUserIndexUseCase struct {
	userRepo platform.UserRepository
	logger   logger.Interface
}

func NewListUserIndexUseCase(userRepo platform.UserRepository, logger logger.Interface) *ListUserIndexUseCase {
	return &ListUserIndexUseCase{userRepo: userRepo, logger: logger}
}

func (uc *ListUserIndexUseCase) Execute(ctx context.Context, q SearchQuery) (*Page[*dto.UserIndexDTO], error) {
	if err := requireSite(q.Site); err != nil {
		return nil, err
	}
	if err := validate(q); err != nil {
		return nil, err
	}

	users, total, err := uc.userRepo.List(ctx, platform.UserFilter{ListFilter: q.listFilter(), SiteID: q.Site.ID})
	if err != nil {
		uc.logger.Errorw("failed to list users", "site_id", q.Site.ID, "error", err)
		return nil, errors.NewInternalError("failed to list users")
	}
	return &Page[*dto.UserIndexDTO]{Results: dto.ToUserIndexDTOList(users), Count: total}, nil
}

type ListGeneralUserDataUseCase struct {
	userRepo       platform.UserRepository
	enrollmentRepo platform.EnrollmentRepository
	logger         logger.Interface
}

func NewListGeneralUserDataUseCase(
	userRepo platform.UserRepository,
	enrollmentRepo platform.EnrollmentRepository,
	logger logger.Interface,
) *ListGeneralUserDataUseCase {
	return &ListGeneralUserDataUseCase{userRepo: userRepo, enrollmentRepo: enrollmentRepo, logger: logger}
}

func (uc *ListGeneralUserDataUseCase) Execute(ctx context.Context, q SearchQuery) (*Page[*dto.GeneralUserDataDTO], error) {
	if err := requireSite(q.Site); err != nil {
		return nil, err
	}
	if err := validate(q); err != nil {
		return nil, err
	}

	users, total, err := uc.userRepo.List(ctx, platform.UserFilter{ListFilter: q.listFilter(), SiteID: q.Site.ID})
	if err != nil {
		uc.logger.Errorw("failed to list users", "site_id", q.Site.ID, "error", err)
		return nil, errors.NewInternalError("failed to list users")
	}

	results := make([]*dto.GeneralUserDataDTO, len(users))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(userFanout)
	for i, u := range users {
		g.Go(func() error {
			enrollments, err := uc.enrollmentRepo.ListForUser(gctx, q.Site.ID, u.ID)
			if err != nil {
				return err
			}
			results[i] = dto.ToGeneralUserDataDTO(u, enrollments)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		uc.logger.Errorw("failed to load user enrollments", "site_id", q.Site.ID, "error", err)
		return nil, errors.NewInternalError("failed to load user enrollments")
	}

	return &Page[*dto.GeneralUserDataDTO]{Results: results, Count: total}, nil
}

type LearnerQuery struct {
	Site   *platform.Site
	UserID uint
}

type GetLearnerDetailsUseCase struct {
	userRepo        platform.UserRepository
	enrollmentRepo  platform.EnrollmentRepository
	certificateRepo platform.CertificateRepository
	gradeRepo       metrics.LearnerGradeRepository
	profileImageURL string
	logger          logger.Interface
}

func NewGetLearnerDetailsUseCase(
	userRepo platform.UserRepository,
	enrollmentRepo platform.EnrollmentRepository,
	certificateRepo platform.CertificateRepository,
	gradeRepo metrics.LearnerGradeRepository,
	profileImageURL string,
	logger logger.Interface,
) *GetLearnerDetailsUseCase {
	return &GetLearnerDetailsUseCase{
		userRepo:        userRepo,
		enrollmentRepo:  enrollmentRepo,
		certificateRepo: certificateRepo,
		gradeRepo:       gradeRepo,
		profileImageURL: profileImageURL,
		logger:          logger,
	}
}

// Execute renders a learner with progress for each enrollment in the
// requesting site. Enrollments in other sites are never listed.
func (uc *GetLearnerDetailsUseCase) Execute(ctx context.Context, q LearnerQuery) (*dto.LearnerDetailsDTO, error) {
	if err := requireSite(q.Site); err != nil {
		return nil, err
	}

	u, err := uc.userRepo.GetByID(ctx, q.Site.ID, q.UserID)
	if err != nil {
		uc.logger.Errorw("failed to get learner", "user_id", q.UserID, "error", err)
		return nil, errors.NewInternalError("failed to get learner")
	}
	if u == nil {
		return nil, errors.NewNotFoundError(platform.ErrUserNotFound.Error())
	}

	enrollments, err := uc.enrollmentRepo.ListForUser(ctx, q.Site.ID, u.ID)
	if err != nil {
		uc.logger.Errorw("failed to list learner enrollments", "user_id", u.ID, "error", err)
		return nil, errors.NewInternalError("failed to list learner enrollments")
	}

	courses := make([]*dto.LearnerCourseDetailsDTO, 0, len(enrollments))
	for _, e := range enrollments {
		progress, err := uc.progress(ctx, q.Site.ID, e)
		if err != nil {
			uc.logger.Errorw("failed to load learner progress", "user_id", u.ID, "course_id", e.CourseID, "error", err)
			return nil, errors.NewInternalError("failed to load learner progress")
		}
		courses = append(courses, dto.ToLearnerCourseDetailsDTO(e, progress))
	}

	return dto.ToLearnerDetailsDTO(u, courses, uc.profileImageURL), nil
}

func (uc *GetLearnerDetailsUseCase) progress(ctx context.Context, siteID uint, e *platform.CourseEnrollment) (*dto.ProgressDataDTO, error) {
	cert, err := uc.certificateRepo.GetForEnrollment(ctx, e.UserID, e.CourseID)
	if err != nil {
		return nil, err
	}
	if cert != nil && cert.Status != platform.CertificateStatusDownloadable {
		cert = nil
	}

	history, err := uc.gradeRepo.History(ctx, siteID, e.UserID, e.CourseID)
	if err != nil {
		return nil, err
	}
	return dto.ToProgressDataDTO(cert, history), nil
}

type ListCourseEnrollmentsQuery struct {
	Site     *platform.Site `form:"-"`
	CourseID string         `form:"course_id"`
	PageQuery
}

type ListCourseEnrollmentsUseCase struct {
	enrollmentRepo platform.EnrollmentRepository
	logger         logger.Interface
}

func NewListCourseEnrollmentsUseCase(enrollmentRepo platform.EnrollmentRepository, logger logger.Interface) *ListCourseEnrollmentsUseCase {
	return &ListCourseEnrollmentsUseCase{enrollmentRepo: enrollmentRepo, logger: logger}
}

func (uc *ListCourseEnrollmentsUseCase) Execute(ctx context.Context, q ListCourseEnrollmentsQuery) (*Page[*dto.CourseEnrollmentDTO], error) {
	if err := requireSite(q.Site); err != nil {
		return nil, err
	}
	if err := validate(q); err != nil {
		return nil, err
	}
	if err := validateCourseID(q.CourseID, true); err != nil {
		return nil, err
	}

	enrollments, total, err := uc.enrollmentRepo.ListForCourse(ctx, q.Site.ID, q.CourseID, q.PageQuery.filter())
	if err != nil {
		uc.logger.Errorw("failed to list course enrollments", "site_id", q.Site.ID, "course_id", q.CourseID, "error", err)
		return nil, errors.NewInternalError("failed to list course enrollments")
	}
	return &Page[*dto.CourseEnrollmentDTO]{Results: dto.ToCourseEnrollmentDTOList(enrollments), Count: total}, nil
}
