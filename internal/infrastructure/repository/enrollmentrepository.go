package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/figures-analytics/figures/internal/domain/platform"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/mappers"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/models"
	"github.com/figures-analytics/figures/internal/shared/constants"
	"github.com/figures-analytics/figures/internal/shared/db"
	"github.com/figures-analytics/figures/internal/shared/logger"
	"github.com/figures-analytics/figures/internal/shared/mapper"
	"github.com/figures-analytics/figures/internal/shared/query"
)

const enrollmentSiteJoin = "JOIN " + constants.TableCourseOverviews + " ON " +
	constants.TableCourseOverviews + ".id = " + constants.TableCourseEnrollments + ".course_id"

type EnrollmentRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewEnrollmentRepository(db *gorm.DB, logger logger.Interface) platform.EnrollmentRepository {
	return &EnrollmentRepositoryImpl{db: db, logger: logger}
}

func (r *EnrollmentRepositoryImpl) siteScoped(ctx context.Context, siteID uint) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.CourseEnrollmentModel{}).
		Joins(enrollmentSiteJoin).
		Where(constants.TableCourseOverviews+".site_id = ?", siteID)
}

func (r *EnrollmentRepositoryImpl) ListForCourse(ctx context.Context, siteID uint, courseID string, page query.PageFilter) ([]*platform.CourseEnrollment, int64, error) {
	tx := r.siteScoped(ctx, siteID)
	if courseID != "" {
		tx = tx.Where(constants.TableCourseEnrollments+".course_id = ?", courseID)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count enrollments", "site_id", siteID, "course_id", courseID, "error", err)
		return nil, 0, fmt.Errorf("failed to count enrollments: %w", err)
	}

	var modelList []*models.CourseEnrollmentModel
	if err := tx.Select(constants.TableCourseEnrollments + ".*").
		Preload("User.Profile").
		Order(constants.TableCourseEnrollments + ".id ASC").
		Scopes(db.Paginate(page.Limit, page.Offset)).
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list enrollments", "site_id", siteID, "course_id", courseID, "error", err)
		return nil, 0, fmt.Errorf("failed to list enrollments: %w", err)
	}
	return mapper.MapSlice(modelList, mappers.EnrollmentToEntity), total, nil
}

func (r *EnrollmentRepositoryImpl) ListForUser(ctx context.Context, siteID, userID uint) ([]*platform.CourseEnrollment, error) {
	var modelList []*models.CourseEnrollmentModel
	if err := r.siteScoped(ctx, siteID).
		Select(constants.TableCourseEnrollments+".*").
		Preload("Course").
		Where(constants.TableCourseEnrollments+".user_id = ?", userID).
		Order(constants.TableCourseEnrollments + ".created ASC").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list user enrollments", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list user enrollments: %w", err)
	}
	return mapper.MapSlice(modelList, mappers.EnrollmentToEntity), nil
}

func (r *EnrollmentRepositoryImpl) CountActiveForCourse(ctx context.Context, courseID string, end time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CourseEnrollmentModel{}).
		Where("course_id = ? AND is_active = ? AND created < ?", courseID, true, end).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count course enrollments: %w", err)
	}
	return count, nil
}

func (r *EnrollmentRepositoryImpl) ActiveForCourse(ctx context.Context, courseID string, end time.Time) ([]*platform.CourseEnrollment, error) {
	var modelList []*models.CourseEnrollmentModel
	if err := r.db.WithContext(ctx).
		Where("course_id = ? AND is_active = ? AND created < ?", courseID, true, end).
		Order("id ASC").
		Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list course enrollments: %w", err)
	}
	return mapper.MapSlice(modelList, mappers.EnrollmentToEntity), nil
}
