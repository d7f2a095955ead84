package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/figures-analytics/figures/internal/domain/platform"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/mappers"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/models"
	"github.com/figures-analytics/figures/internal/shared/db"
	"github.com/figures-analytics/figures/internal/shared/errors"
	"github.com/figures-analytics/figures/internal/shared/logger"
	"github.com/figures-analytics/figures/internal/shared/mapper"
)

var courseOrdering = map[string]string{
	"course_id":   "id",
	"course_name": "display_name",
	"course_code": "display_number_with_default",
	"org":         "display_org_with_default",
	"start_date":  "start",
	"self_paced":  "self_paced",
}

type CourseRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewCourseRepository(db *gorm.DB, logger logger.Interface) platform.CourseRepository {
	return &CourseRepositoryImpl{db: db, logger: logger}
}

func (r *CourseRepositoryImpl) GetByID(ctx context.Context, siteID uint, courseID string) (*platform.CourseOverview, error) {
	var model models.CourseOverviewModel
	err := r.db.WithContext(ctx).Where("site_id = ? AND id = ?", siteID, courseID).First(&model).Error
	if err != nil {
		if errors.IsRecordNotFound(err) {
			return nil, nil
		}
		r.logger.Errorw("failed to get course", "course_id", courseID, "error", err)
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return mappers.CourseToEntity(&model), nil
}

func (r *CourseRepositoryImpl) List(ctx context.Context, filter platform.CourseFilter) ([]*platform.CourseOverview, int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.CourseOverviewModel{}).
		Where("site_id = ?", filter.SiteID).
		Scopes(db.Search(filter.Search, "id", "display_name", "display_number_with_default", "display_org_with_default"))

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count courses", "site_id", filter.SiteID, "error", err)
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}

	var modelList []*models.CourseOverviewModel
	if err := tx.Scopes(
		db.OrderBy(filter.Ordering, "course_name", courseOrdering, "id"),
		db.Paginate(filter.Limit, filter.Offset),
	).Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list courses", "site_id", filter.SiteID, "error", err)
		return nil, 0, fmt.Errorf("failed to list courses: %w", err)
	}

	return mapper.MapSlice(modelList, mappers.CourseToEntity), total, nil
}

func (r *CourseRepositoryImpl) ListIDs(ctx context.Context, siteID uint) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.CourseOverviewModel{}).
		Where("site_id = ?", siteID).
		Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list course ids: %w", err)
	}
	return ids, nil
}

func (r *CourseRepositoryImpl) Count(ctx context.Context, siteID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.CourseOverviewModel{}).
		Where("site_id = ?", siteID).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return count, nil
}
