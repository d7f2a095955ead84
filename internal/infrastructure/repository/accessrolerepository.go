package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/figures-analytics/figures/internal/domain/platform"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/mappers"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/models"
	"github.com/figures-analytics/figures/internal/shared/logger"
)

type AccessRoleRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewAccessRoleRepository(db *gorm.DB, logger logger.Interface) platform.AccessRoleRepository {
	return &AccessRoleRepositoryImpl{db: db, logger: logger}
}

func (r *AccessRoleRepositoryImpl) ListForCourse(ctx context.Context, courseID string) ([]*platform.CourseAccessRole, error) {
	byCourse, err := r.ListForCourses(ctx, []string{courseID})
	if err != nil {
		return nil, err
	}
	return byCourse[courseID], nil
}

// ListForCourses groups access roles by course id. Courses without roles are absent.
func (r *AccessRoleRepositoryImpl) ListForCourses(ctx context.Context, courseIDs []string) (map[string][]*platform.CourseAccessRole, error) {
	result := make(map[string][]*platform.CourseAccessRole)
	if len(courseIDs) == 0 {
		return result, nil
	}

	var modelList []*models.CourseAccessRoleModel
	if err := r.db.WithContext(ctx).
		Preload("User.Profile").
		Where("course_id IN ?", courseIDs).
		Order("id ASC").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list course access roles", "courses", len(courseIDs), "error", err)
		return nil, fmt.Errorf("failed to list course access roles: %w", err)
	}

	for _, model := range modelList {
		result[model.CourseID] = append(result[model.CourseID], mappers.AccessRoleToEntity(model))
	}
	return result, nil
}
