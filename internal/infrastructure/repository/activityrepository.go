package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/figures-analytics/figures/internal/domain/platform"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/models"
	"github.com/figures-analytics/figures/internal/shared/constants"
	"github.com/figures-analytics/figures/internal/shared/db"
	"github.com/figures-analytics/figures/internal/shared/logger"
)

// ActivityRepositoryImpl counts learners from the courseware touch log.
type ActivityRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewActivityRepository(db *gorm.DB, logger logger.Interface) platform.ActivityRepository {
	return &ActivityRepositoryImpl{db: db, logger: logger}
}

func (r *ActivityRepositoryImpl) CountActiveUsers(ctx context.Context, siteID uint, from, to time.Time, courseID string) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.StudentModuleModel{}).
		Joins("JOIN "+constants.TableCourseOverviews+" ON "+constants.TableCourseOverviews+".id = "+constants.TableStudentModules+".course_id").
		Where(constants.TableCourseOverviews+".site_id = ?", siteID).
		Scopes(db.Window(constants.TableStudentModules+".modified", from, to))
	if courseID != "" {
		tx = tx.Where(constants.TableStudentModules+".course_id = ?", courseID)
	}

	var count int64
	if err := tx.Distinct(constants.TableStudentModules + ".student_id").Count(&count).Error; err != nil {
		r.logger.Errorw("failed to count active users",
			"site_id", siteID,
			"course_id", courseID,
			"from", from,
			"to", to,
			"error", err,
		)
		return 0, fmt.Errorf("failed to count active users: %w", err)
	}
	return count, nil
}
