package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/mappers"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/models"
	"github.com/figures-analytics/figures/internal/shared/constants"
	"github.com/figures-analytics/figures/internal/shared/db"
	"github.com/figures-analytics/figures/internal/shared/errors"
	"github.com/figures-analytics/figures/internal/shared/logger"
)

type LearnerGradeRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.LearnerGradeMetricsMapper
	logger logger.Interface
}

func NewLearnerGradeRepository(db *gorm.DB, logger logger.Interface) metrics.LearnerGradeRepository {
	return &LearnerGradeRepositoryImpl{
		db:     db,
		mapper: mappers.NewLearnerGradeMetricsMapper(),
		logger: logger,
	}
}

func (r *LearnerGradeRepositoryImpl) GetOrCreate(
	ctx context.Context,
	siteID, userID uint,
	courseID string,
	dateFor time.Time,
	defaults metrics.GradeCounts,
) (*metrics.LearnerCourseGradeMetrics, bool, error) {
	courseID = courseKey(courseID)
	existing, err := r.getByKey(ctx, siteID, userID, courseID, dateFor)
	if err != nil || existing != nil {
		return existing, false, err
	}

	m, err := metrics.NewLearnerCourseGradeMetrics(siteID, userID, courseID, dateFor, defaults)
	if err != nil {
		return nil, false, err
	}
	model := r.mapper.ToModel(m)
	inserted, err := insertIfAbsent(db.GetTxFromContext(ctx, r.db), model)
	if err != nil {
		r.logger.Errorw("failed to create learner grade metrics",
			"user_id", userID,
			"course_id", courseID,
			"error", err,
		)
		return nil, false, fmt.Errorf("failed to create learner grade metrics: %w", err)
	}
	if !inserted {
		existing, err := r.getByKey(ctx, siteID, userID, courseID, dateFor)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, metrics.DuplicateCourseRecord(constants.TableLearnerCourseGradeMetrics, siteID, courseID, dateFor)
		}
		return existing, false, nil
	}
	m.SetID(model.ID)
	return m, true, nil
}

func (r *LearnerGradeRepositoryImpl) getByKey(ctx context.Context, siteID, userID uint, courseID string, dateFor time.Time) (*metrics.LearnerCourseGradeMetrics, error) {
	var model models.LearnerCourseGradeMetricsModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("site_id = ? AND user_id = ? AND course_id = ? AND date_for = ?", siteID, userID, courseKey(courseID), dateKey(dateFor)).
		First(&model).Error
	if err != nil {
		if errors.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get learner grade metrics: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *LearnerGradeRepositoryImpl) Latest(ctx context.Context, siteID, userID uint, courseID string) (*metrics.LearnerCourseGradeMetrics, error) {
	var model models.LearnerCourseGradeMetricsModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("site_id = ? AND user_id = ? AND course_id = ?", siteID, userID, courseKey(courseID)).
		Order("date_for DESC").
		First(&model).Error
	if err != nil {
		if errors.IsRecordNotFound(err) {
			return nil, nil
		}
		r.logger.Errorw("failed to get latest learner grade metrics", "user_id", userID, "course_id", courseID, "error", err)
		return nil, fmt.Errorf("failed to get latest learner grade metrics: %w", err)
	}
	return r.mapper.ToEntity(&model)
}

func (r *LearnerGradeRepositoryImpl) History(ctx context.Context, siteID, userID uint, courseID string) ([]*metrics.LearnerCourseGradeMetrics, error) {
	var modelList []*models.LearnerCourseGradeMetricsModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("site_id = ? AND user_id = ? AND course_id = ?", siteID, userID, courseKey(courseID)).
		Order("date_for ASC").
		Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to get learner grade history: %w", err)
	}
	return r.mapper.ToEntities(modelList)
}

func (r *LearnerGradeRepositoryImpl) LatestForCourse(ctx context.Context, siteID uint, courseID string, asOf time.Time) ([]*metrics.LearnerCourseGradeMetrics, error) {
	courseID = courseKey(courseID)
	tx := db.GetTxFromContext(ctx, r.db)
	latest := tx.Model(&models.LearnerCourseGradeMetricsModel{}).
		Select("user_id, MAX(date_for) AS max_date").
		Where("site_id = ? AND course_id = ? AND date_for <= ?", siteID, courseID, dateKey(asOf)).
		Group("user_id")

	var modelList []*models.LearnerCourseGradeMetricsModel
	err := tx.Table(constants.TableLearnerCourseGradeMetrics+" AS g").
		Select("g.*").
		Joins("JOIN (?) AS latest ON latest.user_id = g.user_id AND latest.max_date = g.date_for", latest).
		Where("g.site_id = ? AND g.course_id = ?", siteID, courseID).
		Order("g.user_id ASC").
		Find(&modelList).Error
	if err != nil {
		r.logger.Errorw("failed to get latest learner grades for course", "course_id", courseID, "error", err)
		return nil, fmt.Errorf("failed to get latest learner grades: %w", err)
	}
	return r.mapper.ToEntities(modelList)
}
