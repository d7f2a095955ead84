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

// CourseDailyMetricsRepositoryImpl implements metrics.CourseDailyMetricsRepository.
type CourseDailyMetricsRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.CourseDailyMetricsMapper
	logger logger.Interface
}

func NewCourseDailyMetricsRepository(db *gorm.DB, logger logger.Interface) metrics.CourseDailyMetricsRepository {
	return &CourseDailyMetricsRepositoryImpl{
		db:     db,
		mapper: mappers.NewCourseDailyMetricsMapper(),
		logger: logger,
	}
}

func (r *CourseDailyMetricsRepositoryImpl) Create(ctx context.Context, m *metrics.CourseDailyMetrics) error {
	model, err := r.mapper.ToModel(m)
	if err != nil {
		return fmt.Errorf("failed to map course daily metrics entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return metrics.DuplicateCourseRecord(constants.TableCourseDailyMetrics, m.SiteID(), m.CourseID(), m.DateFor())
		}
		r.logger.Errorw("failed to create course daily metrics",
			"site_id", m.SiteID(),
			"course_id", m.CourseID(),
			"date_for", m.DateFor(),
			"error", err,
		)
		return fmt.Errorf("failed to create course daily metrics: %w", err)
	}

	if err := m.SetID(model.ID); err != nil {
		return err
	}
	r.logger.Debugw("course daily metrics created", "id", model.ID, "course_id", model.CourseID)
	return nil
}

func (r *CourseDailyMetricsRepositoryImpl) GetOrCreate(
	ctx context.Context,
	siteID uint,
	courseID string,
	dateFor time.Time,
	defaults metrics.CourseDailyCounts,
) (*metrics.CourseDailyMetrics, bool, error) {
	courseID = courseKey(courseID)
	existing, err := r.GetByKey(ctx, siteID, courseID, dateFor)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	m, err := metrics.NewCourseDailyMetrics(siteID, courseID, dateFor, defaults)
	if err != nil {
		return nil, false, err
	}
	model, err := r.mapper.ToModel(m)
	if err != nil {
		return nil, false, fmt.Errorf("failed to map course daily metrics entity: %w", err)
	}

	inserted, err := insertIfAbsent(db.GetTxFromContext(ctx, r.db), model)
	if err != nil {
		r.logger.Errorw("failed to create course daily metrics",
			"site_id", siteID,
			"course_id", courseID,
			"date_for", dateFor,
			"error", err,
		)
		return nil, false, fmt.Errorf("failed to create course daily metrics: %w", err)
	}
	if !inserted {
		// a concurrent writer won the insert
		existing, err := r.GetByKey(ctx, siteID, courseID, dateFor)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, metrics.DuplicateCourseRecord(constants.TableCourseDailyMetrics, siteID, courseID, dateFor)
		}
		return existing, false, nil
	}

	if err := m.SetID(model.ID); err != nil {
		return nil, false, err
	}
	return m, true, nil
}

func (r *CourseDailyMetricsRepositoryImpl) Update(ctx context.Context, m *metrics.CourseDailyMetrics) error {
	model, err := r.mapper.ToModel(m)
	if err != nil {
		return fmt.Errorf("failed to map course daily metrics entity: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).Model(&models.CourseDailyMetricsModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"enrollment_count":         model.EnrollmentCount,
			"active_learners_today":    model.ActiveLearnersToday,
			"average_progress":         model.AverageProgress,
			"average_days_to_complete": model.AverageDaysToComplete,
			"num_learners_completed":   model.NumLearnersCompleted,
			"modified":                 model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update course daily metrics", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update course daily metrics: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return metrics.ErrMetricsNotFound
	}
	return nil
}

func (r *CourseDailyMetricsRepositoryImpl) GetByID(ctx context.Context, siteID, id uint) (*metrics.CourseDailyMetrics, error) {
	var model models.CourseDailyMetricsModel
	err := db.GetTxFromContext(ctx, r.db).Where("site_id = ? AND id = ?", siteID, id).First(&model).Error
	return r.single(&model, err, "id", id)
}

func (r *CourseDailyMetricsRepositoryImpl) GetByKey(ctx context.Context, siteID uint, courseID string, dateFor time.Time) (*metrics.CourseDailyMetrics, error) {
	var model models.CourseDailyMetricsModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("site_id = ? AND course_id = ? AND date_for = ?", siteID, courseKey(courseID), dateKey(dateFor)).
		First(&model).Error
	return r.single(&model, err, "course_id", courseID)
}

// Latest returns the record with the greatest date_for for the course.
func (r *CourseDailyMetricsRepositoryImpl) Latest(ctx context.Context, siteID uint, courseID string) (*metrics.CourseDailyMetrics, error) {
	var model models.CourseDailyMetricsModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("site_id = ? AND course_id = ?", siteID, courseKey(courseID)).
		Order("date_for DESC").
		First(&model).Error
	return r.single(&model, err, "course_id", courseID)
}

func (r *CourseDailyMetricsRepositoryImpl) LatestForCourses(ctx context.Context, siteID uint, courseIDs []string) (map[string]*metrics.CourseDailyMetrics, error) {
	result := make(map[string]*metrics.CourseDailyMetrics, len(courseIDs))
	if len(courseIDs) == 0 {
		return result, nil
	}

	tx := db.GetTxFromContext(ctx, r.db)
	latest := tx.Model(&models.CourseDailyMetricsModel{}).
		Select("course_id, MAX(date_for) AS max_date").
		Where("site_id = ? AND course_id IN ?", siteID, courseKeys(courseIDs)).
		Group("course_id")

	var modelList []*models.CourseDailyMetricsModel
	err := tx.Table(constants.TableCourseDailyMetrics+" AS m").
		Select("m.*").
		Joins("JOIN (?) AS latest ON latest.course_id = m.course_id AND latest.max_date = m.date_for", latest).
		Where("m.site_id = ?", siteID).
		Find(&modelList).Error
	if err != nil {
		r.logger.Errorw("failed to get latest course daily metrics", "site_id", siteID, "courses", len(courseIDs), "error", err)
		return nil, fmt.Errorf("failed to get latest course daily metrics: %w", err)
	}

	entities, err := r.mapper.ToEntities(modelList)
	if err != nil {
		return nil, fmt.Errorf("failed to map course daily metrics: %w", err)
	}
	for _, e := range entities {
		result[e.CourseID()] = e
	}
	return result, nil
}

func (r *CourseDailyMetricsRepositoryImpl) ListForDate(ctx context.Context, siteID uint, dateFor time.Time) ([]*metrics.CourseDailyMetrics, error) {
	var modelList []*models.CourseDailyMetricsModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("site_id = ? AND date_for = ?", siteID, dateKey(dateFor)).
		Order("course_id ASC").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list course daily metrics for date", "site_id", siteID, "date_for", dateFor, "error", err)
		return nil, fmt.Errorf("failed to list course daily metrics: %w", err)
	}
	return r.mapper.ToEntities(modelList)
}

func (r *CourseDailyMetricsRepositoryImpl) List(ctx context.Context, filter metrics.CourseDailyMetricsFilter) ([]*metrics.CourseDailyMetrics, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db).Model(&models.CourseDailyMetricsModel{}).
		Where("site_id = ?", filter.SiteID).
		Scopes(db.DateRange("date_for", dateKey(filter.Dates.From), dateKey(filter.Dates.To)))
	if filter.CourseID != "" {
		tx = tx.Where("course_id = ?", courseKey(filter.CourseID))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count course daily metrics", "site_id", filter.SiteID, "error", err)
		return nil, 0, fmt.Errorf("failed to count course daily metrics: %w", err)
	}

	var modelList []*models.CourseDailyMetricsModel
	if err := tx.Scopes(db.Paginate(filter.Page.Limit, filter.Page.Offset)).
		Order("date_for DESC").Order("course_id ASC").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list course daily metrics", "site_id", filter.SiteID, "error", err)
		return nil, 0, fmt.Errorf("failed to list course daily metrics: %w", err)
	}

	entities, err := r.mapper.ToEntities(modelList)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to map course daily metrics: %w", err)
	}
	return entities, total, nil
}

func (r *CourseDailyMetricsRepositoryImpl) single(model *models.CourseDailyMetricsModel, err error, key string, value interface{}) (*metrics.CourseDailyMetrics, error) {
	if err != nil {
		if errors.IsRecordNotFound(err) {
			return nil, nil
		}
		r.logger.Errorw("failed to get course daily metrics", key, value, "error", err)
		return nil, fmt.Errorf("failed to get course daily metrics: %w", err)
	}
	entity, err := r.mapper.ToEntity(model)
	if err != nil {
		return nil, fmt.Errorf("failed to map course daily metrics: %w", err)
	}
	return entity, nil
}
