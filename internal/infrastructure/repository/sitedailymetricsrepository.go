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

// SiteDailyMetricsRepositoryImpl implements metrics.SiteDailyMetricsRepository.
type SiteDailyMetricsRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.SiteDailyMetricsMapper
	logger logger.Interface
}

func NewSiteDailyMetricsRepository(db *gorm.DB, logger logger.Interface) metrics.SiteDailyMetricsRepository {
	return &SiteDailyMetricsRepositoryImpl{
		db:     db,
		mapper: mappers.NewSiteDailyMetricsMapper(),
		logger: logger,
	}
}

// Create inserts a new record. An existing (site, date_for) row is never
// touched; the caller gets metrics.ErrDuplicateMetrics instead.
func (r *SiteDailyMetricsRepositoryImpl) Create(ctx context.Context, m *metrics.SiteDailyMetrics) error {
	model, err := r.mapper.ToModel(m)
	if err != nil {
		return fmt.Errorf("failed to map site daily metrics entity: %w", err)
	}

	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		if errors.IsDuplicateError(err) {
			return metrics.DuplicateSiteRecord(constants.TableSiteDailyMetrics, m.SiteID(), m.DateFor())
		}
		r.logger.Errorw("failed to create site daily metrics",
			"site_id", m.SiteID(),
			"date_for", m.DateFor(),
			"error", err,
		)
		return fmt.Errorf("failed to create site daily metrics: %w", err)
	}

	if err := m.SetID(model.ID); err != nil {
		return err
	}
	r.logger.Debugw("site daily metrics created", "id", model.ID, "site_id", model.SiteID)
	return nil
}

func (r *SiteDailyMetricsRepositoryImpl) GetOrCreate(
	ctx context.Context,
	siteID uint,
	dateFor time.Time,
	defaults metrics.SiteDailyCounts,
) (*metrics.SiteDailyMetrics, bool, error) {
	existing, err := r.GetByKey(ctx, siteID, dateFor)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	m, err := metrics.NewSiteDailyMetrics(siteID, dateFor, defaults)
	if err != nil {
		return nil, false, err
	}
	model, err := r.mapper.ToModel(m)
	if err != nil {
		return nil, false, fmt.Errorf("failed to map site daily metrics entity: %w", err)
	}

	inserted, err := insertIfAbsent(db.GetTxFromContext(ctx, r.db), model)
	if err != nil {
		r.logger.Errorw("failed to create site daily metrics",
			"site_id", siteID,
			"date_for", dateFor,
			"error", err,
		)
		return nil, false, fmt.Errorf("failed to create site daily metrics: %w", err)
	}
	if !inserted {
		// a concurrent writer won the insert
		existing, err := r.GetByKey(ctx, siteID, dateFor)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, metrics.DuplicateSiteRecord(constants.TableSiteDailyMetrics, siteID, dateFor)
		}
		return existing, false, nil
	}

	if err := m.SetID(model.ID); err != nil {
		return nil, false, err
	}
	return m, true, nil
}

func (r *SiteDailyMetricsRepositoryImpl) Update(ctx context.Context, m *metrics.SiteDailyMetrics) error {
	model, err := r.mapper.ToModel(m)
	if err != nil {
		return fmt.Errorf("failed to map site daily metrics entity: %w", err)
	}

	result := db.GetTxFromContext(ctx, r.db).Model(&models.SiteDailyMetricsModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]interface{}{
			"cumulative_active_user_count": model.CumulativeActiveUserCount,
			"todays_active_user_count":     model.TodaysActiveUserCount,
			"total_user_count":             model.TotalUserCount,
			"course_count":                 model.CourseCount,
			"total_enrollment_count":       model.TotalEnrollmentCount,
			"mau":                          model.MAU,
			"modified":                     model.UpdatedAt,
		})
	if result.Error != nil {
		r.logger.Errorw("failed to update site daily metrics", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update site daily metrics: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return metrics.ErrMetricsNotFound
	}
	return nil
}

func (r *SiteDailyMetricsRepositoryImpl) GetByID(ctx context.Context, siteID, id uint) (*metrics.SiteDailyMetrics, error) {
	var model models.SiteDailyMetricsModel
	err := db.GetTxFromContext(ctx, r.db).Where("site_id = ? AND id = ?", siteID, id).First(&model).Error
	return r.single(&model, err, "id", id)
}

func (r *SiteDailyMetricsRepositoryImpl) GetByKey(ctx context.Context, siteID uint, dateFor time.Time) (*metrics.SiteDailyMetrics, error) {
	var model models.SiteDailyMetricsModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("site_id = ? AND date_for = ?", siteID, dateKey(dateFor)).
		First(&model).Error
	return r.single(&model, err, "date_for", dateFor)
}

func (r *SiteDailyMetricsRepositoryImpl) Latest(ctx context.Context, siteID uint, before time.Time) (*metrics.SiteDailyMetrics, error) {
	tx := db.GetTxFromContext(ctx, r.db).Where("site_id = ?", siteID)
	if !before.IsZero() {
		tx = tx.Where("date_for <= ?", dateKey(before))
	}

	var model models.SiteDailyMetricsModel
	err := tx.Order("date_for DESC").First(&model).Error
	return r.single(&model, err, "site_id", siteID)
}

func (r *SiteDailyMetricsRepositoryImpl) List(ctx context.Context, filter metrics.SiteDailyMetricsFilter) ([]*metrics.SiteDailyMetrics, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db).Model(&models.SiteDailyMetricsModel{}).
		Where("site_id = ?", filter.SiteID).
		Scopes(db.DateRange("date_for", dateKey(filter.Dates.From), dateKey(filter.Dates.To)))

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count site daily metrics", "site_id", filter.SiteID, "error", err)
		return nil, 0, fmt.Errorf("failed to count site daily metrics: %w", err)
	}

	var modelList []*models.SiteDailyMetricsModel
	if err := tx.Scopes(db.Paginate(filter.Page.Limit, filter.Page.Offset)).
		Order("date_for DESC").Order("id DESC").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list site daily metrics", "site_id", filter.SiteID, "error", err)
		return nil, 0, fmt.Errorf("failed to list site daily metrics: %w", err)
	}

	entities, err := r.mapper.ToEntities(modelList)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to map site daily metrics: %w", err)
	}
	return entities, total, nil
}

func (r *SiteDailyMetricsRepositoryImpl) single(model *models.SiteDailyMetricsModel, err error, key string, value interface{}) (*metrics.SiteDailyMetrics, error) {
	if err != nil {
		if errors.IsRecordNotFound(err) {
			return nil, nil
		}
		r.logger.Errorw("failed to get site daily metrics", key, value, "error", err)
		return nil, fmt.Errorf("failed to get site daily metrics: %w", err)
	}
	entity, err := r.mapper.ToEntity(model)
	if err != nil {
		return nil, fmt.Errorf("failed to map site daily metrics: %w", err)
	}
	return entity, nil
}
