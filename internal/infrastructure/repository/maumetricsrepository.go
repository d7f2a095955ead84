package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/mappers"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/models"
	"github.com/figures-analytics/figures/internal/shared/db"
	"github.com/figures-analytics/figures/internal/shared/errors"
	"github.com/figures-analytics/figures/internal/shared/logger"
)

// MauMetricsRepositoryImpl implements metrics.MauMetricsRepository.
type MauMetricsRepositoryImpl struct {
	db     *gorm.DB
	mapper mappers.MauMetricsMapper
	logger logger.Interface
}

func NewMauMetricsRepository(db *gorm.DB, logger logger.Interface) metrics.MauMetricsRepository {
	return &MauMetricsRepositoryImpl{
		db:     db,
		mapper: mappers.NewMauMetricsMapper(),
		logger: logger,
	}
}

// UpsertSite inserts or refreshes the month-to-date count for (site, date_for).
func (r *MauMetricsRepositoryImpl) UpsertSite(ctx context.Context, m *metrics.SiteMauMetrics) error {
	model := r.mapper.SiteToModel(m)

	err := db.GetTxFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "site_id"}, {Name: "date_for"}},
		DoUpdates: clause.AssignmentColumns([]string{"mau", "modified"}),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to upsert site mau metrics",
			"site_id", model.SiteID,
			"date_for", m.DateFor(),
			"error", err,
		)
		return fmt.Errorf("failed to upsert site mau metrics: %w", err)
	}

	if m.ID() == 0 && model.ID != 0 {
		m.SetID(model.ID)
	}
	r.logger.Debugw("site mau metrics upserted", "site_id", model.SiteID, "mau", model.MAU)
	return nil
}

// UpsertCourse inserts or refreshes the month-to-date count for (site, course_id, date_for).
func (r *MauMetricsRepositoryImpl) UpsertCourse(ctx context.Context, m *metrics.CourseMauMetrics) error {
	model := r.mapper.CourseToModel(m)

	err := db.GetTxFromContext(ctx, r.db).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "site_id"}, {Name: "course_id"}, {Name: "date_for"}},
		DoUpdates: clause.AssignmentColumns([]string{"mau", "modified"}),
	}).Create(model).Error
	if err != nil {
		r.logger.Errorw("failed to upsert course mau metrics",
			"site_id", model.SiteID,
			"course_id", model.CourseID,
			"date_for", m.DateFor(),
			"error", err,
		)
		return fmt.Errorf("failed to upsert course mau metrics: %w", err)
	}

	if m.ID() == 0 && model.ID != 0 {
		m.SetID(model.ID)
	}
	return nil
}

func (r *MauMetricsRepositoryImpl) ListSite(ctx context.Context, filter metrics.MauMetricsFilter) ([]*metrics.SiteMauMetrics, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db).Model(&models.SiteMauMetricsModel{}).
		Where("site_id = ?", filter.SiteID).
		Scopes(db.DateRange("date_for", dateKey(filter.Dates.From), dateKey(filter.Dates.To)))

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count site mau metrics: %w", err)
	}

	var modelList []*models.SiteMauMetricsModel
	if err := tx.Scopes(db.Paginate(filter.Page.Limit, filter.Page.Offset)).
		Order("date_for DESC").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list site mau metrics", "site_id", filter.SiteID, "error", err)
		return nil, 0, fmt.Errorf("failed to list site mau metrics: %w", err)
	}

	entities, err := r.mapper.SiteToEntities(modelList)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to map site mau metrics: %w", err)
	}
	return entities, total, nil
}

func (r *MauMetricsRepositoryImpl) ListCourse(ctx context.Context, filter metrics.MauMetricsFilter) ([]*metrics.CourseMauMetrics, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db).Model(&models.CourseMauMetricsModel{}).
		Where("site_id = ?", filter.SiteID).
		Scopes(db.DateRange("date_for", dateKey(filter.Dates.From), dateKey(filter.Dates.To)))
	if filter.CourseID != "" {
		tx = tx.Where("course_id = ?", courseKey(filter.CourseID))
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count course mau metrics: %w", err)
	}

	var modelList []*models.CourseMauMetricsModel
	if err := tx.Scopes(db.Paginate(filter.Page.Limit, filter.Page.Offset)).
		Order("date_for DESC").Order("course_id ASC").
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list course mau metrics", "site_id", filter.SiteID, "error", err)
		return nil, 0, fmt.Errorf("failed to list course mau metrics: %w", err)
	}

	entities, err := r.mapper.CourseToEntities(modelList)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to map course mau metrics: %w", err)
	}
	return entities, total, nil
}

func (r *MauMetricsRepositoryImpl) LatestSite(ctx context.Context, siteID uint) (*metrics.SiteMauMetrics, error) {
	var model models.SiteMauMetricsModel
	err := db.GetTxFromContext(ctx, r.db).Where("site_id = ?", siteID).Order("date_for DESC").First(&model).Error
	if err != nil {
		if errors.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest site mau metrics: %w", err)
	}
	return r.mapper.SiteToEntity(&model)
}

func (r *MauMetricsRepositoryImpl) LatestCourse(ctx context.Context, siteID uint, courseID string) (*metrics.CourseMauMetrics, error) {
	var model models.CourseMauMetricsModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("site_id = ? AND course_id = ?", siteID, courseKey(courseID)).
		Order("date_for DESC").
		First(&model).Error
	if err != nil {
		if errors.IsRecordNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest course mau metrics: %w", err)
	}
	return r.mapper.CourseToEntity(&model)
}
