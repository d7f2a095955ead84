package mappers

import (
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/models"
	"github.com/figures-analytics/figures/internal/shared/mapper"
)

// MauMetricsMapper converts site and course MAU records.
type MauMetricsMapper interface {
	SiteToEntity(model *models.SiteMauMetricsModel) (*metrics.SiteMauMetrics, error)
	SiteToModel(entity *metrics.SiteMauMetrics) *models.SiteMauMetricsModel
	SiteToEntities(models []*models.SiteMauMetricsModel) ([]*metrics.SiteMauMetrics, error)
	CourseToEntity(model *models.CourseMauMetricsModel) (*metrics.CourseMauMetrics, error)
	CourseToModel(entity *metrics.CourseMauMetrics) *models.CourseMauMetricsModel
	CourseToEntities(models []*models.CourseMauMetricsModel) ([]*metrics.CourseMauMetrics, error)
}

type MauMetricsMapperImpl struct{}

func NewMauMetricsMapper() MauMetricsMapper {
	return &MauMetricsMapperImpl{}
}

func (m *MauMetricsMapperImpl) SiteToEntity(model *models.SiteMauMetricsModel) (*metrics.SiteMauMetrics, error) {
	if model == nil {
		return nil, nil
	}
	entity, err := metrics.ReconstructSiteMauMetrics(model.ID, model.SiteID, time.Time(model.DateFor), model.MAU, model.CreatedAt, model.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct site mau metrics entity: %w", err)
	}
	return entity, nil
}

func (m *MauMetricsMapperImpl) SiteToModel(entity *metrics.SiteMauMetrics) *models.SiteMauMetricsModel {
	return &models.SiteMauMetricsModel{
		ID:        entity.ID(),
		SiteID:    entity.SiteID(),
		DateFor:   datatypes.Date(entity.DateFor()),
		MAU:       entity.MAU(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}
}

func (m *MauMetricsMapperImpl) SiteToEntities(modelList []*models.SiteMauMetricsModel) ([]*metrics.SiteMauMetrics, error) {
	return mapper.MapSlicePtrWithID(modelList, m.SiteToEntity, func(model *models.SiteMauMetricsModel) uint { return model.ID })
}

func (m *MauMetricsMapperImpl) CourseToEntity(model *models.CourseMauMetricsModel) (*metrics.CourseMauMetrics, error) {
	if model == nil {
		return nil, nil
	}
	entity, err := metrics.ReconstructCourseMauMetrics(model.ID, model.SiteID, model.CourseID, time.Time(model.DateFor), model.MAU, model.CreatedAt, model.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct course mau metrics entity: %w", err)
	}
	return entity, nil
}

func (m *MauMetricsMapperImpl) CourseToModel(entity *metrics.CourseMauMetrics) *models.CourseMauMetricsModel {
	return &models.CourseMauMetricsModel{
		ID:        entity.ID(),
		SiteID:    entity.SiteID(),
		CourseID:  entity.CourseID(),
		DateFor:   datatypes.Date(entity.DateFor()),
		MAU:       entity.MAU(),
		CreatedAt: entity.CreatedAt(),
		UpdatedAt: entity.UpdatedAt(),
	}
}

func (m *MauMetricsMapperImpl) CourseToEntities(modelList []*models.CourseMauMetricsModel) ([]*metrics.CourseMauMetrics, error) {
	return mapper.MapSlicePtrWithID(modelList, m.CourseToEntity, func(model *models.CourseMauMetricsModel) uint { return model.ID })
}
