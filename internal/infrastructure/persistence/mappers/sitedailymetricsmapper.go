package mappers

import (
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/models"
	"github.com/figures-analytics/figures/internal/shared/mapper"
)

// SiteDailyMetricsMapper converts between site daily metrics entities and models.
type SiteDailyMetricsMapper interface {
	ToEntity(model *models.SiteDailyMetricsModel) (*metrics.SiteDailyMetrics, error)
	ToModel(entity *metrics.SiteDailyMetrics) (*models.SiteDailyMetricsModel, error)
	ToEntities(models []*models.SiteDailyMetricsModel) ([]*metrics.SiteDailyMetrics, error)
}

type SiteDailyMetricsMapperImpl struct{}

func NewSiteDailyMetricsMapper() SiteDailyMetricsMapper {
	return &SiteDailyMetricsMapperImpl{}
}

func (m *SiteDailyMetricsMapperImpl) ToEntity(model *models.SiteDailyMetricsModel) (*metrics.SiteDailyMetrics, error) {
	if model == nil {
		return nil, nil
	}

	entity, err := metrics.ReconstructSiteDailyMetrics(
		model.ID,
		model.SiteID,
		time.Time(model.DateFor),
		metrics.SiteDailyCounts{
			CumulativeActiveUserCount: model.CumulativeActiveUserCount,
			TodaysActiveUserCount:     model.TodaysActiveUserCount,
			TotalUserCount:            model.TotalUserCount,
			CourseCount:               model.CourseCount,
			TotalEnrollmentCount:      model.TotalEnrollmentCount,
			MAU:                       model.MAU,
		},
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct site daily metrics entity: %w", err)
	}
	return entity, nil
}

func (m *SiteDailyMetricsMapperImpl) ToModel(entity *metrics.SiteDailyMetrics) (*models.SiteDailyMetricsModel, error) {
	if entity == nil {
		return nil, nil
	}

	counts := entity.Counts()
	return &models.SiteDailyMetricsModel{
		ID:                        entity.ID(),
		SiteID:                    entity.SiteID(),
		DateFor:                   datatypes.Date(entity.DateFor()),
		CumulativeActiveUserCount: counts.CumulativeActiveUserCount,
		TodaysActiveUserCount:     counts.TodaysActiveUserCount,
		TotalUserCount:            counts.TotalUserCount,
		CourseCount:               counts.CourseCount,
		TotalEnrollmentCount:      counts.TotalEnrollmentCount,
		MAU:                       counts.MAU,
		CreatedAt:                 entity.CreatedAt(),
		UpdatedAt:                 entity.UpdatedAt(),
	}, nil
}

func (m *SiteDailyMetricsMapperImpl) ToEntities(modelList []*models.SiteDailyMetricsModel) ([]*metrics.SiteDailyMetrics, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.SiteDailyMetricsModel) uint { return model.ID })
}
