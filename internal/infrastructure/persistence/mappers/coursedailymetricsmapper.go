package mappers

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/models"
	"github.com/figures-analytics/figures/internal/shared/mapper"
)

// CourseDailyMetricsMapper converts between course daily metrics entities and models.
type CourseDailyMetricsMapper interface {
	ToEntity(model *models.CourseDailyMetricsModel) (*metrics.CourseDailyMetrics, error)
	ToModel(entity *metrics.CourseDailyMetrics) (*models.CourseDailyMetricsModel, error)
	ToEntities(models []*models.CourseDailyMetricsModel) ([]*metrics.CourseDailyMetrics, error)
}

type CourseDailyMetricsMapperImpl struct{}

func NewCourseDailyMetricsMapper() CourseDailyMetricsMapper {
	return &CourseDailyMetricsMapperImpl{}
}

func (m *CourseDailyMetricsMapperImpl) ToEntity(model *models.CourseDailyMetricsModel) (*metrics.CourseDailyMetrics, error) {
	if model == nil {
		return nil, nil
	}

	var progress *decimal.Decimal
	if model.AverageProgress.Valid {
		p := model.AverageProgress.Decimal
		progress = &p
	}

	entity, err := metrics.ReconstructCourseDailyMetrics(
		model.ID,
		model.SiteID,
		model.CourseID,
		time.Time(model.DateFor),
		metrics.CourseDailyCounts{
			EnrollmentCount:       model.EnrollmentCount,
			ActiveLearnersToday:   model.ActiveLearnersToday,
			AverageProgress:       progress,
			AverageDaysToComplete: model.AverageDaysToComplete,
			NumLearnersCompleted:  model.NumLearnersCompleted,
		},
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct course daily metrics entity: %w", err)
	}
	return entity, nil
}

func (m *CourseDailyMetricsMapperImpl) ToModel(entity *metrics.CourseDailyMetrics) (*models.CourseDailyMetricsModel, error) {
	if entity == nil {
		return nil, nil
	}

	counts := entity.Counts()
	model := &models.CourseDailyMetricsModel{
		ID:                    entity.ID(),
		SiteID:                entity.SiteID(),
		CourseID:              entity.CourseID(),
		DateFor:               datatypes.Date(entity.DateFor()),
		EnrollmentCount:       counts.EnrollmentCount,
		ActiveLearnersToday:   counts.ActiveLearnersToday,
		AverageDaysToComplete: counts.AverageDaysToComplete,
		NumLearnersCompleted:  counts.NumLearnersCompleted,
		CreatedAt:             entity.CreatedAt(),
		UpdatedAt:             entity.UpdatedAt(),
	}
	if counts.AverageProgress != nil {
		model.AverageProgress = decimal.NewNullDecimal(*counts.AverageProgress)
	}
	return model, nil
}

func (m *CourseDailyMetricsMapperImpl) ToEntities(modelList []*models.CourseDailyMetricsModel) ([]*metrics.CourseDailyMetrics, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.CourseDailyMetricsModel) uint { return model.ID })
}
