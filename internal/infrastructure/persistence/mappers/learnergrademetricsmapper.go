package mappers

import (
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/models"
	"github.com/figures-analytics/figures/internal/shared/mapper"
)

type LearnerGradeMetricsMapper interface {
	ToEntity(model *models.LearnerCourseGradeMetricsModel) (*metrics.LearnerCourseGradeMetrics, error)
	ToModel(entity *metrics.LearnerCourseGradeMetrics) *models.LearnerCourseGradeMetricsModel
	ToEntities(models []*models.LearnerCourseGradeMetricsModel) ([]*metrics.LearnerCourseGradeMetrics, error)
}

type LearnerGradeMetricsMapperImpl struct{}

func NewLearnerGradeMetricsMapper() LearnerGradeMetricsMapper {
	return &LearnerGradeMetricsMapperImpl{}
}

func (m *LearnerGradeMetricsMapperImpl) ToEntity(model *models.LearnerCourseGradeMetricsModel) (*metrics.LearnerCourseGradeMetrics, error) {
	if model == nil {
		return nil, nil
	}
	entity, err := metrics.ReconstructLearnerCourseGradeMetrics(
		model.ID,
		model.SiteID,
		model.UserID,
		model.CourseID,
		time.Time(model.DateFor),
		metrics.GradeCounts{
			PointsPossible:   model.PointsPossible,
			PointsEarned:     model.PointsEarned,
			SectionsWorked:   model.SectionsWorked,
			SectionsPossible: model.SectionsPossible,
		},
		model.CreatedAt,
		model.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct learner grade metrics entity: %w", err)
	}
	return entity, nil
}

func (m *LearnerGradeMetricsMapperImpl) ToModel(entity *metrics.LearnerCourseGradeMetrics) *models.LearnerCourseGradeMetricsModel {
	grades := entity.Grades()
	return &models.LearnerCourseGradeMetricsModel{
		ID:               entity.ID(),
		SiteID:           entity.SiteID(),
		UserID:           entity.UserID(),
		CourseID:         entity.CourseID(),
		DateFor:          datatypes.Date(entity.DateFor()),
		PointsPossible:   grades.PointsPossible,
		PointsEarned:     grades.PointsEarned,
		SectionsWorked:   grades.SectionsWorked,
		SectionsPossible: grades.SectionsPossible,
		CreatedAt:        entity.CreatedAt(),
		UpdatedAt:        entity.UpdatedAt(),
	}
}

func (m *LearnerGradeMetricsMapperImpl) ToEntities(modelList []*models.LearnerCourseGradeMetricsModel) ([]*metrics.LearnerCourseGradeMetrics, error) {
	return mapper.MapSlicePtrWithID(modelList, m.ToEntity, func(model *models.LearnerCourseGradeMetricsModel) uint { return model.ID })
}
