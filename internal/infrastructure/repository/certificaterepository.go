package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/figures-analytics/figures/internal/domain/platform"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/mappers"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/models"
	"github.com/figures-analytics/figures/internal/shared/errors"
	"github.com/figures-analytics/figures/internal/shared/logger"
	"github.com/figures-analytics/figures/internal/shared/mapper"
)

type CertificateRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewCertificateRepository(db *gorm.DB, logger logger.Interface) platform.CertificateRepository {
	return &CertificateRepositoryImpl{db: db, logger: logger}
}

func (r *CertificateRepositoryImpl) ListForCourse(ctx context.Context, courseID string, end time.Time) ([]*platform.GeneratedCertificate, error) {
	var modelList []*models.GeneratedCertificateModel
	if err := r.db.WithContext(ctx).
		Where("course_id = ? AND status = ? AND created_date < ?", courseID, platform.CertificateStatusDownloadable, end).
		Order("created_date ASC").
		Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list certificates: %w", err)
	}
	return mapper.MapSlice(modelList, mappers.CertificateToEntity), nil
}

func (r *CertificateRepositoryImpl) GetForEnrollment(ctx context.Context, userID uint, courseID string) (*platform.GeneratedCertificate, error) {
	var model models.GeneratedCertificateModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("created_date ASC").
		First(&model).Error
	if err != nil {
		if errors.IsRecordNotFound(err) {
			return nil, nil
		}
		r.logger.Errorw("failed to get certificate", "user_id", userID, "course_id", courseID, "error", err)
		return nil, fmt.Errorf("failed to get certificate: %w", err)
	}
	return mappers.CertificateToEntity(&model), nil
}
