package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/figures-analytics/figures/internal/domain/platform"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/mappers"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/models"
	"github.com/figures-analytics/figures/internal/shared/errors"
	"github.com/figures-analytics/figures/internal/shared/logger"
	"github.com/figures-analytics/figures/internal/shared/mapper"
)

type SiteRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewSiteRepository(db *gorm.DB, logger logger.Interface) platform.SiteRepository {
	return &SiteRepositoryImpl{db: db, logger: logger}
}

func (r *SiteRepositoryImpl) GetByID(ctx context.Context, id uint) (*platform.Site, error) {
	var model models.SiteModel
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		if errors.IsRecordNotFound(err) {
			return nil, nil
		}
		r.logger.Errorw("failed to get site by ID", "id", id, "error", err)
		return nil, fmt.Errorf("failed to get site: %w", err)
	}
	return mappers.SiteToEntity(&model), nil
}

// GetByDomain matches the domain case-insensitively and ignores a port suffix.
func (r *SiteRepositoryImpl) GetByDomain(ctx context.Context, domain string) (*platform.Site, error) {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if host, _, found := strings.Cut(domain, ":"); found {
		domain = host
	}
	if domain == "" {
		return nil, nil
	}

	var model models.SiteModel
	if err := r.db.WithContext(ctx).Where("LOWER(domain) = ?", domain).First(&model).Error; err != nil {
		if errors.IsRecordNotFound(err) {
			return nil, nil
		}
		r.logger.Errorw("failed to get site by domain", "domain", domain, "error", err)
		return nil, fmt.Errorf("failed to get site: %w", err)
	}
	return mappers.SiteToEntity(&model), nil
}

func (r *SiteRepositoryImpl) List(ctx context.Context) ([]*platform.Site, error) {
	var modelList []*models.SiteModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to list sites: %w", err)
	}
	return mapper.MapSlice(modelList, mappers.SiteToEntity), nil
}
