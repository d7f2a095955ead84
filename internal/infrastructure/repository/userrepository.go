package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/figures-analytics/figures/internal/domain/platform"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/mappers"
	"github.com/figures-analytics/figures/internal/infrastructure/persistence/models"
	"github.com/figures-analytics/figures/internal/shared/constants"
	"github.com/figures-analytics/figures/internal/shared/db"
	"github.com/figures-analytics/figures/internal/shared/errors"
	"github.com/figures-analytics/figures/internal/shared/logger"
	"github.com/figures-analytics/figures/internal/shared/mapper"
)

var userOrdering = map[string]string{
	"id":          constants.TableUsers + ".id",
	"username":    constants.TableUsers + ".username",
	"email":       constants.TableUsers + ".email",
	"date_joined": constants.TableUsers + ".date_joined",
	"is_active":   constants.TableUsers + ".is_active",
	"fullname":    constants.TableUserProfiles + ".name",
	"country":     constants.TableUserProfiles + ".country",
}

type UserRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewUserRepository(db *gorm.DB, logger logger.Interface) platform.UserRepository {
	return &UserRepositoryImpl{db: db, logger: logger}
}

func (r *UserRepositoryImpl) GetByID(ctx context.Context, siteID, id uint) (*platform.User, error) {
	var model models.UserModel
	err := r.db.WithContext(ctx).
		Preload("Profile.LanguageProficiencies").
		Where("site_id = ? AND id = ?", siteID, id).
		First(&model).Error
	if err != nil {
		if errors.IsRecordNotFound(err) {
			return nil, nil
		}
		r.logger.Errorw("failed to get user", "site_id", siteID, "id", id, "error", err)
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return mappers.UserToEntity(&model), nil
}

func (r *UserRepositoryImpl) List(ctx context.Context, filter platform.UserFilter) ([]*platform.User, int64, error) {
	tx := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Joins("LEFT JOIN "+constants.TableUserProfiles+" ON "+constants.TableUserProfiles+".user_id = "+constants.TableUsers+".id").
		Where(constants.TableUsers+".site_id = ?", filter.SiteID).
		Scopes(db.Search(filter.Search,
			constants.TableUsers+".username",
			constants.TableUsers+".email",
			constants.TableUserProfiles+".name",
		))

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		r.logger.Errorw("failed to count users", "site_id", filter.SiteID, "error", err)
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var modelList []*models.UserModel
	if err := tx.Select(constants.TableUsers+".*").
		Preload("Profile.LanguageProficiencies").
		Scopes(
			db.OrderBy(filter.Ordering, "username", userOrdering, constants.TableUsers+".id"),
			db.Paginate(filter.Limit, filter.Offset),
		).
		Find(&modelList).Error; err != nil {
		r.logger.Errorw("failed to list users", "site_id", filter.SiteID, "error", err)
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return mapper.MapSlice(modelList, mappers.UserToEntity), total, nil
}

func (r *UserRepositoryImpl) CountJoinedBefore(ctx context.Context, siteID uint, end time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Where("site_id = ? AND date_joined < ?", siteID, end).
		Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
