package usecases

import (
	"context"
	"time"

	"github.com/figures-analytics/figures/internal/application/figures/dto"
	"github.com/figures-analytics/figures/internal/domain/metrics"
	"github.com/figures-analytics/figures/internal/shared/logger"
)

// SiteDailyMetricsCommand identifies a site day and carries its counts.
// Force replaces the counts of an existing record instead of keeping them.
type SiteDailyMetricsCommand struct {
	SiteID  uint
	DateFor time.Time
	Counts  metrics.SiteDailyCounts
	Force   bool
}

type SiteDailyMetricsResult struct {
	Metrics *dto.SiteDailyMetricsDTO
	Created bool
}

type CreateSiteDailyMetricsUseCase struct {
	repo   metrics.SiteDailyMetricsRepository
	logger logger.Interface
}

func NewCreateSiteDailyMetricsUseCase(
	repo metrics.SiteDailyMetricsRepository,
	logger logger.Interface,
) *CreateSiteDailyMetricsUseCase {
	return &CreateSiteDailyMetricsUseCase{
		repo:   repo,
		logger: logger,
	}
}

// Execute inserts a new record. An existing record for the same site day is
// left untouched and a conflict is returned.
func (uc *CreateSiteDailyMetricsUseCase) Execute(ctx context.Context, cmd SiteDailyMetricsCommand) (*SiteDailyMetricsResult, error) {
	m, err := metrics.NewSiteDailyMetrics(cmd.SiteID, cmd.DateFor, cmd.Counts)
	if err != nil {
		return nil, toAppError(err, "invalid site daily metrics")
	}

	if err := uc.repo.Create(ctx, m); err != nil {
		uc.logger.Warnw("failed to create site daily metrics", "site_id", cmd.SiteID, "date_for", cmd.DateFor, "error", err)
		return nil, toAppError(err, "failed to create site daily metrics")
	}

	uc.logger.Infow("site daily metrics created", "id", m.ID(), "site_id", cmd.SiteID, "date_for", m.DateFor())
	return &SiteDailyMetricsResult{Metrics: dto.ToSiteDailyMetricsDTO(m), Created: true}, nil
}

type GetOrCreateSiteDailyMetricsUseCase struct {
	repo   metrics.SiteDailyMetricsRepository
	logger logger.Interface
}

func NewGetOrCreateSiteDailyMetricsUseCase(
	repo metrics.SiteDailyMetricsRepository,
	logger logger.Interface,
) *GetOrCreateSiteDailyMetricsUseCase {
	return &GetOrCreateSiteDailyMetricsUseCase{
		repo:   repo,
		logger: logger,
	}
}

// Execute returns the stored record for the site day, creating it from the
// command counts when absent.
func (uc *GetOrCreateSiteDailyMetricsUseCase) Execute(ctx context.Context, cmd SiteDailyMetricsCommand) (*SiteDailyMetricsResult, error) {
	m, created, err := uc.repo.GetOrCreate(ctx, cmd.SiteID, cmd.DateFor, cmd.Counts)
	if err != nil {
		uc.logger.Errorw("failed to get or create site daily metrics", "site_id", cmd.SiteID, "date_for", cmd.DateFor, "error", err)
		return nil, toAppError(err, "failed to get or create site daily metrics")
	}

	if !created && cmd.Force {
		if err := m.ReplaceCounts(cmd.Counts); err != nil {
			return nil, toAppError(err, "invalid site daily metrics")
		}
		if err := uc.repo.Update(ctx, m); err != nil {
			uc.logger.Errorw("failed to update site daily metrics", "id", m.ID(), "error", err)
			return nil, toAppError(err, "failed to update site daily metrics")
		}
		uc.logger.Infow("site daily metrics replaced", "id", m.ID(), "site_id", cmd.SiteID, "date_for", m.DateFor())
	}

	return &SiteDailyMetricsResult{Metrics: dto.ToSiteDailyMetricsDTO(m), Created: created}, nil
}
