package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/figures-analytics/figures/internal/shared/config"
	"github.com/figures-analytics/figures/internal/shared/logger"
)

// Manager runs the migration strategy that fits the database driver.
type Manager struct {
	strategy Strategy
	logger   logger.Interface
}

// NewManager uses goose scripts for MySQL and PostgreSQL and gorm
// AutoMigrate (metrics and platform tables) for sqlite.
func NewManager(driver string, log logger.Interface) (*Manager, error) {
	var strategy Strategy
	if driver == config.DriverSQLite {
		strategy = NewGormAutoMigrateStrategy(log, true)
	} else {
		goose, err := NewGooseStrategy(driver, log)
		if err != nil {
			return nil, err
		}
		strategy = goose
	}
	return NewManagerWithStrategy(strategy, log), nil
}

func NewManagerWithStrategy(strategy Strategy, log logger.Interface) *Manager {
	return &Manager{
		strategy: strategy,
		logger:   log.With("component", "migration.manager"),
	}
}

func (m *Manager) Migrate(db *gorm.DB) error {
	m.logger.Infow("starting database migration", "strategy", m.strategy.GetName())

	if err := m.strategy.Migrate(db); err != nil {
		return fmt.Errorf("migration failed with strategy %s: %w", m.strategy.GetName(), err)
	}

	m.logger.Infow("database migration completed successfully", "strategy", m.strategy.GetName())
	return nil
}

func (m *Manager) Rollback(db *gorm.DB, steps int) error {
	if steps < 1 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}
	m.logger.Infow("rolling back migrations", "strategy", m.strategy.GetName(), "steps", steps)
	return m.strategy.MigrateDown(db, steps)
}

func (m *Manager) Version(db *gorm.DB) (int64, error) {
	return m.strategy.Version(db)
}

func (m *Manager) GetStrategy() Strategy {
	return m.strategy
}
