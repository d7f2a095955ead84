package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sharedConfig "github.com/figures-analytics/figures/internal/shared/config"
)

func TestLoad_FileAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9000
database:
  driver: sqlite
  database: figures.db
figures:
  default_site_domain: lms.example.com
  multisite: true
`), 0o600))

	t.Setenv("FIGURES_REDIS_ENABLED", "true")
	t.Setenv("FIGURES_FIGURES_PIPELINE_HOUR", "5")

	cfg, err := Load("release", path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "UTC", cfg.Server.Timezone)
	assert.Equal(t, sharedConfig.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "figures.db", cfg.Database.GetDSN())
	assert.Equal(t, "lms.example.com", cfg.Figures.DefaultSiteDomain)
	assert.True(t, cfg.Figures.Multisite)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 5, cfg.Figures.PipelineHour)
	assert.Same(t, cfg, Get())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", "")
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, sharedConfig.DriverMySQL, cfg.Database.Driver)
	assert.Equal(t, 300, cfg.Redis.TTLSeconds)
}
