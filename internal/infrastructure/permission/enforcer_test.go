package permission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/figures-analytics/figures/internal/shared/constants"
	"github.com/figures-analytics/figures/internal/shared/logger"
)

func setupEnforcer(t *testing.T) *Enforcer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	e, err := NewEnforcer(db, logger.NewNop())
	require.NoError(t, err)
	require.NoError(t, e.InitMetricsPolicies())
	return e
}

func TestEnforcer_MetricsPolicies(t *testing.T) {
	e := setupEnforcer(t)

	tests := []struct {
		role   string
		path   string
		action string
		want   bool
	}{
		{constants.RoleStaff, "/figures/api/site-daily-metrics", "GET", true},
		{constants.RoleStaff, "/figures/api/courses-general/course-v1:edX+D+1", "GET", true},
		{constants.RoleSuperuser, "/figures/api/users-general", "GET", true},
		{constants.RoleLearner, "/figures/api/users-general", "GET", false},
		{constants.RoleStaff, "/figures/api/site-daily-metrics", "POST", false},
		{constants.RoleStaff, "/admin", "GET", false},
	}
	for _, tt := range tests {
		allowed, err := e.Enforce(tt.role, tt.path, tt.action)
		require.NoError(t, err)
		assert.Equal(t, tt.want, allowed, "%s %s %s", tt.role, tt.action, tt.path)
	}
}

func TestEnforcer_PoliciesPersist(t *testing.T) {
	e := setupEnforcer(t)

	require.NoError(t, e.AddPolicy(constants.RoleLearner, "/figures/api/learners-detailed/:id", "GET"))
	require.NoError(t, e.LoadPolicy())

	allowed, err := e.Enforce(constants.RoleLearner, "/figures/api/learners-detailed/5", "GET")
	require.NoError(t, err)
	assert.True(t, allowed)

	require.NoError(t, e.RemovePolicy(constants.RoleLearner, "/figures/api/learners-detailed/:id", "GET"))
	allowed, err = e.Enforce(constants.RoleLearner, "/figures/api/learners-detailed/5", "GET")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestEnforcer_InitIsRepeatable(t *testing.T) {
	e := setupEnforcer(t)
	require.NoError(t, e.InitMetricsPolicies())

	allowed, err := e.Enforce(constants.RoleStaff, "/figures/api/user-index", "GET")
	require.NoError(t, err)
	assert.True(t, allowed)
}
