package authorization

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleForUser(t *testing.T) {
	assert.Equal(t, RoleSuperuser, RoleForUser(true, true))
	assert.Equal(t, RoleStaff, RoleForUser(false, true))
	assert.Equal(t, RoleLearner, RoleForUser(false, false))
}

func TestCanViewMetrics(t *testing.T) {
	assert.True(t, RoleSuperuser.CanViewMetrics())
	assert.True(t, RoleStaff.CanViewMetrics())
	assert.False(t, RoleLearner.CanViewMetrics())
	assert.False(t, ParseUserRole("admin").CanViewMetrics())
}
