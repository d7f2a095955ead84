// Package authorization defines the roles that may read metrics.
package authorization

import "github.com/figures-analytics/figures/internal/shared/constants"

type UserRole string

const (
	RoleSuperuser UserRole = constants.RoleSuperuser
	RoleStaff     UserRole = constants.RoleStaff
	RoleLearner   UserRole = constants.RoleLearner
)

func (r UserRole) String() string {
	return string(r)
}

// CanViewMetrics reports whether the role may read the metrics API.
func (r UserRole) CanViewMetrics() bool {
	return r == RoleSuperuser || r == RoleStaff
}

func (r UserRole) IsValid() bool {
	return r == RoleSuperuser || r == RoleStaff || r == RoleLearner
}

// RoleForUser derives the role from the platform user flags.
func RoleForUser(isSuperuser, isStaff bool) UserRole {
	switch {
	case isSuperuser:
		return RoleSuperuser
	case isStaff:
		return RoleStaff
	default:
		return RoleLearner
	}
}

func ParseUserRole(s string) UserRole {
	role := UserRole(s)
	if role.IsValid() {
		return role
	}
	return RoleLearner
}
