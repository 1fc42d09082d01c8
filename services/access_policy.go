package services

import (
	"office_records_go/models"
)

// MayMutate decides whether the acting user may mutate a given office's
// partition. ADMIN bypasses office assignment entirely; SUPERVISOR and
// OPERATOR must be assigned to the office; VIEWER never mutates. A nil
// user (unauthenticated caller) never mutates either.
func MayMutate(user *models.User, officeKey string) bool {
	if user == nil || !user.IsActive {
		return false
	}
	switch user.Role {
	case models.RoleAdmin:
		return true
	case models.RoleSupervisor, models.RoleOperator:
		return user.IsAssignedTo(officeKey)
	default:
		return false
	}
}
