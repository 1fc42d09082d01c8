package services

import (
	"testing"

	"office_records_go/models"

	"github.com/stretchr/testify/assert"
)

func TestMayMutate(t *testing.T) {
	campos := models.Office{Key: "CAMPOS_RJ", DisplayName: "CAMPOS RJ"}

	tests := []struct {
		name      string
		user      *models.User
		officeKey string
		want      bool
	}{
		{"Nil user never mutates", nil, "CENTRAL", false},
		{"Inactive admin is denied", &models.User{Role: models.RoleAdmin, IsActive: false}, "CENTRAL", false},
		{"Admin mutates any office", &models.User{Role: models.RoleAdmin, IsActive: true}, "ANY_OFFICE", true},
		{"Supervisor mutates an assigned office", &models.User{Role: models.RoleSupervisor, IsActive: true, Offices: []models.Office{campos}}, "CAMPOS_RJ", true},
		{"Supervisor denied on an unassigned office", &models.User{Role: models.RoleSupervisor, IsActive: true, Offices: []models.Office{campos}}, "CENTRAL", false},
		{"Operator mutates an assigned office", &models.User{Role: models.RoleOperator, IsActive: true, Offices: []models.Office{campos}}, "CAMPOS_RJ", true},
		{"Operator denied on an unassigned office", &models.User{Role: models.RoleOperator, IsActive: true}, "CAMPOS_RJ", false},
		{"Viewer never mutates, even when assigned", &models.User{Role: models.RoleViewer, IsActive: true, Offices: []models.Office{campos}}, "CAMPOS_RJ", false},
		{"Unknown role never mutates", &models.User{Role: "INTERN", IsActive: true, Offices: []models.Office{campos}}, "CAMPOS_RJ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MayMutate(tt.user, tt.officeKey))
		})
	}
}
