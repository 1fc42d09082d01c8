package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User role constants
const (
	RoleAdmin      = "ADMIN"
	RoleSupervisor = "SUPERVISOR"
	RoleOperator   = "OPERATOR"
	RoleViewer     = "VIEWER"
)

type User struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string     `gorm:"not null" json:"name"`
	Email       string     `gorm:"uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	Role        string     `gorm:"not null;default:VIEWER" json:"role"`
	// No column default: a false here must survive the INSERT, and gorm
	// drops zero-value fields that carry a default tag.
	IsActive    bool       `gorm:"not null" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`

	// Offices the user may mutate (ignored for ADMIN, empty for VIEWER)
	Offices []Office `gorm:"many2many:user_offices;" json:"offices,omitempty"`
}

// BeforeCreate hook to generate UUID
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

// IsAdmin checks if the user has the ADMIN role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsAssignedTo checks if an office key is in the user's assignment set
func (u *User) IsAssignedTo(officeKey string) bool {
	for _, o := range u.Offices {
		if o.Key == officeKey {
			return true
		}
	}
	return false
}

// IsValidRole checks if the role is one of the closed role set
func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleSupervisor, RoleOperator, RoleViewer:
		return true
	}
	return false
}
