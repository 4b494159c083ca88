package model

import "strings"

// Role represents user roles in the system
type Role struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Code        string      `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string      `gorm:"type:varchar(100)" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	Privileges  []Privilege `gorm:"many2many:role_privileges;" json:"privileges,omitempty"`
}

const (
	RoleAdmin = "administrador"
	RoleStaff = "usuario"
)

var DefaultRoles = []Role{
	{
		Code:        RoleAdmin,
		Name:        "Administrador",
		Description: "Full access including catalogue and user management",
	},
	{
		Code:        RoleStaff,
		Name:        "Usuario",
		Description: "Counter staff: views the catalogue, books orders and movements",
	},
}

// Grants reports whether the role is seeded with privilege p.
func (r Role) Grants(p Privilege) bool {
	switch r.Code {
	case RoleAdmin:
		return true
	case RoleStaff:
		switch {
		case strings.HasSuffix(p.Code, ":view") && !strings.HasPrefix(p.Code, "user:"):
			return true
		case strings.HasPrefix(p.Code, "order:"):
			return true
		case p.Code == PrivMovementCreate:
			return true
		}
	}
	return false
}
