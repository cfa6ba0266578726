package core

import (
	"time"

	"github.com/google/uuid"
)

// Role represents a user's role in the rental platform
type Role string

const (
	RoleAdmin           Role = "admin"
	RolePropertyManager Role = "property_manager"
	RoleLandlord        Role = "landlord"
	RoleTenant          Role = "tenant"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RolePropertyManager, RoleLandlord, RoleTenant:
		return true
	}
	return false
}

// User represents a platform account
type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Role         Role
	CreatedAt    time.Time
}

// Principal is the authenticated caller handed to services by the
// transport layer.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}
