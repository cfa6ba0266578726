package core

import (
	"fmt"

	"github.com/google/uuid"
)

// AccessScope is a store filter predicate derived from a caller's role
// and identity. Repositories translate it into the joins that restrict
// a listing to the records the caller may see. Exactly one of the
// fields is set unless All is true.
type AccessScope struct {
	// All grants an unrestricted view.
	All bool
	// SelfUserID restricts to records belonging to the lease(s) of
	// this user.
	SelfUserID *uuid.UUID
	// LandlordID restricts to records under properties owned by this
	// user.
	LandlordID *uuid.UUID
	// ManagerID restricts to records under properties managed by this
	// user.
	ManagerID *uuid.UUID
}

// ScopeForPrincipal maps (role, identity) to the store filter for that
// caller. It is the single place role-based read visibility is decided;
// handlers and repositories never branch on roles themselves.
func ScopeForPrincipal(p Principal) (AccessScope, error) {
	switch p.Role {
	case RoleAdmin:
		return AccessScope{All: true}, nil
	case RoleTenant:
		id := p.UserID
		return AccessScope{SelfUserID: &id}, nil
	case RoleLandlord:
		id := p.UserID
		return AccessScope{LandlordID: &id}, nil
	case RolePropertyManager:
		id := p.UserID
		return AccessScope{ManagerID: &id}, nil
	default:
		return AccessScope{}, fmt.Errorf("role %q: %w", p.Role, ErrForbidden)
	}
}
