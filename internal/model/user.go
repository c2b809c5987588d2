package model

import (
	"time"

	"github.com/google/uuid"
)

// Role constants
const (
	RoleOwner    = "OWNER"
	RoleManager  = "MANAGER"
	RoleSeller   = "SELLER"
	RoleSupplier = "SUPPLIER"
)

// ValidRole reports whether role is one of the registry roles.
func ValidRole(role string) bool {
	switch role {
	case RoleOwner, RoleManager, RoleSeller, RoleSupplier:
		return true
	}
	return false
}

// User is a registry entry. Its ID is the identity used everywhere in the ledger.
type User struct {
	ID        uuid.UUID  `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Password  string     `json:"-"` // bcrypt hash, never serialized
	Role      string     `json:"role"`
	CreatedBy *uuid.UUID `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
}
