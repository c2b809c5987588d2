package auth

import (
	"slices"

	"supplytrace/internal/model"
)

// Permission codes checked by the HTTP layer.
const (
	PermIngredientsWrite = "ingredients.write"
	PermProductsWrite    = "products.write"
	PermUsersWrite       = "users.write"
	PermUsersRead        = "users.read"
	PermAuditRead        = "audit.read"
	PermLedgerRead       = "ledger.read"
	PermApprovalsVote    = "approvals.vote"
)

var allRoles = []string{model.RoleOwner, model.RoleManager, model.RoleSeller, model.RoleSupplier}

var rolePermissions = map[string][]string{
	PermIngredientsWrite: {model.RoleOwner, model.RoleManager, model.RoleSupplier},
	PermProductsWrite:    {model.RoleOwner, model.RoleManager, model.RoleSeller},
	PermUsersWrite:       {model.RoleOwner, model.RoleManager},
	PermUsersRead:        {model.RoleOwner, model.RoleManager},
	PermAuditRead:        {model.RoleOwner, model.RoleManager},
	PermLedgerRead:       allRoles,
	// Any role may call the vote endpoints. Whether the vote counts is decided
	// by the product's supplier set, not by the role.
	PermApprovalsVote: allRoles,
}

// HasPermission reports whether role grants perm.
func HasPermission(role, perm string) bool {
	return slices.Contains(rolePermissions[perm], role)
}

// PermissionsFor lists the permission codes granted to role, sorted.
func PermissionsFor(role string) []string {
	perms := make([]string, 0, len(rolePermissions))
	for perm, roles := range rolePermissions {
		if slices.Contains(roles, role) {
			perms = append(perms, perm)
		}
	}
	slices.Sort(perms)
	return perms
}
