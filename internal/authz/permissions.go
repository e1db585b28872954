package authz

// Permission is an opaque permission tag held by a principal.
type Permission string

// Platform permissions. PermissionAll is the wildcard: holding it
// satisfies every permission check.
const (
	PermissionAll           Permission = "ALL_PERMISSIONS"
	PermissionAssignRoles   Permission = "ASSIGN_ROLES"
	PermissionViewAllUsers  Permission = "VIEW_ALL_USERS"
	PermissionManageUsers   Permission = "MANAGE_USERS"
	PermissionDeleteUser    Permission = "DELETE_USER"
	PermissionManageParties Permission = "MANAGE_PARTIES"
	PermissionManageCatalog Permission = "MANAGE_CATALOG"
	PermissionViewScore     Permission = "VIEW_SCORE"
)

// Principal is the acting user as seen by the authorization layer:
// a global role label plus a permission set. It is resolved fresh per
// request and carries no party-scoped state.
type Principal struct {
	ID          int64
	Role        string
	Permissions []string
}

// Has reports whether the principal holds the given permission.
// A nil principal never holds anything.
func Has(p *Principal, perm Permission) bool {
	if p == nil {
		return false
	}
	for _, held := range p.Permissions {
		if held == string(PermissionAll) || held == string(perm) {
			return true
		}
	}
	return false
}

// HasAny reports whether the principal holds at least one of the given
// permissions. An empty requirement list is vacuously true: no
// requirement is imposed. A nil principal is always false, even for an
// empty list.
func HasAny(p *Principal, perms []Permission) bool {
	if p == nil {
		return false
	}
	if len(perms) == 0 {
		return true
	}
	if Has(p, PermissionAll) {
		return true
	}
	for _, perm := range perms {
		if Has(p, perm) {
			return true
		}
	}
	return false
}

// HasAll reports whether the principal holds every one of the given
// permissions. An empty requirement list is vacuously true. A nil
// principal is always false, even for an empty list.
func HasAll(p *Principal, perms []Permission) bool {
	if p == nil {
		return false
	}
	if len(perms) == 0 {
		return true
	}
	if Has(p, PermissionAll) {
		return true
	}
	for _, perm := range perms {
		if !Has(p, perm) {
			return false
		}
	}
	return true
}
