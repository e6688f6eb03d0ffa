package types

import "strings"

const (
	// ActorRoleSystemAdmin represents site-wide administrators with unrestricted access.
	ActorRoleSystemAdmin = "system_admin"
	// ActorRoleTenantAdmin represents administrators scoped to a tenant/org.
	ActorRoleTenantAdmin = "tenant_admin"
	// ActorRoleOrgAdmin represents organization (realm) administrators.
	ActorRoleOrgAdmin = "org_admin"
	// ActorRoleAdmin is the generic admin role issued by go-auth.
	ActorRoleAdmin = "admin"
	// ActorRoleOwner is the realm owner role issued by go-auth.
	ActorRoleOwner = "owner"
	// ActorRoleMember represents regular realm members.
	ActorRoleMember = "member"
)

var realmAdminRoles = []string{
	ActorRoleSystemAdmin,
	ActorRoleTenantAdmin,
	ActorRoleOrgAdmin,
	ActorRoleAdmin,
	ActorRoleOwner,
}

// RoleName normalizes the actor role for comparisons.
func (a ActorRef) RoleName() string {
	return normalizeRole(a.Type)
}

// IsRole reports whether the actor matches the provided role.
func (a ActorRef) IsRole(role string) bool {
	role = normalizeRole(role)
	if role == "" {
		return a.RoleName() == ""
	}
	return a.RoleName() == role
}

// IsSystemAdmin reports whether the actor is a global/system administrator.
func (a ActorRef) IsSystemAdmin() bool {
	return a.IsRole(ActorRoleSystemAdmin)
}

// IsRealmAdmin reports whether the actor may manage the realm's field
// definitions.
func (a ActorRef) IsRealmAdmin() bool {
	name := a.RoleName()
	for _, role := range realmAdminRoles {
		if name == role {
			return true
		}
	}
	return false
}

func normalizeRole(role string) string {
	return strings.ToLower(strings.TrimSpace(role))
}
