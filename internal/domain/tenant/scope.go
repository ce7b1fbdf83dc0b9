// Package tenant holds the data-access boundary applied to every query on tenant-owned rows.
package tenant

// Scope restricts queries to one organization. The zero value is restricted to nothing,
// so a missing organization never widens access.
type Scope struct {
	unrestricted   bool
	organizationID string
}

// Unrestricted returns the scope used for super-admin callers.
func Unrestricted() Scope {
	return Scope{unrestricted: true}
}

// ForOrganization returns a scope limited to a single organization.
func ForOrganization(organizationID string) Scope {
	return Scope{organizationID: organizationID}
}

func (s Scope) IsUnrestricted() bool {
	return s.unrestricted
}

// OrganizationFilter returns the organization id repositories must AND into their queries.
// ok is false for unrestricted scopes.
func (s Scope) OrganizationFilter() (organizationID string, ok bool) {
	if s.unrestricted {
		return "", false
	}
	return s.organizationID, true
}

// Allows reports whether a row owned by organizationID is visible in this scope.
func (s Scope) Allows(organizationID string) bool {
	if s.unrestricted {
		return true
	}
	return s.organizationID != "" && s.organizationID == organizationID
}

// Narrow restricts an unrestricted scope to organizationID. Restricted scopes are returned
// unchanged so callers cannot escape their own tenant.
func (s Scope) Narrow(organizationID string) Scope {
	if s.unrestricted && organizationID != "" {
		return ForOrganization(organizationID)
	}
	return s
}
