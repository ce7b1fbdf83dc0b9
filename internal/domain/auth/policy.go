package auth

// RequireSuperAdmin passes only for platform operators.
func RequireSuperAdmin(identity Identity) error {
	switch identity.principal.(type) {
	case SuperAdmin:
		return nil
	case OrgAdmin, OrgEmployee:
		return ErrSuperAdminRequired
	default:
		return ErrSuperAdminRequired
	}
}

// RequireAdmin passes for organization admins and for super-admins.
func RequireAdmin(identity Identity) error {
	switch identity.principal.(type) {
	case SuperAdmin, OrgAdmin:
		return nil
	case OrgEmployee:
		return ErrAdminRequired
	default:
		return ErrAdminRequired
	}
}

// RequireOrganizationAccess passes for super-admins and for members of requestedOrgID.
// An empty requestedOrgID is denied for everyone but super-admins.
func RequireOrganizationAccess(identity Identity, requestedOrgID string) error {
	switch p := identity.principal.(type) {
	case SuperAdmin:
		return nil
	case OrgAdmin:
		return sameOrganization(p.OrganizationID, requestedOrgID)
	case OrgEmployee:
		return sameOrganization(p.OrganizationID, requestedOrgID)
	default:
		return ErrOrganizationAccessDenied
	}
}

func sameOrganization(own, requested string) error {
	if requested == "" || own != requested {
		return ErrOrganizationAccessDenied
	}
	return nil
}
