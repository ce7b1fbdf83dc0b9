package auth

import (
	"context"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/organization"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/user"
)

// Principal is the closed set of caller kinds: SuperAdmin, OrgAdmin or OrgEmployee.
type Principal interface {
	principal()
}

// SuperAdmin is a platform operator with no tenant.
type SuperAdmin struct{}

// OrgAdmin administers one organization.
type OrgAdmin struct {
	OrganizationID string
}

// OrgEmployee is a regular member of one organization.
type OrgEmployee struct {
	OrganizationID string
}

func (SuperAdmin) principal()  {}
func (OrgAdmin) principal()    {}
func (OrgEmployee) principal() {}

// PrincipalFor classifies a stored user. The super-admin flag wins over the role column.
func PrincipalFor(u user.User) (Principal, error) {
	if u.IsSuperAdmin {
		return SuperAdmin{}, nil
	}
	if u.OrganizationID == nil || *u.OrganizationID == "" {
		return nil, ErrUserInactive
	}
	switch u.Role {
	case user.RoleAdmin:
		return OrgAdmin{OrganizationID: *u.OrganizationID}, nil
	case user.RoleEmployee:
		return OrgEmployee{OrganizationID: *u.OrganizationID}, nil
	default:
		return nil, ErrUserInactive
	}
}

// Identity is the authenticated caller of one request. It is built once by the
// authentication middleware and never modified afterwards.
type Identity struct {
	principal    Principal
	user         user.User
	organization *organization.Organization
}

// NewIdentity builds the identity for a freshly loaded user and (for tenant members) its organization.
func NewIdentity(u user.User, org *organization.Organization) (Identity, error) {
	p, err := PrincipalFor(u)
	if err != nil {
		return Identity{}, err
	}
	var orgCopy *organization.Organization
	if org != nil {
		o := *org
		orgCopy = &o
	}
	return Identity{principal: p, user: u, organization: orgCopy}, nil
}

func (i Identity) Principal() Principal { return i.principal }
func (i Identity) UserID() string       { return i.user.ID }
func (i Identity) Email() string        { return i.user.Email }

// User returns a copy of the user record loaded for this request.
func (i Identity) User() user.User { return i.user }

// Organization returns a copy of the caller's organization; ok is false for super-admins.
func (i Identity) Organization() (organization.Organization, bool) {
	if i.organization == nil {
		return organization.Organization{}, false
	}
	return *i.organization, true
}

// OrganizationID is empty for super-admins.
func (i Identity) OrganizationID() string {
	switch p := i.principal.(type) {
	case OrgAdmin:
		return p.OrganizationID
	case OrgEmployee:
		return p.OrganizationID
	default:
		return ""
	}
}

func (i Identity) IsSuperAdmin() bool {
	_, ok := i.principal.(SuperAdmin)
	return ok
}

// DeriveScope returns the tenant filter for identity.
func DeriveScope(i Identity) tenant.Scope {
	switch p := i.principal.(type) {
	case SuperAdmin:
		return tenant.Unrestricted()
	case OrgAdmin:
		return tenant.ForOrganization(p.OrganizationID)
	case OrgEmployee:
		return tenant.ForOrganization(p.OrganizationID)
	default:
		return tenant.Scope{}
	}
}

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying identity.
func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFromContext returns the identity stored by WithIdentity.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityKey{}).(Identity)
	return identity, ok && identity.principal != nil
}
