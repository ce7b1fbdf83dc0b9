package auth

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/organization"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	orgA = "aaaaaaaa-0000-4000-8000-000000000001"
	orgB = "bbbbbbbb-0000-4000-8000-000000000002"
)

func mustIdentity(t *testing.T, u user.User) Identity {
	t.Helper()
	var org *organization.Organization
	if u.OrganizationID != nil {
		org = &organization.Organization{ID: *u.OrganizationID, IsActive: true}
	}
	identity, err := NewIdentity(u, org)
	require.NoError(t, err)
	return identity
}

func member(role user.Role, orgID string) user.User {
	return user.User{ID: "u-" + string(role), Role: role, OrganizationID: &orgID, IsActive: true}
}

func TestPrincipalFor(t *testing.T) {
	p, err := PrincipalFor(user.User{IsSuperAdmin: true, Role: user.RoleEmployee})
	require.NoError(t, err)
	assert.Equal(t, SuperAdmin{}, p)

	p, err = PrincipalFor(member(user.RoleAdmin, orgA))
	require.NoError(t, err)
	assert.Equal(t, OrgAdmin{OrganizationID: orgA}, p)

	p, err = PrincipalFor(member(user.RoleEmployee, orgA))
	require.NoError(t, err)
	assert.Equal(t, OrgEmployee{OrganizationID: orgA}, p)

	_, err = PrincipalFor(user.User{Role: user.RoleAdmin})
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name    string
		user    user.User
		wantErr error
	}{
		{"admin passes", member(user.RoleAdmin, orgA), nil},
		{"super admin passes regardless of role", user.User{ID: "s", IsSuperAdmin: true, Role: user.RoleEmployee}, nil},
		{"employee fails", member(user.RoleEmployee, orgA), ErrAdminRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireAdmin(mustIdentity(t, tt.user))
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestRequireSuperAdmin(t *testing.T) {
	assert.NoError(t, RequireSuperAdmin(mustIdentity(t, user.User{ID: "s", IsSuperAdmin: true})))
	assert.ErrorIs(t, RequireSuperAdmin(mustIdentity(t, member(user.RoleAdmin, orgA))), ErrSuperAdminRequired)
	assert.ErrorIs(t, RequireSuperAdmin(mustIdentity(t, member(user.RoleEmployee, orgA))), ErrSuperAdminRequired)
	assert.ErrorIs(t, RequireSuperAdmin(Identity{}), ErrSuperAdminRequired)
}

func TestRequireOrganizationAccess(t *testing.T) {
	super := mustIdentity(t, user.User{ID: "s", IsSuperAdmin: true})
	admin := mustIdentity(t, member(user.RoleAdmin, orgA))
	employee := mustIdentity(t, member(user.RoleEmployee, orgA))

	assert.NoError(t, RequireOrganizationAccess(super, orgB))
	assert.NoError(t, RequireOrganizationAccess(super, ""))
	assert.NoError(t, RequireOrganizationAccess(admin, orgA))
	assert.NoError(t, RequireOrganizationAccess(employee, orgA))
	assert.ErrorIs(t, RequireOrganizationAccess(admin, orgB), ErrOrganizationAccessDenied)
	assert.ErrorIs(t, RequireOrganizationAccess(employee, ""), ErrOrganizationAccessDenied)
}

func TestDeriveScope(t *testing.T) {
	assert.True(t, DeriveScope(mustIdentity(t, user.User{ID: "s", IsSuperAdmin: true})).IsUnrestricted())

	scope := DeriveScope(mustIdentity(t, member(user.RoleEmployee, orgA)))
	assert.True(t, scope.Allows(orgA))
	assert.False(t, scope.Allows(orgB))

	assert.False(t, DeriveScope(Identity{}).Allows(orgA))
}

func TestIdentityContext(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)

	identity := mustIdentity(t, member(user.RoleAdmin, orgA))
	got, ok := IdentityFromContext(WithIdentity(context.Background(), identity))
	require.True(t, ok)
	assert.Equal(t, identity.UserID(), got.UserID())
	assert.Equal(t, orgA, got.OrganizationID())

	org, ok := got.Organization()
	require.True(t, ok)
	org.IsActive = false
	again, _ := got.Organization()
	assert.True(t, again.IsActive)
}
