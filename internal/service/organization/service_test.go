package organization

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/organization"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hr-platform-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService() (*memory.Store, organization.OrganizationService) {
	store := memory.NewStore()
	return store, NewOrganizationService(store, store.Organizations(), store.Users(), bcrypt.MinCost)
}

func createRequest(name, email, adminEmail string) organization.CreateOrganizationRequest {
	return organization.CreateOrganizationRequest{
		Name:          name,
		Email:         email,
		Industry:      "Technology",
		AdminName:     "Org Admin",
		AdminEmail:    adminEmail,
		AdminPassword: "admin123",
	}
}

func TestCreate_WithAdmin(t *testing.T) {
	store, svc := newService()
	ctx := context.Background()

	req := createRequest("Acme Corp", "HR@Acme.com", "boss@acme.com")
	req.SubscriptionPlan = organization.PlanBasic
	org, admin, err := svc.Create(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, "hr@acme.com", org.Email)
	assert.Equal(t, organization.PlanBasic, org.SubscriptionPlan)
	assert.Equal(t, 50, org.EmployeeLimit)
	assert.True(t, org.IsActive)
	assert.Equal(t, organization.DefaultSettings(), org.Settings)
	require.NotNil(t, org.AdminID)
	assert.Equal(t, admin.ID, *org.AdminID)
	assert.Equal(t, "boss@acme.com", admin.Email)

	stored, err := store.Users().GetByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, stored.Role)
	assert.True(t, stored.BelongsTo(org.ID))
	assert.True(t, stored.ValidatePassword("admin123"))

	reloaded, err := store.Organizations().GetByID(ctx, org.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.AdminID)
	assert.Equal(t, admin.ID, *reloaded.AdminID)
}

func TestCreate_DefaultsToFreePlan(t *testing.T) {
	_, svc := newService()

	org, _, err := svc.Create(context.Background(), createRequest("Small Shop", "hi@shop.com", "me@shop.com"))
	require.NoError(t, err)
	assert.Equal(t, organization.PlanFree, org.SubscriptionPlan)
	assert.Equal(t, 10, org.EmployeeLimit)
}

func TestCreate_Conflicts(t *testing.T) {
	store, svc := newService()
	ctx := context.Background()

	_, _, err := svc.Create(ctx, createRequest("Acme Corp", "hr@acme.com", "boss@acme.com"))
	require.NoError(t, err)

	_, _, err = svc.Create(ctx, createRequest("Acme Again", "hr@acme.com", "other@acme.com"))
	assert.ErrorIs(t, err, organization.ErrEmailExists)

	_, _, err = svc.Create(ctx, createRequest("Globex", "hr@globex.com", "boss@acme.com"))
	assert.ErrorIs(t, err, organization.ErrAdminEmailExists)

	_, total, err := store.Organizations().List(ctx, tenant.Unrestricted(), organization.ListFilter{Params: pagination.Params{Page: 1, Limit: 20}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestCreate_Validation(t *testing.T) {
	_, svc := newService()

	req := createRequest("A", "not-an-email", "boss@acme.com")
	req.AdminPassword = "123"
	_, _, err := svc.Create(context.Background(), req)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := verrs.ToMap()
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "adminPassword")
}

func TestGetByID_TenantScope(t *testing.T) {
	_, svc := newService()
	ctx := context.Background()

	acme, _, err := svc.Create(ctx, createRequest("Acme Corp", "hr@acme.com", "boss@acme.com"))
	require.NoError(t, err)
	globex, _, err := svc.Create(ctx, createRequest("Globex", "hr@globex.com", "boss@globex.com"))
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, tenant.ForOrganization(acme.ID), acme.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", got.Name)

	_, err = svc.GetByID(ctx, tenant.ForOrganization(acme.ID), globex.ID)
	assert.ErrorIs(t, err, auth.ErrOrganizationAccessDenied)

	_, err = svc.GetByID(ctx, tenant.Unrestricted(), globex.ID)
	assert.NoError(t, err)

	_, err = svc.GetByID(ctx, tenant.Unrestricted(), "cccccccc-0000-4000-8000-000000000003")
	assert.ErrorIs(t, err, organization.ErrOrganizationNotFound)
}

func TestList_ScopedAndSearchable(t *testing.T) {
	_, svc := newService()
	ctx := context.Background()

	acme, _, err := svc.Create(ctx, createRequest("Acme Corp", "hr@acme.com", "boss@acme.com"))
	require.NoError(t, err)
	_, _, err = svc.Create(ctx, createRequest("Globex", "hr@globex.com", "boss@globex.com"))
	require.NoError(t, err)

	all, total, err := svc.List(ctx, tenant.Unrestricted(), organization.ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	own, total, err := svc.List(ctx, tenant.ForOrganization(acme.ID), organization.ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, own, 1)
	assert.Equal(t, acme.ID, own[0].ID)

	found, _, err := svc.List(ctx, tenant.Unrestricted(), organization.ListFilter{Search: "glob"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Globex", found[0].Name)
}

func TestUpdate(t *testing.T) {
	_, svc := newService()
	ctx := context.Background()

	acme, _, err := svc.Create(ctx, createRequest("Acme Corp", "hr@acme.com", "boss@acme.com"))
	require.NoError(t, err)
	globex, _, err := svc.Create(ctx, createRequest("Globex", "hr@globex.com", "boss@globex.com"))
	require.NoError(t, err)

	name := "Acme Holdings"
	plan := organization.PlanEnterprise
	updated, err := svc.Update(ctx, tenant.ForOrganization(acme.ID), acme.ID, organization.UpdateOrganizationRequest{
		Name:             &name,
		SubscriptionPlan: &plan,
	})
	require.NoError(t, err)
	assert.Equal(t, "Acme Holdings", updated.Name)
	assert.True(t, updated.IsUnlimited())
	assert.Equal(t, "hr@acme.com", updated.Email)

	taken := "hr@globex.com"
	_, err = svc.Update(ctx, tenant.ForOrganization(acme.ID), acme.ID, organization.UpdateOrganizationRequest{Email: &taken})
	assert.ErrorIs(t, err, organization.ErrEmailExists)

	_, err = svc.Update(ctx, tenant.ForOrganization(acme.ID), globex.ID, organization.UpdateOrganizationRequest{Name: &name})
	assert.ErrorIs(t, err, auth.ErrOrganizationAccessDenied)
}

func TestStats(t *testing.T) {
	store, svc := newService()
	ctx := context.Background()

	org, _, err := svc.Create(ctx, createRequest("Acme Corp", "hr@acme.com", "boss@acme.com"))
	require.NoError(t, err)

	for i, email := range []string{"a@acme.com", "b@acme.com", "c@acme.com"} {
		_, err := store.Users().Create(ctx, user.User{
			OrganizationID: &org.ID,
			Email:          email,
			Name:           "Member",
			Role:           user.RoleEmployee,
			IsActive:       i < 2,
		})
		require.NoError(t, err)
	}

	stats, err := svc.Stats(ctx, tenant.ForOrganization(org.ID), org.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalUsers)
	assert.Equal(t, 1, stats.AdminCount)
	assert.Equal(t, 2, stats.EmployeeCount)
	assert.Equal(t, 10, stats.EmployeeLimit)
	assert.Equal(t, 40, stats.UsagePercentage)
	assert.Equal(t, organization.PlanFree, stats.SubscriptionPlan)

	_, err = svc.Stats(ctx, tenant.ForOrganization("bbbbbbbb-0000-4000-8000-000000000002"), org.ID)
	assert.ErrorIs(t, err, auth.ErrOrganizationAccessDenied)
}

func TestUpdateStatus(t *testing.T) {
	_, svc := newService()
	ctx := context.Background()

	org, _, err := svc.Create(ctx, createRequest("Acme Corp", "hr@acme.com", "boss@acme.com"))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, org.ID, organization.UpdateStatusRequest{})
	var verrs validator.ValidationErrors
	assert.True(t, errors.As(err, &verrs))

	inactive := false
	updated, err := svc.UpdateStatus(ctx, org.ID, organization.UpdateStatusRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}
