package postgresql_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/organization"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-platform-go/internal/fixtures"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-platform-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type repos struct {
	db            *database.DB
	transactor    database.Transactor
	users         user.UserRepository
	organizations organization.OrganizationRepository
	employees     employee.EmployeeRepository
	seeder        *fixtures.Seeder
}

func newRepos(t *testing.T) repos {
	t.Helper()
	db := setupTestDB(t)
	r := repos{
		db:            db,
		transactor:    postgresql.NewTransactor(db),
		users:         postgresql.NewUserRepository(db),
		organizations: postgresql.NewOrganizationRepository(db),
		employees:     postgresql.NewEmployeeRepository(db),
	}
	r.seeder = fixtures.NewSeeder(r.transactor, r.users, r.organizations, r.employees, bcrypt.MinCost)
	return r
}

func (r repos) createOrganization(t *testing.T, name, email string) organization.Organization {
	t.Helper()
	org := organization.Organization{Name: name, Email: email, IsActive: true, Settings: organization.DefaultSettings()}
	org.ApplyPlan(organization.PlanBasic)
	created, err := r.organizations.Create(context.Background(), org)
	require.NoError(t, err)
	return created
}

func newEmployee(organizationID, employeeID, email string) employee.Employee {
	return employee.Employee{
		OrganizationID: organizationID,
		EmployeeID:     employeeID,
		Name:           "Jane Doe",
		Email:          email,
		Department:     "Engineering",
		Position:       "Engineer",
		Status:         employee.StatusActive,
	}
}

func TestSeeder_IsIdempotent(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	first, err := r.seeder.SeedSample(ctx)
	require.NoError(t, err)
	second, err := r.seeder.SeedSample(ctx)
	require.NoError(t, err)

	assert.Equal(t, first.Organization.ID, second.Organization.ID)
	assert.Equal(t, first.Admin.ID, second.Admin.ID)
	require.NotNil(t, second.Organization.AdminID)
	assert.Equal(t, first.Admin.ID, *second.Organization.AdminID)

	counts, err := r.users.CountMembers(ctx, first.Organization.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Admins)
	assert.Equal(t, 1, counts.Employees)

	superAdmin, err := r.seeder.EnsureSuperAdmin(ctx, fixtures.Account{Email: "root@hrplatform.com", Password: "super123", Name: "Root"})
	require.NoError(t, err)
	assert.True(t, superAdmin.IsSuperAdmin)
	assert.Nil(t, superAdmin.OrganizationID)

	found, err := r.users.GetActiveSuperAdminByEmail(ctx, "root@hrplatform.com")
	require.NoError(t, err)
	assert.Equal(t, superAdmin.ID, found.ID)
}

func TestEmployeeRepository_TenantScope(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	orgA := r.createOrganization(t, "Alpha", "alpha@example.com")
	orgB := r.createOrganization(t, "Beta", "beta@example.com")

	empA, err := r.employees.Create(ctx, newEmployee(orgA.ID, "ALP0001", "jane@alpha.com"))
	require.NoError(t, err)
	_, err = r.employees.Create(ctx, newEmployee(orgB.ID, "BET0001", "jane@beta.com"))
	require.NoError(t, err)

	_, err = r.employees.GetByID(ctx, tenant.ForOrganization(orgB.ID), empA.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	got, err := r.employees.GetByID(ctx, tenant.ForOrganization(orgA.ID), empA.ID)
	require.NoError(t, err)
	assert.Equal(t, "ALP0001", got.EmployeeID)

	_, err = r.employees.GetByID(ctx, tenant.Scope{}, empA.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	_, err = r.employees.GetByID(ctx, tenant.Unrestricted(), "not-a-uuid")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)

	list, total, err := r.employees.List(ctx, tenant.ForOrganization(orgA.ID), employee.ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, list, 1)
	assert.Equal(t, orgA.ID, list[0].OrganizationID)

	_, total, err = r.employees.List(ctx, tenant.Unrestricted(), employee.ListFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	err = r.employees.Delete(ctx, tenant.ForOrganization(orgB.ID), empA.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	require.NoError(t, r.employees.Delete(ctx, tenant.ForOrganization(orgA.ID), empA.ID))
}

func TestEmployeeRepository_UniquePerOrganization(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	orgA := r.createOrganization(t, "Alpha", "alpha@example.com")
	orgB := r.createOrganization(t, "Beta", "beta@example.com")

	_, err := r.employees.Create(ctx, newEmployee(orgA.ID, "TS0001", "one@example.com"))
	require.NoError(t, err)

	_, err = r.employees.Create(ctx, newEmployee(orgA.ID, "TS0001", "two@example.com"))
	assert.ErrorIs(t, err, employee.ErrEmployeeIDExists)

	_, err = r.employees.Create(ctx, newEmployee(orgA.ID, "TS0002", "one@example.com"))
	assert.ErrorIs(t, err, employee.ErrEmailExists)

	_, err = r.employees.Create(ctx, newEmployee(orgB.ID, "TS0001", "one@example.com"))
	assert.NoError(t, err)

	exists, err := r.employees.ExistsByEmployeeID(ctx, orgB.ID, "TS0001")
	require.NoError(t, err)
	assert.True(t, exists)

	count, err := r.employees.CountByOrganization(ctx, orgA.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUserRepository_ScopedAccess(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()

	sample, err := r.seeder.SeedSample(ctx)
	require.NoError(t, err)
	other := r.createOrganization(t, "Beta", "beta@example.com")

	_, err = r.users.GetByIDScoped(ctx, tenant.ForOrganization(other.ID), sample.Admin.ID)
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = r.users.UpdateStatus(ctx, tenant.ForOrganization(other.ID), sample.Employee.ID, false)
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	updated, err := r.users.UpdateStatus(ctx, tenant.ForOrganization(sample.Organization.ID), sample.Employee.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	matches, err := r.users.FindActiveByEmailAndRole(ctx, fixtures.SampleEmployee.Email, user.RoleEmployee)
	require.NoError(t, err)
	assert.Empty(t, matches)

	taken, err := r.users.ExistsByEmail(ctx, fixtures.SampleAdmin.Email)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := r.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		org := organization.Organization{Name: "Rollback", Email: "rollback@example.com", IsActive: true, Settings: organization.DefaultSettings()}
		org.ApplyPlan(organization.PlanFree)
		if _, err := r.organizations.Create(txCtx, org); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = r.organizations.GetByEmail(ctx, "rollback@example.com")
	assert.ErrorIs(t, err, organization.ErrOrganizationNotFound)
}

func TestRefreshTokenRepository_Revoke(t *testing.T) {
	r := newRepos(t)
	tokens := postgresql.NewRefreshTokenRepository(r.db)
	ctx := context.Background()

	sample, err := r.seeder.SeedSample(ctx)
	require.NoError(t, err)

	revoked, err := tokens.IsRevoked(ctx, "never-issued")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, tokens.Create(ctx, sample.Admin.ID, "token-1", time.Now().Add(time.Hour), auth.SessionTrackingRequest{UserAgent: "go-test", IPAddress: "127.0.0.1"}))
	revoked, err = tokens.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, tokens.Revoke(ctx, "token-1"))
	revoked, err = tokens.IsRevoked(ctx, "token-1")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.ErrorIs(t, tokens.Revoke(ctx, "token-1"), auth.ErrRefreshTokenNotActive)

	require.NoError(t, tokens.Create(ctx, sample.Admin.ID, "token-2", time.Now().Add(-time.Minute), auth.SessionTrackingRequest{UserAgent: "go-test", IPAddress: "127.0.0.1"}))
	revoked, err = tokens.IsRevoked(ctx, "token-2")
	require.NoError(t, err)
	assert.True(t, revoked)
}
