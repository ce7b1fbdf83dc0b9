package fixtures

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/organization"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func strPtr(s string) *string { return &s }

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func decimalPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// ==========================================
// SAMPLE DATA
// ==========================================

// Account is a login seeded into the store.
type Account struct {
	Email    string
	Password string
	Name     string
	Role     user.Role
}

var (
	SampleAdmin    = Account{Email: "admin@hr.com", Password: "admin123", Name: "Admin User", Role: user.RoleAdmin}
	SampleEmployee = Account{Email: "employee@hr.com", Password: "employee123", Name: "John Employee", Role: user.RoleEmployee}
)

// SampleOrganization returns the demo tenant "Tech Solutions Inc." on the Premium plan.
func SampleOrganization() organization.Organization {
	settings := organization.DefaultSettings()
	settings.TimeZone = "PST"

	org := organization.Organization{
		Name:     "Tech Solutions Inc.",
		Email:    "admin@techsolutions.com",
		Phone:    strPtr("+1-555-0101"),
		Address:  strPtr("123 Tech Street, Silicon Valley, CA 94025"),
		Industry: "Technology",
		TaxID:    strPtr("TAX-001-2023"),
		Website:  strPtr("https://techsolutions.com"),
		IsActive: true,
		Settings: settings,
	}
	org.ApplyPlan(organization.PlanPremium)
	return org
}

// SampleEmployeeRecord is the HR record of the sample employee login.
func SampleEmployeeRecord(organizationID string, userID *string) employee.Employee {
	return employee.Employee{
		OrganizationID: organizationID,
		UserID:         userID,
		EmployeeID:     employee.GenerateEmployeeID(organizationID, 0),
		Name:           SampleEmployee.Name,
		Email:          SampleEmployee.Email,
		Phone:          strPtr("+1-555-0102"),
		Department:     "Engineering",
		Position:       "Software Engineer",
		JoinDate:       datePtr(2023, time.January, 15),
		HireDate:       datePtr(2023, time.January, 15),
		Salary:         decimalPtr(5000),
		Status:         employee.StatusActive,
	}
}

// ==========================================
// SEEDER
// ==========================================

// SampleTenant is what SeedSample created or found.
type SampleTenant struct {
	Organization organization.Organization
	Admin        user.User
	Employee     user.User
}

type Seeder struct {
	transactor    database.Transactor
	users         user.UserRepository
	organizations organization.OrganizationRepository
	employees     employee.EmployeeRepository
	bcryptCost    int
}

func NewSeeder(
	transactor database.Transactor,
	userRepository user.UserRepository,
	organizationRepository organization.OrganizationRepository,
	employeeRepository employee.EmployeeRepository,
	bcryptCost int,
) *Seeder {
	return &Seeder{
		transactor:    transactor,
		users:         userRepository,
		organizations: organizationRepository,
		employees:     employeeRepository,
		bcryptCost:    bcryptCost,
	}
}

// EnsureSuperAdmin creates the platform super-admin unless an active one with that email exists.
func (s *Seeder) EnsureSuperAdmin(ctx context.Context, account Account) (user.User, error) {
	existing, err := s.users.GetActiveSuperAdminByEmail(ctx, account.Email)
	if err == nil {
		slog.Info("super admin already exists", "email", existing.Email)
		return existing, nil
	}
	if !errors.Is(err, user.ErrUserNotFound) {
		return user.User{}, fmt.Errorf("look up super admin: %w", err)
	}

	hash, err := user.HashPassword(account.Password, s.bcryptCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash super admin password: %w", err)
	}

	created, err := s.users.Create(ctx, user.User{
		Email:         account.Email,
		PasswordHash:  hash,
		Name:          account.Name,
		Role:          user.RoleAdmin,
		IsSuperAdmin:  true,
		IsActive:      true,
		EmailVerified: true,
	})
	if err != nil {
		return user.User{}, fmt.Errorf("create super admin: %w", err)
	}
	slog.Info("super admin created", "email", created.Email)
	return created, nil
}

// SeedSample creates the demo tenant with one admin and one employee. Running it again reuses
// whatever already exists.
func (s *Seeder) SeedSample(ctx context.Context) (SampleTenant, error) {
	var out SampleTenant

	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		sample := SampleOrganization()

		org, err := s.organizations.GetByEmail(txCtx, sample.Email)
		switch {
		case errors.Is(err, organization.ErrOrganizationNotFound):
			if org, err = s.organizations.Create(txCtx, sample); err != nil {
				return fmt.Errorf("create sample organization: %w", err)
			}
			slog.Info("sample organization created", "name", org.Name)
		case err != nil:
			return fmt.Errorf("look up sample organization: %w", err)
		}

		admin, err := s.ensureMember(txCtx, org.ID, SampleAdmin)
		if err != nil {
			return err
		}
		if org.AdminID == nil {
			if err := s.organizations.SetAdmin(txCtx, org.ID, admin.ID); err != nil {
				return fmt.Errorf("set sample organization admin: %w", err)
			}
			org.AdminID = &admin.ID
		}

		emp, err := s.ensureMember(txCtx, org.ID, SampleEmployee)
		if err != nil {
			return err
		}

		exists, err := s.employees.ExistsByEmail(txCtx, org.ID, SampleEmployee.Email, "")
		if err != nil {
			return fmt.Errorf("look up sample employee record: %w", err)
		}
		if !exists {
			if _, err := s.employees.Create(txCtx, SampleEmployeeRecord(org.ID, &emp.ID)); err != nil {
				return fmt.Errorf("create sample employee record: %w", err)
			}
		}

		out = SampleTenant{Organization: org, Admin: admin, Employee: emp}
		return nil
	})
	if err != nil {
		return SampleTenant{}, err
	}
	return out, nil
}

func (s *Seeder) ensureMember(ctx context.Context, organizationID string, account Account) (user.User, error) {
	existing, _, err := s.users.List(ctx, tenant.ForOrganization(organizationID), user.ListFilter{Search: account.Email})
	if err != nil {
		return user.User{}, fmt.Errorf("look up %s: %w", account.Email, err)
	}
	for _, u := range existing {
		if u.Email == account.Email {
			return u, nil
		}
	}

	hash, err := user.HashPassword(account.Password, s.bcryptCost)
	if err != nil {
		return user.User{}, fmt.Errorf("hash password for %s: %w", account.Email, err)
	}

	orgID := organizationID
	created, err := s.users.Create(ctx, user.User{
		OrganizationID: &orgID,
		Email:          account.Email,
		PasswordHash:   hash,
		Name:           account.Name,
		Role:           account.Role,
		IsActive:       true,
		EmailVerified:  true,
	})
	if err != nil {
		return user.User{}, fmt.Errorf("create %s: %w", account.Email, err)
	}
	slog.Info("sample user created", "email", created.Email, "role", created.Role)
	return created, nil
}
