package organization

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/organization"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/database"
)

type OrganizationServiceImpl struct {
	transactor    database.Transactor
	organizations organization.OrganizationRepository
	users         user.UserRepository
	bcryptCost    int
}

func NewOrganizationService(transactor database.Transactor, organizationRepository organization.OrganizationRepository, userRepository user.UserRepository, bcryptCost int) organization.OrganizationService {
	return &OrganizationServiceImpl{
		transactor:    transactor,
		organizations: organizationRepository,
		users:         userRepository,
		bcryptCost:    bcryptCost,
	}
}

// List implements organization.OrganizationService.
func (o *OrganizationServiceImpl) List(ctx context.Context, scope tenant.Scope, filter organization.ListFilter) ([]organization.Organization, int64, error) {
	filter.Params = filter.Params.Normalize()
	return o.organizations.List(ctx, scope, filter)
}

// Create implements organization.OrganizationService. The organization and its first admin
// are created in one transaction.
func (o *OrganizationServiceImpl) Create(ctx context.Context, req organization.CreateOrganizationRequest) (organization.Organization, organization.AdminSummary, error) {
	if err := req.Validate(); err != nil {
		return organization.Organization{}, organization.AdminSummary{}, err
	}

	hash, err := user.HashPassword(req.AdminPassword, o.bcryptCost)
	if err != nil {
		return organization.Organization{}, organization.AdminSummary{}, fmt.Errorf("failed to hash admin password: %w", err)
	}

	var created organization.Organization
	var admin user.User
	err = o.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		_, err := o.organizations.GetByEmail(txCtx, req.Email)
		if err == nil {
			return organization.ErrEmailExists
		}
		if !errors.Is(err, organization.ErrOrganizationNotFound) {
			return fmt.Errorf("failed to check organization email: %w", err)
		}

		taken, err := o.users.ExistsByEmail(txCtx, req.AdminEmail)
		if err != nil {
			return fmt.Errorf("failed to check admin email: %w", err)
		}
		if taken {
			return organization.ErrAdminEmailExists
		}

		newOrg := organization.Organization{
			Name:     req.Name,
			Email:    req.Email,
			Phone:    req.Phone,
			Address:  req.Address,
			Industry: req.Industry,
			Website:  req.Website,
			TaxID:    req.TaxID,
			IsActive: true,
			Settings: organization.DefaultSettings(),
		}
		newOrg.ApplyPlan(req.SubscriptionPlan)

		created, err = o.organizations.Create(txCtx, newOrg)
		if err != nil {
			return err
		}

		admin, err = o.users.Create(txCtx, user.User{
			OrganizationID: &created.ID,
			Email:          req.AdminEmail,
			PasswordHash:   hash,
			Name:           req.AdminName,
			Role:           user.RoleAdmin,
			IsActive:       true,
			EmailVerified:  true,
		})
		if err != nil {
			if errors.Is(err, user.ErrUserEmailExists) {
				return organization.ErrAdminEmailExists
			}
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		if err := o.organizations.SetAdmin(txCtx, created.ID, admin.ID); err != nil {
			return fmt.Errorf("failed to set organization admin: %w", err)
		}
		created.AdminID = &admin.ID
		return nil
	})
	if err != nil {
		return organization.Organization{}, organization.AdminSummary{}, err
	}

	slog.Info("organization created", "organization_id", created.ID, "plan", created.SubscriptionPlan)
	return created, organization.AdminSummary{ID: admin.ID, Name: admin.Name, Email: admin.Email}, nil
}

// GetByID implements organization.OrganizationService.
func (o *OrganizationServiceImpl) GetByID(ctx context.Context, scope tenant.Scope, id string) (organization.Organization, error) {
	if !scope.Allows(id) {
		return organization.Organization{}, auth.ErrOrganizationAccessDenied
	}
	return o.organizations.GetByID(ctx, id)
}

// Update implements organization.OrganizationService.
func (o *OrganizationServiceImpl) Update(ctx context.Context, scope tenant.Scope, id string, req organization.UpdateOrganizationRequest) (organization.Organization, error) {
	if err := req.Validate(); err != nil {
		return organization.Organization{}, err
	}
	if !scope.Allows(id) {
		return organization.Organization{}, auth.ErrOrganizationAccessDenied
	}

	var updated organization.Organization
	err := o.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		org, err := o.organizations.LockByID(txCtx, id)
		if err != nil {
			return err
		}

		if req.Email != nil && *req.Email != org.Email {
			other, err := o.organizations.GetByEmail(txCtx, *req.Email)
			if err == nil && other.ID != org.ID {
				return organization.ErrEmailExists
			}
			if err != nil && !errors.Is(err, organization.ErrOrganizationNotFound) {
				return fmt.Errorf("failed to check organization email: %w", err)
			}
		}

		req.Apply(&org)
		updated, err = o.organizations.Update(txCtx, org)
		return err
	})
	if err != nil {
		return organization.Organization{}, err
	}
	return updated, nil
}

// Stats implements organization.OrganizationService. Head counts cover active members; usage
// is measured against every seat taken.
func (o *OrganizationServiceImpl) Stats(ctx context.Context, scope tenant.Scope, id string) (organization.Stats, error) {
	org, err := o.GetByID(ctx, scope, id)
	if err != nil {
		return organization.Stats{}, err
	}

	counts, err := o.users.CountMembers(ctx, org.ID)
	if err != nil {
		return organization.Stats{}, fmt.Errorf("failed to count members: %w", err)
	}

	return organization.Stats{
		TotalUsers:       counts.ActiveTotal(),
		AdminCount:       counts.ActiveAdmins,
		EmployeeCount:    counts.ActiveEmployees,
		EmployeeLimit:    org.EmployeeLimit,
		UsagePercentage:  org.UsagePercentage(counts.Total()),
		SubscriptionPlan: org.SubscriptionPlan,
		IsActive:         org.IsActive,
		RegisteredDate:   org.RegisteredDate,
	}, nil
}

// UpdateStatus implements organization.OrganizationService. Members of a deactivated organization
// are refused on their next request.
func (o *OrganizationServiceImpl) UpdateStatus(ctx context.Context, id string, req organization.UpdateStatusRequest) (organization.Organization, error) {
	if err := req.Validate(); err != nil {
		return organization.Organization{}, err
	}
	return o.organizations.UpdateStatus(ctx, id, *req.IsActive)
}
