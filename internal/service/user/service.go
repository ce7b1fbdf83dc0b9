package user

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/organization"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/validator"
)

type UserServiceImpl struct {
	transactor    database.Transactor
	users         user.UserRepository
	organizations organization.OrganizationRepository
	bcryptCost    int
}

func NewUserService(transactor database.Transactor, userRepository user.UserRepository, organizationRepository organization.OrganizationRepository, bcryptCost int) user.UserService {
	return &UserServiceImpl{
		transactor:    transactor,
		users:         userRepository,
		organizations: organizationRepository,
		bcryptCost:    bcryptCost,
	}
}

// targetOrganization picks the tenant a new member joins: the caller's own for tenant admins,
// the requested one for super-admins.
func targetOrganization(scope tenant.Scope, requested *string) (string, error) {
	if scope.IsUnrestricted() {
		if requested == nil || *requested == "" {
			var errs validator.ValidationErrors
			errs.Add("organizationId", "organizationId is required")
			return "", errs
		}
		return *requested, nil
	}

	orgID, _ := scope.OrganizationFilter()
	if requested != nil && *requested != orgID {
		return "", auth.ErrOrganizationAccessDenied
	}
	if orgID == "" {
		return "", auth.ErrOrganizationAccessDenied
	}
	return orgID, nil
}

// Create implements user.UserService.
func (s *UserServiceImpl) Create(ctx context.Context, scope tenant.Scope, req user.CreateUserRequest) (user.User, error) {
	if err := req.Validate(); err != nil {
		return user.User{}, err
	}

	orgID, err := targetOrganization(scope, req.OrganizationID)
	if err != nil {
		return user.User{}, err
	}

	hash, err := user.HashPassword(req.Password, s.bcryptCost)
	if err != nil {
		return user.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	var created user.User
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		org, err := s.organizations.LockByID(txCtx, orgID)
		if err != nil {
			return err
		}

		counts, err := s.users.CountMembers(txCtx, org.ID)
		if err != nil {
			return fmt.Errorf("failed to count members: %w", err)
		}
		if !org.CanAddMember(counts.Total()) {
			return organization.ErrMemberLimitReached
		}

		created, err = s.users.Create(txCtx, user.User{
			OrganizationID: &org.ID,
			Email:          req.Email,
			PasswordHash:   hash,
			Name:           req.Name,
			Role:           req.Role,
			IsActive:       true,
		})
		return err
	})
	if err != nil {
		return user.User{}, err
	}
	return created, nil
}

// List implements user.UserService.
func (s *UserServiceImpl) List(ctx context.Context, scope tenant.Scope, filter user.ListFilter) ([]user.User, int64, error) {
	filter.Params = filter.Params.Normalize()
	if filter.Role != "" && !filter.Role.IsValid() {
		var errs validator.ValidationErrors
		errs.Add("role", "Role must be admin or employee")
		return nil, 0, errs
	}
	return s.users.List(ctx, scope, filter)
}

// UpdateStatus implements user.UserService. Deactivation takes effect on the user's next request.
func (s *UserServiceImpl) UpdateStatus(ctx context.Context, scope tenant.Scope, callerID string, id string, req user.UpdateStatusRequest) (user.User, error) {
	if err := req.Validate(); err != nil {
		return user.User{}, err
	}
	if id == callerID {
		return user.User{}, user.ErrCannotDeactivateSelf
	}
	return s.users.UpdateStatus(ctx, scope, id, *req.IsActive)
}

// ChangePassword implements user.UserService.
func (s *UserServiceImpl) ChangePassword(ctx context.Context, userID string, req user.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !u.ValidatePassword(req.CurrentPassword) {
		return user.ErrIncorrectPassword
	}
	if req.CurrentPassword == req.NewPassword {
		return user.ErrSamePassword
	}

	hash, err := user.HashPassword(req.NewPassword, s.bcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}
