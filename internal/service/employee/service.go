package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/organization"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/tenant"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/validator"
)

// maxEmployeeIDAttempts bounds the search for a free generated id when earlier ids were deleted.
const maxEmployeeIDAttempts = 100

type EmployeeServiceImpl struct {
	transactor    database.Transactor
	employees     employee.EmployeeRepository
	organizations organization.OrganizationRepository
	users         user.UserRepository
}

func NewEmployeeService(
	transactor database.Transactor,
	employeeRepo employee.EmployeeRepository,
	organizationRepo organization.OrganizationRepository,
	userRepo user.UserRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		transactor:    transactor,
		employees:     employeeRepo,
		organizations: organizationRepo,
		users:         userRepo,
	}
}

// targetOrganization resolves which tenant a new employee is created in.
func targetOrganization(scope tenant.Scope, requested *string) (string, error) {
	if scope.IsUnrestricted() {
		if requested == nil || *requested == "" {
			return "", employee.ErrOrganizationNeeded
		}
		return *requested, nil
	}

	own, _ := scope.OrganizationFilter()
	if own == "" {
		return "", auth.ErrOrganizationAccessDenied
	}
	if requested != nil && *requested != "" && *requested != own {
		return "", auth.ErrOrganizationAccessDenied
	}
	return own, nil
}

func (s *EmployeeServiceImpl) List(ctx context.Context, scope tenant.Scope, filter employee.ListFilter) ([]employee.Employee, int64, error) {
	var errs validator.ValidationErrors
	if filter.Status != "" && !filter.Status.IsValid() {
		errs.Add("status", "Invalid status")
	}
	if filter.OrganizationID != "" && !validator.IsValidUUID(filter.OrganizationID) {
		errs.Add("organizationId", "Valid organization ID required")
	}
	if err := errs.Err(); err != nil {
		return nil, 0, err
	}
	filter.Params = filter.Params.Normalize()
	return s.employees.List(ctx, scope.Narrow(filter.OrganizationID), filter)
}

// Create implements employee.EmployeeService.
func (s *EmployeeServiceImpl) Create(ctx context.Context, scope tenant.Scope, req employee.CreateEmployeeRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	organizationID, err := targetOrganization(scope, req.OrganizationID)
	if err != nil {
		return employee.Employee{}, err
	}
	orgScope := tenant.ForOrganization(organizationID)

	var created employee.Employee
	err = s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		org, err := s.organizations.LockByID(txCtx, organizationID)
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

		if req.ManagerID != nil {
			if _, err := s.employees.GetByID(txCtx, orgScope, *req.ManagerID); err != nil {
				if errors.Is(err, employee.ErrEmployeeNotFound) {
					return employee.ErrManagerNotFound
				}
				return fmt.Errorf("failed to load manager: %w", err)
			}
		}

		if req.EmployeeID == "" {
			req.EmployeeID, err = s.nextEmployeeID(txCtx, org.ID)
			if err != nil {
				return err
			}
		} else {
			taken, err := s.employees.ExistsByEmployeeID(txCtx, org.ID, req.EmployeeID)
			if err != nil {
				return fmt.Errorf("failed to check employee id: %w", err)
			}
			if taken {
				return employee.ErrEmployeeIDExists
			}
		}

		taken, err := s.employees.ExistsByEmail(txCtx, org.ID, req.Email, "")
		if err != nil {
			return fmt.Errorf("failed to check employee email: %w", err)
		}
		if taken {
			return employee.ErrEmailExists
		}

		created, err = s.employees.Create(txCtx, req.ToEmployee(org.ID))
		return err
	})
	if err != nil {
		return employee.Employee{}, err
	}

	slog.Info("employee created", "employee_id", created.ID, "organization_id", created.OrganizationID)
	return created, nil
}

func (s *EmployeeServiceImpl) nextEmployeeID(ctx context.Context, organizationID string) (string, error) {
	count, err := s.employees.CountByOrganization(ctx, organizationID)
	if err != nil {
		return "", fmt.Errorf("failed to count employees: %w", err)
	}

	for i := 0; i < maxEmployeeIDAttempts; i++ {
		candidate := employee.GenerateEmployeeID(organizationID, count+i)
		taken, err := s.employees.ExistsByEmployeeID(ctx, organizationID, candidate)
		if err != nil {
			return "", fmt.Errorf("failed to check employee id: %w", err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", employee.ErrEmployeeIDExists
}

func (s *EmployeeServiceImpl) GetByID(ctx context.Context, scope tenant.Scope, id string) (employee.Employee, error) {
	return s.employees.GetByID(ctx, scope, id)
}

// Update implements employee.EmployeeService. A new manager must be in the same tenant and
// must not report, directly or indirectly, to the employee being updated.
func (s *EmployeeServiceImpl) Update(ctx context.Context, scope tenant.Scope, id string, req employee.UpdateEmployeeRequest) (employee.Employee, error) {
	if err := req.Validate(); err != nil {
		return employee.Employee{}, err
	}

	var updated employee.Employee
	err := s.transactor.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.employees.GetByID(txCtx, scope, id)
		if err != nil {
			return err
		}
		orgScope := tenant.ForOrganization(current.OrganizationID)

		if req.Email != nil && *req.Email != current.Email {
			taken, err := s.employees.ExistsByEmail(txCtx, current.OrganizationID, *req.Email, current.ID)
			if err != nil {
				return fmt.Errorf("failed to check employee email: %w", err)
			}
			if taken {
				return employee.ErrEmailExists
			}
		}

		if req.ManagerID != nil {
			if _, err := s.employees.GetByID(txCtx, orgScope, *req.ManagerID); err != nil {
				if errors.Is(err, employee.ErrEmployeeNotFound) {
					return employee.ErrManagerNotFound
				}
				return fmt.Errorf("failed to load manager: %w", err)
			}

			lookup := func(ctx context.Context, employeeID string) (*string, error) {
				e, err := s.employees.GetByID(ctx, orgScope, employeeID)
				if err != nil {
					if errors.Is(err, employee.ErrEmployeeNotFound) {
						return nil, nil
					}
					return nil, err
				}
				return e.ManagerID, nil
			}
			if err := employee.CheckManagerChain(txCtx, current.ID, *req.ManagerID, lookup); err != nil {
				return err
			}
		}

		req.Apply(&current)
		updated, err = s.employees.Update(txCtx, scope, current)
		return err
	})
	if err != nil {
		return employee.Employee{}, err
	}
	return updated, nil
}

func (s *EmployeeServiceImpl) Delete(ctx context.Context, scope tenant.Scope, id string) error {
	if err := s.employees.Delete(ctx, scope, id); err != nil {
		return err
	}
	slog.Info("employee deleted", "employee_id", id)
	return nil
}

// Subordinates returns the direct reports of an employee, one level deep.
func (s *EmployeeServiceImpl) Subordinates(ctx context.Context, scope tenant.Scope, id string) ([]employee.Employee, error) {
	manager, err := s.employees.GetByID(ctx, scope, id)
	if err != nil {
		return nil, err
	}
	return s.employees.ListByManager(ctx, tenant.ForOrganization(manager.OrganizationID), manager.ID)
}
