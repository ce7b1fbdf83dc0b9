package employee

import (
	"context"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/tenant"
)

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, scope tenant.Scope, id string) (Employee, error)
	List(ctx context.Context, scope tenant.Scope, filter ListFilter) ([]Employee, int64, error)
	ListByManager(ctx context.Context, scope tenant.Scope, managerID string) ([]Employee, error)
	Update(ctx context.Context, scope tenant.Scope, emp Employee) (Employee, error)
	Delete(ctx context.Context, scope tenant.Scope, id string) error
	CountByOrganization(ctx context.Context, organizationID string) (int, error)
	ExistsByEmployeeID(ctx context.Context, organizationID, employeeID string) (bool, error)
	// ExistsByEmail ignores the row with id excludeID when it is non-empty.
	ExistsByEmail(ctx context.Context, organizationID, email, excludeID string) (bool, error)
}
