package employee

import (
	"context"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/tenant"
)

type EmployeeService interface {
	List(ctx context.Context, scope tenant.Scope, filter ListFilter) ([]Employee, int64, error)
	Create(ctx context.Context, scope tenant.Scope, req CreateEmployeeRequest) (Employee, error)
	GetByID(ctx context.Context, scope tenant.Scope, id string) (Employee, error)
	Update(ctx context.Context, scope tenant.Scope, id string, req UpdateEmployeeRequest) (Employee, error)
	Delete(ctx context.Context, scope tenant.Scope, id string) error
	Subordinates(ctx context.Context, scope tenant.Scope, id string) ([]Employee, error)
}
