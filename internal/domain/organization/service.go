package organization

import (
	"context"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/tenant"
)

type OrganizationService interface {
	List(ctx context.Context, scope tenant.Scope, filter ListFilter) ([]Organization, int64, error)
	Create(ctx context.Context, req CreateOrganizationRequest) (Organization, AdminSummary, error)
	GetByID(ctx context.Context, scope tenant.Scope, id string) (Organization, error)
	Update(ctx context.Context, scope tenant.Scope, id string, req UpdateOrganizationRequest) (Organization, error)
	Stats(ctx context.Context, scope tenant.Scope, id string) (Stats, error)
	UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (Organization, error)
}
