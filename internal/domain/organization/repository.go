package organization

import (
	"context"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/tenant"
)

type OrganizationRepository interface {
	GetByID(ctx context.Context, id string) (Organization, error)
	GetByEmail(ctx context.Context, email string) (Organization, error)
	// LockByID loads the organization and, inside a transaction, holds its row lock until commit.
	// Seat-limited inserts take it first so concurrent creates cannot overshoot the limit.
	LockByID(ctx context.Context, id string) (Organization, error)
	List(ctx context.Context, scope tenant.Scope, filter ListFilter) ([]Organization, int64, error)
	Create(ctx context.Context, newOrganization Organization) (Organization, error)
	Update(ctx context.Context, org Organization) (Organization, error)
	SetAdmin(ctx context.Context, id string, adminID string) error
	UpdateStatus(ctx context.Context, id string, isActive bool) (Organization, error)
}
