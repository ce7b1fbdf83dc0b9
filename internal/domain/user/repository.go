package user

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/tenant"
)

type UserRepository interface {
	Create(ctx context.Context, newUser User) (User, error)
	// GetByID is unscoped; it backs authentication, which runs before any scope exists.
	GetByID(ctx context.Context, id string) (User, error)
	GetByIDScoped(ctx context.Context, scope tenant.Scope, id string) (User, error)
	FindActiveByEmailAndRole(ctx context.Context, email string, role Role) ([]User, error)
	GetActiveSuperAdminByEmail(ctx context.Context, email string) (User, error)
	// ExistsByEmail looks across every organization.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, scope tenant.Scope, filter ListFilter) ([]User, int64, error)
	CountMembers(ctx context.Context, organizationID string) (MemberCounts, error)
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	UpdateStatus(ctx context.Context, scope tenant.Scope, id string, isActive bool) (User, error)
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}
