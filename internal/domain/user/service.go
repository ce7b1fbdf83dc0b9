package user

import (
	"context"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/tenant"
)

type UserService interface {
	Create(ctx context.Context, scope tenant.Scope, req CreateUserRequest) (User, error)
	List(ctx context.Context, scope tenant.Scope, filter ListFilter) ([]User, int64, error)
	UpdateStatus(ctx context.Context, scope tenant.Scope, callerID string, id string, req UpdateStatusRequest) (User, error)
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
}
