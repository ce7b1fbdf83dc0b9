package response

import (
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/organization"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/validator"
)

var exposeDetails atomic.Bool

// ExposeInternalErrors controls whether unexpected error text is returned in data.details.
// It must stay off in production.
func ExposeInternalErrors(enabled bool) {
	exposeDetails.Store(enabled)
}

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Authentication
	case errors.Is(err, auth.ErrAccessTokenRequired):
		Unauthorized(w, "Access token is required")
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")
	case errors.Is(err, auth.ErrInvalidRefreshToken):
		Unauthorized(w, "Invalid refresh token")
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid credentials")
	case errors.Is(err, auth.ErrUserInactive):
		Unauthorized(w, "User not found or inactive")

	// Authorization
	case errors.Is(err, auth.ErrOrganizationInactive):
		Forbidden(w, "Organization is inactive")
	case errors.Is(err, auth.ErrSuperAdminRequired):
		Forbidden(w, "Super admin access required")
	case errors.Is(err, auth.ErrAdminRequired):
		Forbidden(w, "Admin access required")
	case errors.Is(err, auth.ErrOrganizationAccessDenied):
		Forbidden(w, "Access denied to this organization")

	// Organization domain errors
	case errors.Is(err, organization.ErrOrganizationNotFound):
		NotFound(w, "Organization not found")
	case errors.Is(err, organization.ErrEmailExists):
		Conflict(w, "Organization with this email already exists")
	case errors.Is(err, organization.ErrAdminEmailExists):
		Conflict(w, "Admin user with this email already exists")
	case errors.Is(err, organization.ErrMemberLimitReached):
		Forbidden(w, "Employee limit reached for current subscription plan")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered in this organization")
	case errors.Is(err, user.ErrCannotDeactivateSelf):
		BadRequest(w, "Cannot change your own account status", nil)
	case errors.Is(err, user.ErrIncorrectPassword):
		BadRequest(w, "Current password is incorrect", nil)
	case errors.Is(err, user.ErrSamePassword):
		BadRequest(w, "New password must differ from the current password", nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeIDExists):
		Conflict(w, "Employee ID already exists in this organization")
	case errors.Is(err, employee.ErrEmailExists):
		Conflict(w, "Employee with this email already exists in this organization")
	case errors.Is(err, employee.ErrManagerNotFound):
		BadRequest(w, "Manager not found in this organization", nil)
	case errors.Is(err, employee.ErrManagerCycle):
		BadRequest(w, "Manager assignment would create a reporting cycle", nil)
	case errors.Is(err, employee.ErrOrganizationNeeded):
		ValidationError(w, map[string]string{"organizationId": "Organization ID is required"})

	// Payroll domain errors
	case errors.Is(err, payroll.ErrEmployeeSalaryMissing):
		BadRequest(w, "Employee has no salary on record", nil)

	default:
		slog.Error("unhandled error", "error", err)
		var details interface{}
		if exposeDetails.Load() {
			details = err.Error()
		}
		InternalServerError(w, "An unexpected error occurred", details)
	}
}
