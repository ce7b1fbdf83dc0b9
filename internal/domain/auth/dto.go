package auth

import (
	"time"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/organization"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/validator"
)

type LoginRequest struct {
	Email    string    `json:"email"`
	Password string    `json:"password"`
	Role     user.Role `json:"role"`
	// OrganizationID selects the tenant when the same email and role exist in several organizations.
	OrganizationID *string `json:"organizationId,omitempty"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = validator.NormalizeEmail(r.Email)

	if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "Valid email is required")
	}
	if len(r.Password) < user.MinPasswordLength {
		errs.Add("password", "Password must be at least 6 characters")
	}
	if !r.Role.IsValid() {
		errs.Add("role", "Role must be admin or employee")
	}
	if r.OrganizationID != nil && !validator.IsValidUUID(*r.OrganizationID) {
		errs.Add("organizationId", "Valid organization ID required")
	}

	return errs.Err()
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r *RefreshTokenRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.RefreshToken) {
		errs.Add("refreshToken", "Refresh token is required")
	}
	return errs.Err()
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken,omitempty"`
}

type SessionTrackingRequest struct {
	UserAgent string
	IPAddress string
}

type OrganizationSummary struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	SubscriptionPlan organization.Plan `json:"subscriptionPlan"`
	IsActive         bool              `json:"isActive"`
}

func NewOrganizationSummary(org organization.Organization) *OrganizationSummary {
	return &OrganizationSummary{
		ID:               org.ID,
		Name:             org.Name,
		SubscriptionPlan: org.SubscriptionPlan,
		IsActive:         org.IsActive,
	}
}

type SessionUser struct {
	ID             string               `json:"id"`
	Email          string               `json:"email"`
	Name           string               `json:"name"`
	Role           user.Role            `json:"role"`
	OrganizationID *string              `json:"organizationId"`
	IsSuperAdmin   bool                 `json:"isSuperAdmin"`
	LastLogin      *time.Time           `json:"lastLogin,omitempty"`
	Organization   *OrganizationSummary `json:"organization"`
}

func NewSessionUser(u user.User, org *organization.Organization) SessionUser {
	su := SessionUser{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.Role,
		OrganizationID: u.OrganizationID,
		IsSuperAdmin:   u.IsSuperAdmin,
		LastLogin:      u.LastLogin,
	}
	if org != nil {
		su.Organization = NewOrganizationSummary(*org)
	}
	return su
}

// NewSessionUserFromIdentity is the /auth/me view of the caller.
func NewSessionUserFromIdentity(identity Identity) SessionUser {
	if org, ok := identity.Organization(); ok {
		return NewSessionUser(identity.User(), &org)
	}
	return NewSessionUser(identity.User(), nil)
}

// TokenResponse is returned by login and refresh. ExpiresIn is the access-token lifetime in seconds.
type TokenResponse struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	User         SessionUser `json:"user"`
	ExpiresIn    int64       `json:"expiresIn"`
}

type LogoutResponse struct {
	Timestamp time.Time `json:"timestamp"`
}
