package user

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/validator"
)

const MinPasswordLength = 6

// Response is the only shape in which a user leaves the API. It never carries the password hash.
type Response struct {
	ID             string     `json:"id"`
	OrganizationID *string    `json:"organizationId"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	Role           Role       `json:"role"`
	IsSuperAdmin   bool       `json:"isSuperAdmin"`
	IsActive       bool       `json:"isActive"`
	EmailVerified  bool       `json:"emailVerified"`
	LastLogin      *time.Time `json:"lastLogin"`
	ProfilePicture *string    `json:"profilePicture,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

func NewResponse(u User) Response {
	return Response{
		ID:             u.ID,
		OrganizationID: u.OrganizationID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.Role,
		IsSuperAdmin:   u.IsSuperAdmin,
		IsActive:       u.IsActive,
		EmailVerified:  u.EmailVerified,
		LastLogin:      u.LastLogin,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func NewResponses(users []User) []Response {
	out := make([]Response, 0, len(users))
	for _, u := range users {
		out = append(out, NewResponse(u))
	}
	return out
}

// CreateUserRequest represents request to create a new user
type CreateUserRequest struct {
	OrganizationID *string `json:"organizationId,omitempty"`
	Email          string  `json:"email"`
	Password       string  `json:"password"`
	Name           string  `json:"name"`
	Role           Role    `json:"role"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Email = validator.NormalizeEmail(r.Email)
	r.Name = strings.TrimSpace(r.Name)

	if validator.IsEmpty(r.Email) {
		errs.Add("email", "email is required")
	} else if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "Valid email is required")
	}
	if len(r.Password) < MinPasswordLength {
		errs.Add("password", "Password must be at least 6 characters")
	}
	if len(r.Name) < 2 || len(r.Name) > 255 {
		errs.Add("name", "Name must be 2-255 characters")
	}
	if !r.Role.IsValid() {
		errs.Add("role", "Role must be admin or employee")
	}
	if r.OrganizationID != nil && !validator.IsValidUUID(*r.OrganizationID) {
		errs.Add("organizationId", "Valid organization ID required")
	}

	return errs.Err()
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (r *ChangePasswordRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CurrentPassword) {
		errs.Add("currentPassword", "Current password is required")
	}
	if len(r.NewPassword) < MinPasswordLength {
		errs.Add("newPassword", "Password must be at least 6 characters")
	}

	return errs.Err()
}

type UpdateStatusRequest struct {
	IsActive *bool `json:"isActive"`
}

func (r *UpdateStatusRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.IsActive == nil {
		errs.Add("isActive", "isActive is required")
	}
	return errs.Err()
}

type ListFilter struct {
	pagination.Params
	Role   Role
	Search string
}
