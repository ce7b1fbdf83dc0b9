package user

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Role string

const (
	RoleAdmin    Role = "admin"    // Organization administrator
	RoleEmployee Role = "employee" // Regular employee
)

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleEmployee
}

type User struct {
	ID             string
	OrganizationID *string
	Email          string
	PasswordHash   string `json:"-"`
	Name           string
	Role           Role
	IsSuperAdmin   bool
	IsActive       bool
	EmailVerified  bool
	LastLogin      *time.Time
	ProfilePicture *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// HashPassword hashes a plaintext password with bcrypt at the given cost.
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ValidatePassword compares candidate against the stored hash in constant time.
func (u User) ValidatePassword(candidate string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(candidate)) == nil
}

// BelongsTo reports whether the user is a member of organizationID.
func (u User) BelongsTo(organizationID string) bool {
	return u.OrganizationID != nil && *u.OrganizationID == organizationID
}

// MemberCounts is the seat usage of one organization. Super-admins never count.
// Seats are taken by every member, active or not.
type MemberCounts struct {
	Admins          int
	Employees       int
	ActiveAdmins    int
	ActiveEmployees int
}

func (c MemberCounts) Total() int {
	return c.Admins + c.Employees
}

func (c MemberCounts) ActiveTotal() int {
	return c.ActiveAdmins + c.ActiveEmployees
}
