package organization

import "errors"

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrEmailExists          = errors.New("organization with this email already exists")
	ErrAdminEmailExists     = errors.New("admin user with this email already exists")
	ErrMemberLimitReached   = errors.New("employee limit reached for current subscription plan")
)
