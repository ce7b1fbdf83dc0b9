package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeIDExists   = errors.New("employee ID already exists in this organization")
	ErrEmailExists        = errors.New("employee with this email already exists in this organization")
	ErrManagerNotFound    = errors.New("manager not found in this organization")
	ErrManagerCycle       = errors.New("manager assignment would create a reporting cycle")
	ErrOrganizationNeeded = errors.New("organizationId is required")
)
