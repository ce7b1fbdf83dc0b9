package employee

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

type Response struct {
	ID               string            `json:"id"`
	OrganizationID   string            `json:"organizationId"`
	UserID           *string           `json:"userId"`
	EmployeeID       string            `json:"employeeId"`
	Name             string            `json:"name"`
	Email            string            `json:"email"`
	Phone            *string           `json:"phone"`
	Department       string            `json:"department"`
	Position         string            `json:"position"`
	JoinDate         *string           `json:"joinDate"`
	Salary           *decimal.Decimal  `json:"salary"`
	Status           Status            `json:"status"`
	Address          *string           `json:"address"`
	EmergencyContact *EmergencyContact `json:"emergencyContact"`
	DateOfBirth      *string           `json:"dateOfBirth"`
	HireDate         *string           `json:"hireDate"`
	TerminationDate  *string           `json:"terminationDate"`
	ManagerID        *string           `json:"managerId"`
	ProfilePicture   *string           `json:"profilePicture"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

func NewResponse(e Employee) Response {
	return Response{
		ID:               e.ID,
		OrganizationID:   e.OrganizationID,
		UserID:           e.UserID,
		EmployeeID:       e.EmployeeID,
		Name:             e.Name,
		Email:            e.Email,
		Phone:            e.Phone,
		Department:       e.Department,
		Position:         e.Position,
		JoinDate:         formatDate(e.JoinDate),
		Salary:           e.Salary,
		Status:           e.Status,
		Address:          e.Address,
		EmergencyContact: e.EmergencyContact,
		DateOfBirth:      formatDate(e.DateOfBirth),
		HireDate:         formatDate(e.HireDate),
		TerminationDate:  formatDate(e.TerminationDate),
		ManagerID:        e.ManagerID,
		ProfilePicture:   e.ProfilePicture,
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

func NewResponses(employees []Employee) []Response {
	out := make([]Response, 0, len(employees))
	for _, e := range employees {
		out = append(out, NewResponse(e))
	}
	return out
}

type CreateEmployeeRequest struct {
	OrganizationID   *string           `json:"organizationId,omitempty"`
	UserID           *string           `json:"userId,omitempty"`
	EmployeeID       string            `json:"employeeId,omitempty"`
	Name             string            `json:"name"`
	Email            string            `json:"email"`
	Phone            *string           `json:"phone,omitempty"`
	Department       string            `json:"department"`
	Position         string            `json:"position"`
	JoinDate         *string           `json:"joinDate,omitempty"`
	Salary           *decimal.Decimal  `json:"salary"`
	Status           Status            `json:"status,omitempty"`
	Address          *string           `json:"address,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergencyContact,omitempty"`
	DateOfBirth      *string           `json:"dateOfBirth,omitempty"`
	HireDate         *string           `json:"hireDate,omitempty"`
	ManagerID        *string           `json:"managerId,omitempty"`
	ProfilePicture   *string           `json:"profilePicture,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	r.Email = validator.NormalizeEmail(r.Email)
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	r.Department = strings.TrimSpace(r.Department)
	r.Position = strings.TrimSpace(r.Position)
	if r.Status == "" {
		r.Status = StatusActive
	}

	if len(r.Name) < 2 || len(r.Name) > 255 {
		errs.Add("name", "Name must be 2-255 characters")
	}
	if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "Valid email is required")
	}
	if len(r.EmployeeID) > 50 {
		errs.Add("employeeId", "Employee ID must not exceed 50 characters")
	}
	if r.Department == "" {
		errs.Add("department", "Department is required")
	}
	if r.Position == "" {
		errs.Add("position", "Position is required")
	}
	if r.Salary == nil || r.Salary.IsNegative() {
		errs.Add("salary", "Valid salary required")
	}
	if !r.Status.IsValid() {
		errs.Add("status", "Invalid status")
	}
	validateDate(&errs, "joinDate", r.JoinDate)
	validateDate(&errs, "dateOfBirth", r.DateOfBirth)
	validateDate(&errs, "hireDate", r.HireDate)
	validateID(&errs, "organizationId", r.OrganizationID)
	validateID(&errs, "userId", r.UserID)
	validateID(&errs, "managerId", r.ManagerID)

	return errs.Err()
}

// ToEmployee builds the entity for organizationID. Dates must already be validated.
func (r CreateEmployeeRequest) ToEmployee(organizationID string) Employee {
	return Employee{
		OrganizationID:   organizationID,
		UserID:           r.UserID,
		EmployeeID:       r.EmployeeID,
		Name:             r.Name,
		Email:            r.Email,
		Phone:            r.Phone,
		Department:       r.Department,
		Position:         r.Position,
		JoinDate:         parseDate(r.JoinDate),
		Salary:           r.Salary,
		Status:           r.Status,
		Address:          r.Address,
		EmergencyContact: r.EmergencyContact,
		DateOfBirth:      parseDate(r.DateOfBirth),
		HireDate:         parseDate(r.HireDate),
		ManagerID:        r.ManagerID,
		ProfilePicture:   r.ProfilePicture,
	}
}

type UpdateEmployeeRequest struct {
	Name             *string           `json:"name,omitempty"`
	Email            *string           `json:"email,omitempty"`
	Phone            *string           `json:"phone,omitempty"`
	Department       *string           `json:"department,omitempty"`
	Position         *string           `json:"position,omitempty"`
	JoinDate         *string           `json:"joinDate,omitempty"`
	Salary           *decimal.Decimal  `json:"salary,omitempty"`
	Status           *Status           `json:"status,omitempty"`
	Address          *string           `json:"address,omitempty"`
	EmergencyContact *EmergencyContact `json:"emergencyContact,omitempty"`
	DateOfBirth      *string           `json:"dateOfBirth,omitempty"`
	HireDate         *string           `json:"hireDate,omitempty"`
	TerminationDate  *string           `json:"terminationDate,omitempty"`
	ManagerID        *string           `json:"managerId,omitempty"`
	ClearManager     bool              `json:"clearManager,omitempty"`
	ProfilePicture   *string           `json:"profilePicture,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
		if len(name) < 2 || len(name) > 255 {
			errs.Add("name", "Name must be 2-255 characters")
		}
	}
	if r.Email != nil {
		email := validator.NormalizeEmail(*r.Email)
		r.Email = &email
		if !validator.IsValidEmail(email) {
			errs.Add("email", "Valid email is required")
		}
	}
	if r.Department != nil && validator.IsEmpty(*r.Department) {
		errs.Add("department", "Department cannot be empty")
	}
	if r.Position != nil && validator.IsEmpty(*r.Position) {
		errs.Add("position", "Position cannot be empty")
	}
	if validator.IsNegative(r.Salary) {
		errs.Add("salary", "Valid salary required")
	}
	if r.Status != nil && !r.Status.IsValid() {
		errs.Add("status", "Invalid status")
	}
	validateDate(&errs, "joinDate", r.JoinDate)
	validateDate(&errs, "dateOfBirth", r.DateOfBirth)
	validateDate(&errs, "hireDate", r.HireDate)
	validateDate(&errs, "terminationDate", r.TerminationDate)
	validateID(&errs, "managerId", r.ManagerID)
	if r.ClearManager && r.ManagerID != nil {
		errs.Add("managerId", "managerId cannot be combined with clearManager")
	}

	return errs.Err()
}

// Apply copies the provided fields onto emp.
func (r UpdateEmployeeRequest) Apply(emp *Employee) {
	if r.Name != nil {
		emp.Name = *r.Name
	}
	if r.Email != nil {
		emp.Email = *r.Email
	}
	if r.Phone != nil {
		emp.Phone = r.Phone
	}
	if r.Department != nil {
		emp.Department = strings.TrimSpace(*r.Department)
	}
	if r.Position != nil {
		emp.Position = strings.TrimSpace(*r.Position)
	}
	if r.JoinDate != nil {
		emp.JoinDate = parseDate(r.JoinDate)
	}
	if r.Salary != nil {
		emp.Salary = r.Salary
	}
	if r.Status != nil {
		emp.Status = *r.Status
	}
	if r.Address != nil {
		emp.Address = r.Address
	}
	if r.EmergencyContact != nil {
		emp.EmergencyContact = r.EmergencyContact
	}
	if r.DateOfBirth != nil {
		emp.DateOfBirth = parseDate(r.DateOfBirth)
	}
	if r.HireDate != nil {
		emp.HireDate = parseDate(r.HireDate)
	}
	if r.TerminationDate != nil {
		emp.TerminationDate = parseDate(r.TerminationDate)
	}
	if r.ManagerID != nil {
		emp.ManagerID = r.ManagerID
	}
	if r.ClearManager {
		emp.ManagerID = nil
	}
	if r.ProfilePicture != nil {
		emp.ProfilePicture = r.ProfilePicture
	}
}

type ListFilter struct {
	pagination.Params
	// OrganizationID narrows a super-admin listing to one tenant. Members always see their own.
	OrganizationID string
	Department     string
	Status         Status
	Search         string
}

func validateDate(errs *validator.ValidationErrors, field string, value *string) {
	if value == nil {
		return
	}
	if parseDate(value) == nil {
		errs.Add(field, "Valid "+field+" required")
	}
}

func validateID(errs *validator.ValidationErrors, field string, value *string) {
	if value != nil && !validator.IsValidUUID(*value) {
		errs.Add(field, "Valid "+field+" required")
	}
}

// parseDate accepts YYYY-MM-DD or a full RFC 3339 timestamp.
func parseDate(value *string) *time.Time {
	if value == nil {
		return nil
	}
	if t, ok := validator.IsValidDate(*value); ok {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, *value); err == nil {
		return &t
	}
	return nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}
