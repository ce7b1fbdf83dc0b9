package employee

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
	StatusOnLeave    Status = "on_leave"
	StatusTerminated Status = "terminated"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusOnLeave, StatusTerminated:
		return true
	}
	return false
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

type Employee struct {
	ID               string
	OrganizationID   string
	UserID           *string
	EmployeeID       string
	Name             string
	Email            string
	Phone            *string
	Department       string
	Position         string
	JoinDate         *time.Time
	Salary           *decimal.Decimal
	Status           Status
	Address          *string
	EmergencyContact *EmergencyContact
	DateOfBirth      *time.Time
	HireDate         *time.Time
	TerminationDate  *time.Time
	ManagerID        *string
	ProfilePicture   *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// GenerateEmployeeID builds the human-readable id for the next employee of an organization:
// the first three characters of the organization id, upper-cased, followed by the
// one-based sequence number padded to four digits.
func GenerateEmployeeID(organizationID string, existing int) string {
	prefix := organizationID
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return fmt.Sprintf("%s%04d", strings.ToUpper(prefix), existing+1)
}
