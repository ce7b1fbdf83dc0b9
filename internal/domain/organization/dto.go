package organization

import (
	"net/url"
	"strings"
	"time"

	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/pagination"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/validator"
)

type Response struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            *string   `json:"phone"`
	Address          *string   `json:"address"`
	Industry         string    `json:"industry"`
	Logo             *string   `json:"logo"`
	Website          *string   `json:"website"`
	TaxID            *string   `json:"taxId"`
	RegisteredDate   time.Time `json:"registeredDate"`
	SubscriptionPlan Plan      `json:"subscriptionPlan"`
	IsActive         bool      `json:"isActive"`
	EmployeeLimit    int       `json:"employeeLimit"`
	Settings         Settings  `json:"settings"`
	AdminID          *string   `json:"adminId"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func NewResponse(o Organization) Response {
	return Response{
		ID:               o.ID,
		Name:             o.Name,
		Email:            o.Email,
		Phone:            o.Phone,
		Address:          o.Address,
		Industry:         o.Industry,
		Logo:             o.Logo,
		Website:          o.Website,
		TaxID:            o.TaxID,
		RegisteredDate:   o.RegisteredDate,
		SubscriptionPlan: o.SubscriptionPlan,
		IsActive:         o.IsActive,
		EmployeeLimit:    o.EmployeeLimit,
		Settings:         o.Settings,
		AdminID:          o.AdminID,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

func NewResponses(orgs []Organization) []Response {
	out := make([]Response, 0, len(orgs))
	for _, o := range orgs {
		out = append(out, NewResponse(o))
	}
	return out
}

// AdminSummary describes the admin account created together with an organization.
type AdminSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CreateOrganizationRequest struct {
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	Phone            *string `json:"phone,omitempty"`
	Address          *string `json:"address,omitempty"`
	Industry         string  `json:"industry"`
	Website          *string `json:"website,omitempty"`
	TaxID            *string `json:"taxId,omitempty"`
	SubscriptionPlan Plan    `json:"subscriptionPlan,omitempty"`
	AdminName        string  `json:"adminName"`
	AdminEmail       string  `json:"adminEmail"`
	AdminPassword    string  `json:"adminPassword"`
}

func (r *CreateOrganizationRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Name = strings.TrimSpace(r.Name)
	r.Email = validator.NormalizeEmail(r.Email)
	r.Industry = strings.TrimSpace(r.Industry)
	r.AdminName = strings.TrimSpace(r.AdminName)
	r.AdminEmail = validator.NormalizeEmail(r.AdminEmail)
	if r.SubscriptionPlan == "" {
		r.SubscriptionPlan = PlanFree
	}

	if len(r.Name) < 2 || len(r.Name) > 255 {
		errs.Add("name", "Organization name must be 2-255 characters")
	}
	if !validator.IsValidEmail(r.Email) {
		errs.Add("email", "Valid email is required")
	}
	validatePhone(&errs, r.Phone)
	if r.Address != nil && len(*r.Address) > 500 {
		errs.Add("address", "Address too long")
	}
	if r.Industry == "" {
		errs.Add("industry", "Industry is required")
	}
	validateURL(&errs, "website", r.Website)
	if !r.SubscriptionPlan.IsValid() {
		errs.Add("subscriptionPlan", "Invalid subscription plan")
	}
	if len(r.AdminName) < 2 || len(r.AdminName) > 255 {
		errs.Add("adminName", "Admin name must be 2-255 characters")
	}
	if !validator.IsValidEmail(r.AdminEmail) {
		errs.Add("adminEmail", "Valid admin email is required")
	}
	if len(r.AdminPassword) < 6 {
		errs.Add("adminPassword", "Admin password must be at least 6 characters")
	}

	return errs.Err()
}

type UpdateOrganizationRequest struct {
	Name             *string   `json:"name,omitempty"`
	Email            *string   `json:"email,omitempty"`
	Phone            *string   `json:"phone,omitempty"`
	Address          *string   `json:"address,omitempty"`
	Industry         *string   `json:"industry,omitempty"`
	Logo             *string   `json:"logo,omitempty"`
	Website          *string   `json:"website,omitempty"`
	TaxID            *string   `json:"taxId,omitempty"`
	SubscriptionPlan *Plan     `json:"subscriptionPlan,omitempty"`
	Settings         *Settings `json:"settings,omitempty"`
}

func (r *UpdateOrganizationRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
		if len(name) < 2 || len(name) > 255 {
			errs.Add("name", "Organization name must be 2-255 characters")
		}
	}
	if r.Email != nil {
		email := validator.NormalizeEmail(*r.Email)
		r.Email = &email
		if !validator.IsValidEmail(email) {
			errs.Add("email", "Valid email is required")
		}
	}
	validatePhone(&errs, r.Phone)
	if r.Address != nil && len(*r.Address) > 500 {
		errs.Add("address", "Address too long")
	}
	if r.Industry != nil && validator.IsEmpty(*r.Industry) {
		errs.Add("industry", "Industry cannot be empty")
	}
	validateURL(&errs, "logo", r.Logo)
	validateURL(&errs, "website", r.Website)
	if r.SubscriptionPlan != nil && !r.SubscriptionPlan.IsValid() {
		errs.Add("subscriptionPlan", "Invalid subscription plan")
	}

	return errs.Err()
}

// Apply copies the provided fields onto org. A plan change recomputes the employee limit.
func (r UpdateOrganizationRequest) Apply(org *Organization) {
	if r.Name != nil {
		org.Name = *r.Name
	}
	if r.Email != nil {
		org.Email = *r.Email
	}
	if r.Phone != nil {
		org.Phone = r.Phone
	}
	if r.Address != nil {
		org.Address = r.Address
	}
	if r.Industry != nil {
		org.Industry = strings.TrimSpace(*r.Industry)
	}
	if r.Logo != nil {
		org.Logo = r.Logo
	}
	if r.Website != nil {
		org.Website = r.Website
	}
	if r.TaxID != nil {
		org.TaxID = r.TaxID
	}
	if r.SubscriptionPlan != nil && *r.SubscriptionPlan != org.SubscriptionPlan {
		org.ApplyPlan(*r.SubscriptionPlan)
	}
	if r.Settings != nil {
		org.Settings = *r.Settings
	}
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

type Stats struct {
	TotalUsers       int       `json:"totalUsers"`
	AdminCount       int       `json:"adminCount"`
	EmployeeCount    int       `json:"employeeCount"`
	EmployeeLimit    int       `json:"employeeLimit"`
	UsagePercentage  int       `json:"usagePercentage"`
	SubscriptionPlan Plan      `json:"subscriptionPlan"`
	IsActive         bool      `json:"isActive"`
	RegisteredDate   time.Time `json:"registeredDate"`
}

type ListFilter struct {
	pagination.Params
	Search string
}

func validatePhone(errs *validator.ValidationErrors, phone *string) {
	if phone == nil {
		return
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, *phone)
	if len(*phone) < 10 || len(*phone) > 20 || len(digits) < 7 {
		errs.Add("phone", "Valid phone number required")
	}
}

func validateURL(errs *validator.ValidationErrors, field string, value *string) {
	if value == nil || *value == "" {
		return
	}
	u, err := url.ParseRequestURI(*value)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs.Add(field, "Valid URL required")
	}
}
