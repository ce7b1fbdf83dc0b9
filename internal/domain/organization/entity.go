package organization

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

type Plan string

const (
	PlanFree       Plan = "Free"
	PlanBasic      Plan = "Basic"
	PlanPremium    Plan = "Premium"
	PlanEnterprise Plan = "Enterprise"
)

// UnlimitedMembers is the employee limit of plans without a seat cap.
const UnlimitedMembers = -1

type PlanDetails struct {
	EmployeeLimit int             `json:"employees"`
	MonthlyPrice  decimal.Decimal `json:"price"`
}

var plans = map[Plan]PlanDetails{
	PlanFree:       {EmployeeLimit: 10, MonthlyPrice: decimal.NewFromInt(0)},
	PlanBasic:      {EmployeeLimit: 50, MonthlyPrice: decimal.NewFromInt(29)},
	PlanPremium:    {EmployeeLimit: 200, MonthlyPrice: decimal.NewFromInt(99)},
	PlanEnterprise: {EmployeeLimit: UnlimitedMembers, MonthlyPrice: decimal.NewFromInt(299)},
}

func (p Plan) IsValid() bool {
	_, ok := plans[p]
	return ok
}

// LimitFor returns the employee limit for plan. Unknown plans get the Free limit.
func LimitFor(p Plan) int {
	if d, ok := plans[p]; ok {
		return d.EmployeeLimit
	}
	return plans[PlanFree].EmployeeLimit
}

// Plans returns the subscription catalogue.
func Plans() map[Plan]PlanDetails {
	out := make(map[Plan]PlanDetails, len(plans))
	for k, v := range plans {
		out[k] = v
	}
	return out
}

type Settings struct {
	WorkingHours string `json:"workingHours"`
	WorkingDays  string `json:"workingDays"`
	Currency     string `json:"currency"`
	DateFormat   string `json:"dateFormat"`
	TimeZone     string `json:"timeZone"`
}

func DefaultSettings() Settings {
	return Settings{
		WorkingHours: "9:00 AM - 5:00 PM",
		WorkingDays:  "Monday - Friday",
		Currency:     "USD",
		DateFormat:   "MM/DD/YYYY",
		TimeZone:     "UTC",
	}
}

type Organization struct {
	ID               string
	Name             string
	Email            string
	Phone            *string
	Address          *string
	Industry         string
	Logo             *string
	Website          *string
	TaxID            *string
	RegisteredDate   time.Time
	SubscriptionPlan Plan
	IsActive         bool
	EmployeeLimit    int
	Settings         Settings
	AdminID          *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ApplyPlan sets the plan and recomputes the employee limit.
func (o *Organization) ApplyPlan(p Plan) {
	o.SubscriptionPlan = p
	o.EmployeeLimit = LimitFor(p)
}

func (o Organization) IsUnlimited() bool {
	return o.EmployeeLimit == UnlimitedMembers
}

// CanAddMember reports whether one more admin or employee fits under the seat limit.
func (o Organization) CanAddMember(currentMembers int) bool {
	if o.IsUnlimited() {
		return true
	}
	return currentMembers < o.EmployeeLimit
}

// UsagePercentage is rounded to the nearest whole percent; unlimited plans report 0.
func (o Organization) UsagePercentage(currentMembers int) int {
	if o.IsUnlimited() || o.EmployeeLimit <= 0 {
		return 0
	}
	return int(math.Round(float64(currentMembers) / float64(o.EmployeeLimit) * 100))
}
