package payroll

import (
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// CalculatePayslipRequest takes the basic salary either directly or from the employee record.
type CalculatePayslipRequest struct {
	EmployeeID  *string          `json:"employeeId,omitempty"`
	BasicSalary *decimal.Decimal `json:"basicSalary,omitempty"`
	Allowances  *decimal.Decimal `json:"allowances,omitempty"`
	Overtime    *decimal.Decimal `json:"overtime,omitempty"`
	Deductions  *decimal.Decimal `json:"deductions,omitempty"`
}

func (r *CalculatePayslipRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.BasicSalary == nil && r.EmployeeID == nil {
		errs.Add("basicSalary", "basicSalary or employeeId is required")
	}
	if r.EmployeeID != nil && !validator.IsValidUUID(*r.EmployeeID) {
		errs.Add("employeeId", "Valid employee ID required")
	}
	if validator.IsNegative(r.BasicSalary) {
		errs.Add("basicSalary", "basicSalary must not be negative")
	}
	if validator.IsNegative(r.Allowances) {
		errs.Add("allowances", "allowances must not be negative")
	}
	if validator.IsNegative(r.Overtime) {
		errs.Add("overtime", "overtime must not be negative")
	}
	if validator.IsNegative(r.Deductions) {
		errs.Add("deductions", "deductions must not be negative")
	}

	return errs.Err()
}

type PayslipResponse struct {
	EmployeeID  *string         `json:"employeeId,omitempty"`
	BasicSalary decimal.Decimal `json:"basicSalary"`
	Allowances  decimal.Decimal `json:"allowances"`
	Overtime    decimal.Decimal `json:"overtime"`
	Deductions  decimal.Decimal `json:"deductions"`
	GrossPay    decimal.Decimal `json:"grossPay"`
	NetPay      decimal.Decimal `json:"netPay"`
}

func NewPayslipResponse(p Payslip) PayslipResponse {
	return PayslipResponse{
		EmployeeID:  p.EmployeeID,
		BasicSalary: p.BasicSalary,
		Allowances:  p.Allowances,
		Overtime:    p.Overtime,
		Deductions:  p.Deductions,
		GrossPay:    p.GrossPay,
		NetPay:      p.NetPay,
	}
}

func valueOrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// ToPayslip builds the uncalculated payslip; basic is used when BasicSalary is absent.
func (r CalculatePayslipRequest) ToPayslip(basic decimal.Decimal) Payslip {
	if r.BasicSalary != nil {
		basic = *r.BasicSalary
	}
	return Payslip{
		EmployeeID:  r.EmployeeID,
		BasicSalary: basic,
		Allowances:  valueOrZero(r.Allowances),
		Overtime:    valueOrZero(r.Overtime),
		Deductions:  valueOrZero(r.Deductions),
	}
}
