package payroll

import "github.com/shopspring/decimal"

type Payslip struct {
	EmployeeID  *string
	BasicSalary decimal.Decimal
	Allowances  decimal.Decimal
	Overtime    decimal.Decimal
	Deductions  decimal.Decimal
	GrossPay    decimal.Decimal
	NetPay      decimal.Decimal
}

// Calculate fills GrossPay (basic + allowances + overtime) and NetPay (gross - deductions).
func (p Payslip) Calculate() Payslip {
	p.GrossPay = p.BasicSalary.Add(p.Allowances).Add(p.Overtime)
	p.NetPay = p.GrossPay.Sub(p.Deductions)
	return p
}
