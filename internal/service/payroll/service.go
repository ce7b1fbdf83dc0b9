package payroll

import (
	"context"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/tenant"
	"github.com/shopspring/decimal"
)

type PayrollServiceImpl struct {
	employees employee.EmployeeRepository
}

func NewPayrollService(employeeRepo employee.EmployeeRepository) payroll.PayrollService {
	return &PayrollServiceImpl{employees: employeeRepo}
}

// CalculatePayslip computes gross and net pay. When basicSalary is omitted the salary recorded
// on the employee, looked up inside the caller's tenant, is used.
func (s *PayrollServiceImpl) CalculatePayslip(ctx context.Context, scope tenant.Scope, req payroll.CalculatePayslipRequest) (payroll.Payslip, error) {
	if err := req.Validate(); err != nil {
		return payroll.Payslip{}, err
	}

	basic := decimal.Zero
	if req.EmployeeID != nil {
		emp, err := s.employees.GetByID(ctx, scope, *req.EmployeeID)
		if err != nil {
			return payroll.Payslip{}, err
		}
		if req.BasicSalary == nil {
			if emp.Salary == nil {
				return payroll.Payslip{}, payroll.ErrEmployeeSalaryMissing
			}
			basic = *emp.Salary
		}
	}

	return req.ToPayslip(basic).Calculate(), nil
}
