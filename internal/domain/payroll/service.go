package payroll

import (
	"context"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/tenant"
)

type PayrollService interface {
	CalculatePayslip(ctx context.Context, scope tenant.Scope, req CalculatePayslipRequest) (Payslip, error)
}
