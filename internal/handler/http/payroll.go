package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hr-platform-go/internal/handler/http/response"
)

type PayrollHandler interface {
	CalculatePayslip(w http.ResponseWriter, r *http.Request)
}

type PayrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &PayrollHandlerImpl{payrollService: payrollService}
}

// CalculatePayslip implements PayrollHandler.
func (h *PayrollHandlerImpl) CalculatePayslip(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	var req payroll.CalculatePayslipRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	payslip, err := h.payrollService.CalculatePayslip(r.Context(), auth.DeriveScope(identity), req)
	if err != nil {
		slog.Error("CalculatePayslip service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, "Payslip calculated successfully", payroll.NewPayslipResponse(payslip))
}
