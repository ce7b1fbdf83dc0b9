package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/employee"
	"github.com/cmlabs-hris/hr-platform-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Subordinates(w http.ResponseWriter, r *http.Request)
}

type EmployeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &EmployeeHandlerImpl{employeeService: employeeService}
}

// List implements EmployeeHandler.
func (h *EmployeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := employee.ListFilter{
		Params:         pagination.FromQuery(query),
		OrganizationID: query.Get("organizationId"),
		Department:     query.Get("department"),
		Status:         employee.Status(query.Get("status")),
		Search:         query.Get("search"),
	}

	employees, total, err := h.employeeService.List(r.Context(), auth.DeriveScope(identity), filter)
	if err != nil {
		slog.Error("ListEmployees service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, "Employees retrieved successfully", employee.NewResponses(employees), response.NewMeta(filter.Params, total))
}

// Create implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	var req employee.CreateEmployeeRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	created, err := h.employeeService.Create(r.Context(), auth.DeriveScope(identity), req)
	if err != nil {
		slog.Error("CreateEmployee service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created successfully", employee.NewResponse(created))
}

// GetByID implements EmployeeHandler.
func (h *EmployeeHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	emp, err := h.employeeService.GetByID(r.Context(), auth.DeriveScope(identity), chi.URLParam(r, "employeeId"))
	if err != nil {
		slog.Error("GetEmployee service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, "Employee retrieved successfully", employee.NewResponse(emp))
}

// Update implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	var req employee.UpdateEmployeeRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	updated, err := h.employeeService.Update(r.Context(), auth.DeriveScope(identity), chi.URLParam(r, "employeeId"), req)
	if err != nil {
		slog.Error("UpdateEmployee service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, "Employee updated successfully", employee.NewResponse(updated))
}

// Delete implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	if err := h.employeeService.Delete(r.Context(), auth.DeriveScope(identity), chi.URLParam(r, "employeeId")); err != nil {
		slog.Error("DeleteEmployee service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}

// Subordinates implements EmployeeHandler.
func (h *EmployeeHandlerImpl) Subordinates(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	reports, err := h.employeeService.Subordinates(r.Context(), auth.DeriveScope(identity), chi.URLParam(r, "employeeId"))
	if err != nil {
		slog.Error("ListSubordinates service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, "Subordinates retrieved successfully", employee.NewResponses(reports))
}
