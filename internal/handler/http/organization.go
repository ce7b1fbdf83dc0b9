package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/organization"
	"github.com/cmlabs-hris/hr-platform-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

// organizationPageSize is the default page size of the organization list.
const organizationPageSize = 20

type OrganizationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	GetByID(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
}

type OrganizationHandlerImpl struct {
	organizationService organization.OrganizationService
}

func NewOrganizationHandler(organizationService organization.OrganizationService) OrganizationHandler {
	return &OrganizationHandlerImpl{organizationService: organizationService}
}

type createOrganizationResponse struct {
	Organization organization.Response     `json:"organization"`
	Admin        organization.AdminSummary `json:"admin"`
}

// List implements OrganizationHandler.
func (h *OrganizationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := organization.ListFilter{
		Params: pagination.FromQueryWithLimit(query, organizationPageSize),
		Search: query.Get("search"),
	}

	orgs, total, err := h.organizationService.List(r.Context(), auth.DeriveScope(identity), filter)
	if err != nil {
		slog.Error("ListOrganizations service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, "Organizations retrieved successfully", organization.NewResponses(orgs), response.NewMeta(filter.Params, total))
}

// Create implements OrganizationHandler.
func (h *OrganizationHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req organization.CreateOrganizationRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	org, admin, err := h.organizationService.Create(r.Context(), req)
	if err != nil {
		slog.Error("CreateOrganization service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Organization created successfully", createOrganizationResponse{
		Organization: organization.NewResponse(org),
		Admin:        admin,
	})
}

// GetByID implements OrganizationHandler.
func (h *OrganizationHandlerImpl) GetByID(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	org, err := h.organizationService.GetByID(r.Context(), auth.DeriveScope(identity), chi.URLParam(r, "organizationId"))
	if err != nil {
		slog.Error("GetOrganization service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, "Organization retrieved successfully", organization.NewResponse(org))
}

// Update implements OrganizationHandler.
func (h *OrganizationHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	var req organization.UpdateOrganizationRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	org, err := h.organizationService.Update(r.Context(), auth.DeriveScope(identity), chi.URLParam(r, "organizationId"), req)
	if err != nil {
		slog.Error("UpdateOrganization service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, "Organization updated successfully", organization.NewResponse(org))
}

// Stats implements OrganizationHandler.
func (h *OrganizationHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	stats, err := h.organizationService.Stats(r.Context(), auth.DeriveScope(identity), chi.URLParam(r, "organizationId"))
	if err != nil {
		slog.Error("OrganizationStats service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, "Organization statistics retrieved successfully", stats)
}

// UpdateStatus implements OrganizationHandler.
func (h *OrganizationHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req organization.UpdateStatusRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	org, err := h.organizationService.UpdateStatus(r.Context(), chi.URLParam(r, "organizationId"), req)
	if err != nil {
		slog.Error("UpdateOrganizationStatus service error", "error", err)
		response.HandleError(w, err)
		return
	}

	slog.Info("organization status changed", "organization_id", org.ID, "is_active", org.IsActive)
	response.Success(w, "Organization status updated successfully", organization.NewResponse(org))
}
