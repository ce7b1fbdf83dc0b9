package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-platform-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/pagination"
	"github.com/go-chi/chi/v5"
)

type UserHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	UpdateStatus(w http.ResponseWriter, r *http.Request)
}

type UserHandlerImpl struct {
	userService user.UserService
}

func NewUserHandler(userService user.UserService) UserHandler {
	return &UserHandlerImpl{userService: userService}
}

func (h *UserHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filter := user.ListFilter{
		Params: pagination.FromQuery(query),
		Role:   user.Role(query.Get("role")),
		Search: query.Get("search"),
	}

	users, total, err := h.userService.List(r.Context(), auth.DeriveScope(identity), filter)
	if err != nil {
		slog.Error("ListUsers service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, "Users retrieved successfully", user.NewResponses(users), response.NewMeta(filter.Params, total))
}

func (h *UserHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	var req user.CreateUserRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	created, err := h.userService.Create(r.Context(), auth.DeriveScope(identity), req)
	if err != nil {
		slog.Error("CreateUser service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Created(w, "User created successfully", user.NewResponse(created))
}

// UpdateStatus activates or deactivates a member. Deactivation applies from the member's next request.
func (h *UserHandlerImpl) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	var req user.UpdateStatusRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	updated, err := h.userService.UpdateStatus(r.Context(), auth.DeriveScope(identity), identity.UserID(), chi.URLParam(r, "userId"), req)
	if err != nil {
		slog.Error("UpdateUserStatus service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, "User status updated successfully", user.NewResponse(updated))
}
