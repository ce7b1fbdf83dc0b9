package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-platform-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/metrics"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/validator"
)

type AuthHandler interface {
	Login(w http.ResponseWriter, r *http.Request)
	RefreshToken(w http.ResponseWriter, r *http.Request)
	Logout(w http.ResponseWriter, r *http.Request)
	Me(w http.ResponseWriter, r *http.Request)
	ChangePassword(w http.ResponseWriter, r *http.Request)
}

type AuthHandlerImpl struct {
	authService auth.AuthService
	userService user.UserService
}

func NewAuthHandler(authService auth.AuthService, userService user.UserService) AuthHandler {
	return &AuthHandlerImpl{
		authService: authService,
		userService: userService,
	}
}

// Login implements AuthHandler.
func (a *AuthHandlerImpl) Login(w http.ResponseWriter, r *http.Request) {
	var loginReq auth.LoginRequest
	if !decodeJSON(w, r, &loginReq, false) {
		return
	}

	tokenResponse, err := a.authService.Login(r.Context(), loginReq, sessionFrom(r))
	if err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			metrics.LoginsTotal.WithLabelValues(metrics.LoginFailure).Inc()
		}
		slog.Error("Login service error", "error", err)
		response.HandleError(w, err)
		return
	}

	metrics.LoginsTotal.WithLabelValues(metrics.LoginSuccess).Inc()
	slog.Info("User logged in", "user_id", tokenResponse.User.ID)
	response.Success(w, "Login successful", tokenResponse)
}

// RefreshToken implements AuthHandler.
func (a *AuthHandlerImpl) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var refreshReq auth.RefreshTokenRequest
	if !decodeJSON(w, r, &refreshReq, false) {
		return
	}

	tokenResponse, err := a.authService.Refresh(r.Context(), refreshReq, sessionFrom(r))
	if err != nil {
		slog.Error("RefreshToken service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, "Token refreshed successfully", tokenResponse)
}

// Logout implements AuthHandler.
func (a *AuthHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	var logoutReq auth.LogoutRequest
	if !decodeJSON(w, r, &logoutReq, true) {
		return
	}

	logoutResponse, err := a.authService.Logout(r.Context(), identity, logoutReq)
	if err != nil {
		slog.Error("Logout service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, "Logout successful", logoutResponse)
}

// Me implements AuthHandler.
func (a *AuthHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}
	response.Success(w, "Profile retrieved successfully", auth.NewSessionUserFromIdentity(identity))
}

// ChangePassword implements AuthHandler.
func (a *AuthHandlerImpl) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(w, r)
	if !ok {
		return
	}

	var passwordReq user.ChangePasswordRequest
	if !decodeJSON(w, r, &passwordReq, false) {
		return
	}

	if err := a.userService.ChangePassword(r.Context(), identity.UserID(), passwordReq); err != nil {
		slog.Error("ChangePassword service error", "error", err)
		response.HandleError(w, err)
		return
	}

	response.Success(w, "Password changed successfully", nil)
}
