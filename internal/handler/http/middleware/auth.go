package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-platform-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/metrics"
	"github.com/go-chi/jwtauth/v5"
)

// Authenticator resolves a bearer token to the caller's identity.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (auth.Identity, error)
}

// Authenticate rejects requests without a valid bearer token and stores the caller's
// identity in the request context for the handlers behind it.
func Authenticate(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token := jwtauth.TokenFromHeader(r)
			if token == "" {
				reject(w, auth.ErrAccessTokenRequired)
				return
			}

			identity, err := authenticator.Authenticate(r.Context(), token)
			if err != nil {
				reject(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), identity)))
		}
		return http.HandlerFunc(hfn)
	}
}

// reject counts the failure and writes the error envelope.
func reject(w http.ResponseWriter, err error) {
	metrics.AuthFailuresTotal.WithLabelValues(failureReason(err)).Inc()
	response.HandleError(w, err)
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrAccessTokenRequired):
		return "missing_token"
	case errors.Is(err, auth.ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, auth.ErrInvalidToken):
		return "invalid_token"
	case errors.Is(err, auth.ErrUserInactive):
		return "user_inactive"
	case errors.Is(err, auth.ErrOrganizationInactive):
		return "organization_inactive"
	case errors.Is(err, auth.ErrSuperAdminRequired), errors.Is(err, auth.ErrAdminRequired):
		return "role_denied"
	case errors.Is(err, auth.ErrOrganizationAccessDenied):
		return "organization_denied"
	default:
		return "error"
	}
}
