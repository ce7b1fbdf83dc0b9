package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-platform-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// maxPolicyBodyBytes caps how much of a request body is buffered to read an organization id.
const maxPolicyBodyBytes = 1 << 20

var errPolicyBodyTooLarge = errors.New("request body too large")

// OrganizationSource extracts the organization id a request targets. An empty result means
// the request names no organization.
type OrganizationSource func(r *http.Request) (string, error)

// FromURLParam reads the organization id from a chi route parameter.
func FromURLParam(name string) OrganizationSource {
	return func(r *http.Request) (string, error) {
		return chi.URLParam(r, name), nil
	}
}

// FromBodyField reads a string field of a JSON body. The body is restored for the handler.
// Bodies over maxPolicyBodyBytes are rejected instead of being cut short.
func FromBodyField(field string) OrganizationSource {
	return func(r *http.Request) (string, error) {
		if r.Body == nil || r.Body == http.NoBody {
			return "", nil
		}
		raw, err := io.ReadAll(io.LimitReader(r.Body, maxPolicyBodyBytes+1))
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(raw))
		if err != nil {
			return "", err
		}
		if len(raw) > maxPolicyBodyBytes {
			return "", errPolicyBodyTooLarge
		}

		// Malformed bodies name no organization; the handler reports the decode error.
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return "", nil
		}
		var value string
		if err := json.Unmarshal(fields[field], &value); err != nil {
			return "", nil
		}
		return value, nil
	}
}

// OwnOrganization resolves to the caller's own organization, or nothing for super-admins.
func OwnOrganization(r *http.Request) (string, error) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		return "", nil
	}
	return identity.OrganizationID(), nil
}

// FirstOf returns the first non-empty id among sources.
func FirstOf(sources ...OrganizationSource) OrganizationSource {
	return func(r *http.Request) (string, error) {
		for _, source := range sources {
			id, err := source(r)
			if err != nil {
				return "", err
			}
			if id != "" {
				return id, nil
			}
		}
		return "", nil
	}
}

func identityOrReject(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		reject(w, auth.ErrAccessTokenRequired)
	}
	return identity, ok
}

// RequireSuperAdmin lets only platform operators through.
func RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityOrReject(w, r)
		if !ok {
			return
		}
		if err := auth.RequireSuperAdmin(identity); err != nil {
			reject(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin lets organization admins and super-admins through.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := identityOrReject(w, r)
		if !ok {
			return
		}
		if err := auth.RequireAdmin(identity); err != nil {
			reject(w, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireOrganizationAccess denies members of other organizations. Requests that name no
// organization are denied for everyone except super-admins.
func RequireOrganizationAccess(source OrganizationSource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := identityOrReject(w, r)
			if !ok {
				return
			}
			organizationID, err := source(r)
			if errors.Is(err, errPolicyBodyTooLarge) {
				response.Error(w, http.StatusRequestEntityTooLarge, "Request body too large", nil)
				return
			}
			if err != nil {
				response.BadRequest(w, "Unable to read request body", nil)
				return
			}
			if err := auth.RequireOrganizationAccess(identity, organizationID); err != nil {
				reject(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
