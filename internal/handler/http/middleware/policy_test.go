package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/cmlabs-hris/hr-platform-go/internal/domain/auth"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/organization"
	"github.com/cmlabs-hris/hr-platform-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	orgA = "aaaaaaaa-0000-4000-8000-000000000001"
	orgB = "bbbbbbbb-0000-4000-8000-000000000002"
)

type stubAuthenticator struct {
	identity auth.Identity
	err      error
}

func (s stubAuthenticator) Authenticate(ctx context.Context, accessToken string) (auth.Identity, error) {
	return s.identity, s.err
}

func memberIdentity(t *testing.T, role user.Role, orgID string) auth.Identity {
	t.Helper()
	identity, err := auth.NewIdentity(
		user.User{ID: "u1", Role: role, OrganizationID: &orgID, IsActive: true},
		&organization.Organization{ID: orgID, IsActive: true},
	)
	require.NoError(t, err)
	return identity
}

func superIdentity(t *testing.T) auth.Identity {
	t.Helper()
	identity, err := auth.NewIdentity(user.User{ID: "s1", Role: user.RoleAdmin, IsSuperAdmin: true, IsActive: true}, nil)
	require.NoError(t, err)
	return identity
}

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func withIdentity(r *http.Request, identity auth.Identity) *http.Request {
	return r.WithContext(auth.WithIdentity(r.Context(), identity))
}

func TestAuthenticate(t *testing.T) {
	identity := memberIdentity(t, user.RoleAdmin, orgA)

	var seen auth.Identity
	handler := Authenticate(stubAuthenticator{identity: identity})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = auth.IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer some-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, orgA, seen.OrganizationID())

	before := testutil.ToFloat64(metrics.AuthFailuresTotal.WithLabelValues("missing_token"))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.AuthFailuresTotal.WithLabelValues("missing_token")))
}

func TestAuthenticate_PropagatesFailures(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{auth.ErrTokenExpired, http.StatusUnauthorized},
		{auth.ErrInvalidToken, http.StatusUnauthorized},
		{auth.ErrUserInactive, http.StatusUnauthorized},
		{auth.ErrOrganizationInactive, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			handler := Authenticate(stubAuthenticator{err: tt.err})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("handler must not run")
			}))
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer token")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestRoleMiddlewares(t *testing.T) {
	tests := []struct {
		name       string
		middleware func(http.Handler) http.Handler
		identity   auth.Identity
		want       int
	}{
		{"super admin route, super admin", RequireSuperAdmin, superIdentity(t), http.StatusOK},
		{"super admin route, org admin", RequireSuperAdmin, memberIdentity(t, user.RoleAdmin, orgA), http.StatusForbidden},
		{"admin route, org admin", RequireAdmin, memberIdentity(t, user.RoleAdmin, orgA), http.StatusOK},
		{"admin route, super admin", RequireAdmin, superIdentity(t), http.StatusOK},
		{"admin route, employee", RequireAdmin, memberIdentity(t, user.RoleEmployee, orgA), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.middleware(http.HandlerFunc(ok)).ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodGet, "/", nil), tt.identity))
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	rec := httptest.NewRecorder()
	RequireAdmin(http.HandlerFunc(ok)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireOrganizationAccess_URLParam(t *testing.T) {
	r := chi.NewRouter()
	r.With(RequireOrganizationAccess(FromURLParam("organizationId"))).Get("/organizations/{organizationId}", ok)

	employee := memberIdentity(t, user.RoleEmployee, orgA)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodGet, "/organizations/"+orgA, nil), employee))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodGet, "/organizations/"+orgB, nil), employee))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodGet, "/organizations/"+orgB, nil), superIdentity(t)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireOrganizationAccess_BodyFieldRestoresBody(t *testing.T) {
	var body string
	handler := RequireOrganizationAccess(FirstOf(FromURLParam("organizationId"), FromBodyField("organizationId")))(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := io.ReadAll(r.Body)
			require.NoError(t, err)
			body = string(raw)
		}),
	)
	admin := memberIdentity(t, user.RoleAdmin, orgA)

	payload := `{"organizationId":"` + orgA + `","name":"Jane"}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload)), admin))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, payload, body)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"organizationId":"`+orgB+`"}`)), admin))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Jane"}`)), admin))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireOrganizationAccess_BodyFallsBackToOwnOrganization(t *testing.T) {
	handler := RequireOrganizationAccess(FirstOf(FromBodyField("organizationId"), OwnOrganization))(http.HandlerFunc(ok))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Jane"}`)), memberIdentity(t, user.RoleAdmin, orgA)))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"organizationId":"`+orgB+`"}`)), memberIdentity(t, user.RoleAdmin, orgA)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`not json`)), superIdentity(t)))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireOrganizationAccess_OversizeBodyRejected(t *testing.T) {
	handler := RequireOrganizationAccess(FromBodyField("organizationId"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	payload := `{"organizationId":"` + orgA + `","notes":"` + strings.Repeat("x", maxPolicyBodyBytes) + `"}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withIdentity(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload)), memberIdentity(t, user.RoleAdmin, orgA)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestFromBodyField_ExactLimitAccepted(t *testing.T) {
	prefix := `{"organizationId":"` + orgA + `","notes":"`
	payload := prefix + strings.Repeat("x", maxPolicyBodyBytes-len(prefix)-2) + `"}`
	require.Len(t, payload, maxPolicyBodyBytes)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(payload))
	id, err := FromBodyField("organizationId")(req)
	require.NoError(t, err)
	assert.Equal(t, orgA, id)

	raw, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Len(t, raw, maxPolicyBodyBytes)
}
