package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/hr-platform-go/internal/fixtures"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-platform-go/internal/repository/memory"
	authService "github.com/cmlabs-hris/hr-platform-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/hr-platform-go/internal/service/employee"
	organizationService "github.com/cmlabs-hris/hr-platform-go/internal/service/organization"
	payrollService "github.com/cmlabs-hris/hr-platform-go/internal/service/payroll"
	userService "github.com/cmlabs-hris/hr-platform-go/internal/service/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	routerSuperAdminEmail    = "superadmin@hrplatform.com"
	routerSuperAdminPassword = "super123"
)

type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	router http.Handler
	store  *memory.Store
	sample fixtures.SampleTenant
}

func newTestServer(t *testing.T, opts RouterOptions) *testServer {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	tokens, err := jwt.NewJWTService(jwt.Options{
		AccessSecret:  "router-access-secret",
		RefreshSecret: "router-refresh-secret",
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	})
	require.NoError(t, err)

	seeder := fixtures.NewSeeder(store, store.Users(), store.Organizations(), store.Employees(), bcrypt.MinCost)
	_, err = seeder.EnsureSuperAdmin(ctx, fixtures.Account{Email: routerSuperAdminEmail, Password: routerSuperAdminPassword, Name: "Platform Administrator"})
	require.NoError(t, err)
	sample, err := seeder.SeedSample(ctx)
	require.NoError(t, err)

	auth := authService.NewAuthService(store, store.Users(), store.Organizations(), tokens, store.RefreshTokens(), authService.Options{
		SuperAdminEmail: routerSuperAdminEmail,
		BcryptCost:      bcrypt.MinCost,
	})
	users := userService.NewUserService(store, store.Users(), store.Organizations(), bcrypt.MinCost)

	router := NewRouter(opts, auth, Handlers{
		Auth:         NewAuthHandler(auth, users),
		Organization: NewOrganizationHandler(organizationService.NewOrganizationService(store, store.Organizations(), store.Users(), bcrypt.MinCost)),
		User:         NewUserHandler(users),
		Employee:     NewEmployeeHandler(employeeService.NewEmployeeService(store, store.Employees(), store.Organizations(), store.Users())),
		Payroll:      NewPayrollHandler(payrollService.NewPayrollService(store.Employees())),
	})

	return &testServer{t: t, router: router, store: store, sample: sample}
}

func (s *testServer) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiEnvelope) {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env apiEnvelope
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		require.NoError(s.t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec, env
}

func (s *testServer) login(email, password, role string) string {
	s.t.Helper()
	rec, env := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
		"role":     role,
	})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var data struct {
		Token     string `json:"token"`
		ExpiresIn int64  `json:"expiresIn"`
	}
	require.NoError(s.t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(s.t, data.Token)
	return data.Token
}

func TestLogin_SampleAdminAndMe(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	rec, env := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "admin@hr.com",
		"password": "admin123",
		"role":     "admin",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Status)
	assert.Equal(t, "Login successful", env.Message)

	var data struct {
		Token        string `json:"token"`
		RefreshToken string `json:"refreshToken"`
		ExpiresIn    int64  `json:"expiresIn"`
		User         struct {
			Email        string  `json:"email"`
			Role         string  `json:"role"`
			Organization *struct {
				Name string `json:"name"`
			} `json:"organization"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data.RefreshToken)
	assert.EqualValues(t, 3600, data.ExpiresIn)
	assert.Equal(t, "admin", data.User.Role)
	require.NotNil(t, data.User.Organization)
	assert.Equal(t, "Tech Solutions Inc.", data.User.Organization.Name)
	assert.NotContains(t, string(env.Data), "password")

	rec, env = s.do(http.MethodGet, "/api/v1/auth/me", data.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"email":"admin@hr.com"`)
}

func TestLogin_EnumerationResistance(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	wrongPassword, wrongEnv := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "admin@hr.com", "password": "not-the-password", "role": "admin",
	})
	unknownEmail, unknownEnv := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "nobody@hr.com", "password": "not-the-password", "role": "admin",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownEmail.Code)
	assert.Equal(t, wrongEnv, unknownEnv)
	assert.Equal(t, "Invalid credentials", wrongEnv.Message)
}

func TestLogin_ValidationError(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	rec, env := s.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "not-an-email", "password": "123", "role": "owner",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation Error", env.Error)
	assert.Contains(t, string(env.Data), "email")
	assert.Contains(t, string(env.Data), "role")
}

func TestAuthenticate_Rejections(t *testing.T) {
	s := newTestServer(t, RouterOptions{})

	rec, env := s.do(http.MethodGet, "/api/v1/employees", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Access token is required", env.Message)
	assert.Equal(t, "Unauthorized", env.Error)
	assert.Equal(t, 401, env.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/employees", "garbage.token.value", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid token", env.Message)
}

func TestPolicies(t *testing.T) {
	s := newTestServer(t, RouterOptions{})
	admin := s.login("admin@hr.com", "admin123", "admin")
	employee := s.login("employee@hr.com", "employee123", "employee")
	super := s.login(routerSuperAdminEmail, routerSuperAdminPassword, "admin")

	rec, env := s.do(http.MethodGet, "/api/v1/organizations", admin, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Super admin access required", env.Message)

	rec, _ = s.do(http.MethodGet, "/api/v1/organizations", super, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/users", employee, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Admin access required", env.Message)

	rec, _ = s.do(http.MethodGet, "/api/v1/users", admin, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	orgID := s.sample.Organization.ID
	rec, _ = s.do(http.MethodGet, "/api/v1/organizations/"+orgID, employee, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(http.MethodGet, "/api/v1/organizations/bbbbbbbb-0000-4000-8000-000000000002", employee, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied to this organization", env.Message)

	rec, _ = s.do(http.MethodPut, "/api/v1/organizations/"+orgID, employee, map[string]string{"name": "Renamed"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestOrganizationCreate_TenantIsolationEndToEnd(t *testing.T) {
	s := newTestServer(t, RouterOptions{})
	super := s.login(routerSuperAdminEmail, routerSuperAdminPassword, "admin")

	rec, env := s.do(http.MethodPost, "/api/v1/organizations", super, map[string]string{
		"name":          "Globex",
		"email":         "hr@globex.com",
		"industry":      "Manufacturing",
		"adminName":     "Globex Admin",
		"adminEmail":    "admin@globex.com",
		"adminPassword": "globex123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Organization created successfully", env.Message)

	rec, env = s.do(http.MethodPost, "/api/v1/organizations", super, map[string]string{
		"name":          "Globex Again",
		"email":         "hr@globex.com",
		"industry":      "Manufacturing",
		"adminName":     "Other Admin",
		"adminEmail":    "other@globex.com",
		"adminPassword": "globex123",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Conflict", env.Error)

	globexAdmin := s.login("admin@globex.com", "globex123", "admin")
	rec, env = s.do(http.MethodGet, "/api/v1/employees", globexAdmin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(env.Data))

	techAdmin := s.login("admin@hr.com", "admin123", "admin")
	rec, env = s.do(http.MethodGet, "/api/v1/employees", techAdmin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var employees []struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &employees))
	require.NotEmpty(t, employees)

	rec, _ = s.do(http.MethodGet, "/api/v1/employees/"+employees[0].ID, globexAdmin, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEmployeeCreate_DuplicateEmployeeID(t *testing.T) {
	s := newTestServer(t, RouterOptions{})
	admin := s.login("admin@hr.com", "admin123", "admin")

	body := map[string]interface{}{
		"employeeId": "TS0100",
		"name":       "Jane Doe",
		"email":      "jane@techsolutions.com",
		"department": "Engineering",
		"position":   "Engineer",
		"salary":     "5000",
	}
	rec, env := s.do(http.MethodPost, "/api/v1/employees", admin, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "Employee created successfully", env.Message)

	body["email"] = "other@techsolutions.com"
	rec, env = s.do(http.MethodPost, "/api/v1/employees", admin, body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Employee ID already exists in this organization", env.Message)

	employee := s.login("employee@hr.com", "employee123", "employee")
	rec, _ = s.do(http.MethodPost, "/api/v1/employees", employee, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPayslipCalculate(t *testing.T) {
	s := newTestServer(t, RouterOptions{})
	employee := s.login("employee@hr.com", "employee123", "employee")

	rec, env := s.do(http.MethodPost, "/api/v1/payslips/calculate", employee, map[string]string{
		"basicSalary": "5000",
		"allowances":  "1000",
		"overtime":    "200",
		"deductions":  "500",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var payslip struct {
		GrossPay string `json:"grossPay"`
		NetPay   string `json:"netPay"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &payslip))
	assert.Equal(t, "6200", payslip.GrossPay)
	assert.Equal(t, "5700", payslip.NetPay)
}

func TestPlaceholders(t *testing.T) {
	s := newTestServer(t, RouterOptions{})
	employee := s.login("employee@hr.com", "employee123", "employee")

	rec, env := s.do(http.MethodGet, "/api/v1/tasks", employee, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Tasks endpoint - coming soon", env.Message)
	assert.JSONEq(t, `[]`, string(env.Data))

	rec, _ = s.do(http.MethodGet, "/api/v1/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRateLimit(t *testing.T) {
	s := newTestServer(t, RouterOptions{RateLimitMax: 2, RateLimitWindow: time.Minute})

	for i := 0; i < 2; i++ {
		rec, _ := s.do(http.MethodGet, "/api/v1/tasks", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec, env := s.do(http.MethodGet, "/api/v1/tasks", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "Too Many Requests", env.Error)

	rec, _ = s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, RouterOptions{Environment: "test"})

	rec, env := s.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Server is healthy", env.Message)
	assert.Contains(t, string(env.Data), `"environment":"test"`)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	metricsRec := httptest.NewRecorder()
	s.router.ServeHTTP(metricsRec, req)
	assert.Equal(t, http.StatusOK, metricsRec.Code)
	assert.Contains(t, metricsRec.Body.String(), "hris_http_requests_total")

	rec, env = s.do(http.MethodGet, "/api/v1/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", env.Error)
}

func TestCORS_CredentialsOnlyForExplicitOrigins(t *testing.T) {
	tests := []struct {
		name            string
		allowedOrigins  []string
		wantOrigin      string
		wantCredentials string
	}{
		{"wildcard default", nil, "*", ""},
		{"explicit origin", []string{"https://app.example.com"}, "https://app.example.com", "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, RouterOptions{AllowedOrigins: tt.allowedOrigins})

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			req.Header.Set("Origin", "https://app.example.com")
			rec := httptest.NewRecorder()
			s.router.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, tt.wantCredentials, rec.Header().Get("Access-Control-Allow-Credentials"))
		})
	}
}

func TestCreate_BodyOrganizationAccess(t *testing.T) {
	s := newTestServer(t, RouterOptions{})
	admin := s.login("admin@hr.com", "admin123", "admin")
	foreignOrg := "bbbbbbbb-0000-4000-8000-000000000002"

	rec, env := s.do(http.MethodPost, "/api/v1/employees", admin, map[string]interface{}{
		"organizationId": foreignOrg,
		"employeeId":     "TS0200",
		"name":           "Jane Doe",
		"email":          "jane.doe@techsolutions.com",
		"department":     "Engineering",
		"position":       "Engineer",
		"salary":         "5000",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied to this organization", env.Message)

	rec, env = s.do(http.MethodPost, "/api/v1/users", admin, map[string]interface{}{
		"organizationId": foreignOrg,
		"name":           "Intruder",
		"email":          "intruder@techsolutions.com",
		"password":       "secret123",
		"role":           "employee",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Access denied to this organization", env.Message)

	rec, _ = s.do(http.MethodPost, "/api/v1/employees", admin, map[string]interface{}{
		"organizationId": s.sample.Organization.ID,
		"employeeId":     "TS0201",
		"name":           "John Doe",
		"email":          "john.doe@techsolutions.com",
		"department":     "Engineering",
		"position":       "Engineer",
		"salary":         "5000",
	})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestCreate_OversizeBodyRejected(t *testing.T) {
	s := newTestServer(t, RouterOptions{})
	admin := s.login("admin@hr.com", "admin123", "admin")

	rec, _ := s.do(http.MethodPost, "/api/v1/employees", admin, map[string]string{
		"name":  "Jane Doe",
		"notes": strings.Repeat("x", 1<<20),
	})
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
