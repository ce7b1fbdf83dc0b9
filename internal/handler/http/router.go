package http

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/cmlabs-hris/hr-platform-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hr-platform-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type RouterOptions struct {
	// Logger enables request logging when set.
	Logger          *slog.Logger
	Environment     string
	AllowedOrigins  []string
	RateLimitMax    int
	RateLimitWindow time.Duration
}

type Handlers struct {
	Auth         AuthHandler
	Organization OrganizationHandler
	User         UserHandler
	Employee     EmployeeHandler
	Payroll      PayrollHandler
}

type healthResponse struct {
	Timestamp   time.Time `json:"timestamp"`
	Uptime      float64   `json:"uptime"`
	Environment string    `json:"environment"`
}

func NewRouter(opts RouterOptions, authenticator middleware.Authenticator, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	startedAt := time.Now()

	r.Use(metrics.Middleware)

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: !slices.Contains(allowedOrigins, "*"),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		MaxAge:           300,
	}))

	if opts.Logger != nil {
		r.Use(httplog.RequestLogger(opts.Logger, &httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.SchemaECS,
		}))
	}

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/ping"))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route "+r.URL.Path+" not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method "+r.Method+" not allowed", nil)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, "Server is healthy", healthResponse{
			Timestamp:   time.Now().UTC(),
			Uptime:      time.Since(startedAt).Seconds(),
			Environment: opts.Environment,
		})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	authenticate := middleware.Authenticate(authenticator)
	organizationAccess := middleware.RequireOrganizationAccess(middleware.FromURLParam("organizationId"))
	// Create payloads carry the target organization; members default to their own.
	bodyOrganizationAccess := middleware.RequireOrganizationAccess(middleware.FirstOf(
		middleware.FromBodyField("organizationId"),
		middleware.OwnOrganization,
	))

	r.Route("/api/v1", func(r chi.Router) {
		if opts.RateLimitMax > 0 && opts.RateLimitWindow > 0 {
			r.Use(middleware.RateLimit(opts.RateLimitMax, opts.RateLimitWindow))
		}

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", h.Auth.Login)
			r.Post("/refresh", h.Auth.RefreshToken)

			r.Group(func(r chi.Router) {
				r.Use(authenticate)
				r.Post("/logout", h.Auth.Logout)
				r.Get("/me", h.Auth.Me)
				r.Put("/password", h.Auth.ChangePassword)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(authenticate)

			r.Route("/organizations", func(r chi.Router) {
				r.With(middleware.RequireSuperAdmin).Get("/", h.Organization.List)
				r.With(middleware.RequireSuperAdmin).Post("/", h.Organization.Create)

				r.Route("/{organizationId}", func(r chi.Router) {
					r.Use(organizationAccess)
					r.Get("/", h.Organization.GetByID)
					r.Get("/stats", h.Organization.Stats)
					r.With(middleware.RequireAdmin).Put("/", h.Organization.Update)
					r.With(middleware.RequireSuperAdmin).Patch("/status", h.Organization.UpdateStatus)
				})
			})

			r.Route("/users", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)
				r.Get("/", h.User.List)
				r.With(bodyOrganizationAccess).Post("/", h.User.Create)
				r.Patch("/{userId}/status", h.User.UpdateStatus)
			})

			r.Route("/employees", func(r chi.Router) {
				r.Get("/", h.Employee.List)
				r.Get("/{employeeId}", h.Employee.GetByID)
				r.Get("/{employeeId}/subordinates", h.Employee.Subordinates)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireAdmin)
					r.With(bodyOrganizationAccess).Post("/", h.Employee.Create)
					r.Put("/{employeeId}", h.Employee.Update)
					r.Delete("/{employeeId}", h.Employee.Delete)
				})
			})

			r.Route("/payslips", func(r chi.Router) {
				r.Get("/", ComingSoon("Payslips"))
				r.Post("/calculate", h.Payroll.CalculatePayslip)
			})

			r.Get("/attendance", ComingSoon("Attendance"))
			r.Get("/tasks", ComingSoon("Tasks"))
			r.Get("/leave-requests", ComingSoon("Leave requests"))
			r.Get("/departments", ComingSoon("Departments"))
			r.Route("/reports", func(r chi.Router) {
				r.Get("/employees", ComingSoon("Employee reports"))
				r.Get("/leave", ComingSoon("Leave reports"))
				r.Get("/attendance", ComingSoon("Attendance reports"))
			})
		})
	})
	return r
}
