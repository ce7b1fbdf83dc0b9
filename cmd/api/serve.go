package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hr-platform-go/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/hr-platform-go/internal/handler/http"
	"github.com/cmlabs-hris/hr-platform-go/internal/handler/http/response"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/cron"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/hr-platform-go/internal/repository/postgresql"
	authService "github.com/cmlabs-hris/hr-platform-go/internal/service/auth"
	employeeService "github.com/cmlabs-hris/hr-platform-go/internal/service/employee"
	organizationService "github.com/cmlabs-hris/hr-platform-go/internal/service/organization"
	payrollService "github.com/cmlabs-hris/hr-platform-go/internal/service/payroll"
	userService "github.com/cmlabs-hris/hr-platform-go/internal/service/user"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout       = 30 * time.Second
	refreshTokenRetention = 24 * time.Hour
)

var (
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE:  runServe,
	}
	serveMigrate bool
)

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply pending migrations before serving")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, db, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	response.ExposeInternalErrors(!cfg.IsProduction())

	if serveMigrate {
		if err := database.Migrate(ctx, db, false); err != nil {
			return err
		}
	}

	transactor := postgresql.NewTransactor(db)
	userRepo := postgresql.NewUserRepository(db)
	organizationRepo := postgresql.NewOrganizationRepository(db)
	employeeRepo := postgresql.NewEmployeeRepository(db)
	refreshTokenRepo := postgresql.NewRefreshTokenRepository(db)

	tokens, err := jwt.NewJWTService(jwt.Options{
		AccessSecret:  cfg.JWT.Secret,
		RefreshSecret: cfg.JWT.RefreshSecret,
		AccessTTL:     cfg.JWT.AccessExpiration,
		RefreshTTL:    cfg.JWT.RefreshExpiration,
	})
	if err != nil {
		return err
	}

	seeder := fixtures.NewSeeder(transactor, userRepo, organizationRepo, employeeRepo, cfg.Security.BcryptCost)
	if _, err := seeder.EnsureSuperAdmin(ctx, fixtures.Account{
		Email:    cfg.SuperAdmin.Email,
		Password: cfg.SuperAdmin.Password,
		Name:     cfg.SuperAdmin.Name,
	}); err != nil {
		return fmt.Errorf("bootstrap super admin: %w", err)
	}

	authSvc := authService.NewAuthService(transactor, userRepo, organizationRepo, tokens, refreshTokenRepo, authService.Options{
		SuperAdminEmail:   cfg.SuperAdmin.Email,
		RefreshRevocation: cfg.JWT.RefreshRevocation,
		BcryptCost:        cfg.Security.BcryptCost,
	})
	userSvc := userService.NewUserService(transactor, userRepo, organizationRepo, cfg.Security.BcryptCost)
	organizationSvc := organizationService.NewOrganizationService(transactor, organizationRepo, userRepo, cfg.Security.BcryptCost)
	employeeSvc := employeeService.NewEmployeeService(transactor, employeeRepo, organizationRepo, userRepo)
	payrollSvc := payrollService.NewPayrollService(employeeRepo)

	router := appHTTP.NewRouter(appHTTP.RouterOptions{
		Logger:          slog.Default(),
		Environment:     cfg.App.Env,
		AllowedOrigins:  cfg.CORS.AllowedOrigins,
		RateLimitMax:    cfg.RateLimit.MaxRequests,
		RateLimitWindow: cfg.RateLimit.Window,
	}, authSvc, appHTTP.Handlers{
		Auth:         appHTTP.NewAuthHandler(authSvc, userSvc),
		Organization: appHTTP.NewOrganizationHandler(organizationSvc),
		User:         appHTTP.NewUserHandler(userSvc),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
		Payroll:      appHTTP.NewPayrollHandler(payrollSvc),
	})

	if cfg.JWT.RefreshRevocation {
		scheduler := cron.NewScheduler()
		cron.NewSessionJobs(refreshTokenRepo, refreshTokenRetention).RegisterJobs(scheduler, cfg.JWT.CleanupInterval)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "port", cfg.App.Port, "env", cfg.App.Env)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
