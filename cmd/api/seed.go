package main

import (
	"log/slog"

	"github.com/cmlabs-hris/hr-platform-go/internal/fixtures"
	"github.com/cmlabs-hris/hr-platform-go/internal/repository/postgresql"
	"github.com/spf13/cobra"
)

var (
	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Create the super-admin account and optionally a sample tenant",
		RunE:  runSeed,
	}
	seedSample bool
)

func init() {
	seedCmd.Flags().BoolVar(&seedSample, "sample", false, "also create the Tech Solutions Inc. demo tenant")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, db, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	seeder := fixtures.NewSeeder(
		postgresql.NewTransactor(db),
		postgresql.NewUserRepository(db),
		postgresql.NewOrganizationRepository(db),
		postgresql.NewEmployeeRepository(db),
		cfg.Security.BcryptCost,
	)

	superAdmin, err := seeder.EnsureSuperAdmin(ctx, fixtures.Account{
		Email:    cfg.SuperAdmin.Email,
		Password: cfg.SuperAdmin.Password,
		Name:     cfg.SuperAdmin.Name,
	})
	if err != nil {
		return err
	}
	slog.Info("Super admin ready", "email", superAdmin.Email)

	if !seedSample {
		return nil
	}
	sample, err := seeder.SeedSample(ctx)
	if err != nil {
		return err
	}
	slog.Info("Sample tenant ready",
		"organization", sample.Organization.Name,
		"admin", sample.Admin.Email,
		"employee", sample.Employee.Email,
	)
	return nil
}
