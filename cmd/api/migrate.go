package main

import (
	"log/slog"

	"github.com/cmlabs-hris/hr-platform-go/internal/pkg/database"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply the embedded database migrations",
		RunE:  runMigrate,
	}
	migrateDown bool
)

func init() {
	migrateCmd.Flags().BoolVar(&migrateDown, "down", false, "roll back the latest migration instead")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	_, db, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db, migrateDown); err != nil {
		return err
	}
	slog.Info("Migrations complete", "down", migrateDown)
	return nil
}
