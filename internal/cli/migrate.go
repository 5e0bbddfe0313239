package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geoscope/geoscope/internal/db"
	"github.com/geoscope/geoscope/internal/db/sqlite"
	"github.com/geoscope/geoscope/internal/models"
)

var migrationsDir string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run registry database migrations",
	Long:  `Apply pending SQL migrations to the SQLite registry database.`,
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().StringVar(&migrationsDir, "dir", "", "migrations directory (default: internal/db/migrations)")
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	fmt.Println("🔄 Running registry migrations...")

	registryDB, err := sqlite.New(&models.Config{
		Provider: cfg.SQLDatabase.Provider,
		URI:      cfg.SQLDatabase.URI,
		Database: cfg.SQLDatabase.Database,
	})
	if err != nil {
		return fmt.Errorf("failed to create registry database: %w", err)
	}
	if err := registryDB.Connect(ctx); err != nil {
		return fmt.Errorf("failed to open registry database: %w", err)
	}
	defer registryDB.Disconnect(ctx)

	if err := db.RunMigrations(ctx, registryDB.DB(), migrationsDir); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Println("✅ Migrations completed successfully!")
	return nil
}
