package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solacehq/solace/internal/adapters/turso"
	"github.com/solacehq/solace/internal/infrastructure/config"
	"github.com/solacehq/solace/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Run all pending database migrations against the configured
Turso database. Only needed when SOLACE_STORAGE_BACKEND=turso; the
badger backend needs no schema.`,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if cfg.Storage.TursoURL == "" {
		return fmt.Errorf("TURSO_DATABASE_URL is not set")
	}

	db, err := turso.NewDB(cfg.Storage.TursoURL, cfg.Storage.TursoToken)
	if err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}
	defer db.Close()

	if err := migrate.RunAll(context.Background(), db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	fmt.Println("Migrations complete")
	return nil
}
