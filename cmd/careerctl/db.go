package main

import (
	"context"
	"fmt"
	"time"

	"careerxr/internal/app"
	"careerxr/internal/config"
	"careerxr/internal/database"
	dbpostgres "careerxr/internal/database/postgres"
	"careerxr/internal/repository"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and seed reference data",
	RunE:  runMigrate,
}

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Load the catalog source and store it in Postgres",
	Long:  "Loads the catalog strictly (any fetch or parse error fails the command), applies pending migrations and replaces the stored catalog.",
	RunE:  runImport,
}

func init() {
	rootCmd.AddCommand(migrateCmd, importCmd)
}

func connect(ctx context.Context) (database.DB, error) {
	cfg, err := config.LoadDatabase()
	if err != nil {
		return nil, err
	}
	cctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	db, err := dbpostgres.Connect(cctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return db, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	db, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := app.Migrate(cmd.Context(), db, newLogger()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
	return nil
}

func runImport(cmd *cobra.Command, _ []string) error {
	cat, err := loadCatalog(cmd.Context())
	if err != nil {
		return err
	}

	db, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := app.Migrate(cmd.Context(), db, newLogger()); err != nil {
		return err
	}
	if err := repository.NewPostgresCatalogRepository(db).SaveCatalog(cmd.Context(), cat); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d jobs and %d skills from %s\n", len(cat.Jobs), len(cat.Skills), cat.Source)
	return nil
}
