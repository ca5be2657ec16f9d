package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tair/inventory-tracker/internal/inventory/docstore"
	"github.com/tair/inventory-tracker/pkg/database"
	"github.com/tair/inventory-tracker/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the documents table when the postgres store is configured",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Store.Driver != docstore.DriverPostgres {
		logger.Logger.Info().
			Str("driver", cfg.Store.Driver).
			Msg("Nothing to migrate for this store driver")
		return nil
	}

	db, err := database.NewGormConnection(cfg.Store.Postgres)
	if err != nil {
		return err
	}

	store := docstore.NewGormStore(db)
	defer store.Close()

	if err := store.AutoMigrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Logger.Info().
		Str("database", cfg.Store.Postgres.DBName).
		Msg("Database migrated successfully")
	return nil
}
