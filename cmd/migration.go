package cmd

import (
	"errors"
	"fmt"
	"log"

	"trade-journal/pkg/database"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

var migrationsPath string

func runMigrations(direction string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if cfg.DB.Driver == database.DriverSQLite {
		return errors.New("migrations only apply to postgres; sqlite schemas are created on start")
	}

	m, err := migrate.New(migrationsPath, database.DSN(cfg.DB))
	if err != nil {
		return fmt.Errorf("create migration instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.Printf("Migration source error on close: %v\n", srcErr)
		}
		if dbErr != nil {
			log.Printf("Migration database error on close: %v\n", dbErr)
		}
	}()

	var migrationErr error
	switch direction {
	case "up":
		migrationErr = m.Up()
	case "down":
		migrationErr = m.Steps(-1)
	}
	if migrationErr != nil && !errors.Is(migrationErr, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", migrationErr)
	}

	if direction == "up" {
		fmt.Println("Applied migrations successfully.")
	} else {
		fmt.Println("Reverted last migration successfully.")
	}
	return nil
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all available database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrations("up")
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert the last database migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrations("down")
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the postgres schema",
}

func init() {
	migrateCmd.PersistentFlags().StringVar(&migrationsPath, "path", "file://migrations", "migration source URL")
	migrateCmd.AddCommand(upCmd)
	migrateCmd.AddCommand(downCmd)
}
