package main

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"moneta/internal/shared/config"
)

const usage = `Moneta Migrate - Database schema management

Usage:
  migrate <command>

Commands:
  up      Apply all pending migrations
  down    Roll back the most recent migration

Database connection is taken from the DB_* environment variables.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	if err := run(os.Args[1]); err != nil {
		log.Fatalf("Migration error: %v", err)
	}
}

func run(command string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.Database.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Steps(-1)
	default:
		fmt.Print(usage)
		os.Exit(1)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Println("No pending migrations")
		return nil
	}
	if err != nil {
		return err
	}

	log.Printf("Migration %s complete", command)
	return nil
}
