package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"

	_ "github.com/lib/pq"

	"github.com/pageza/weekplate/backend/config"
	"github.com/pageza/weekplate/backend/internal/database"
	"github.com/pageza/weekplate/backend/internal/logger"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	version := flag.Bool("version", false, "Print the current schema version and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.DBDriver != config.DriverPostgres {
		log.Fatalf("migrations only apply to postgres; %s is migrated on startup", cfg.DBDriver)
	}

	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	m, err := database.NewMigrator(db, logger.New(logger.Config{Level: cfg.LogLevel, Format: "console"}))
	if err != nil {
		log.Fatalf("failed to prepare migrations: %v", err)
	}

	switch {
	case *version:
		v, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("failed to read schema version: %v", err)
		}
		fmt.Printf("Schema version: %d (dirty: %t)\n", v, dirty)
	case *rollback:
		if err := m.Down(); err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Println("Successfully rolled back the last migration.")
	default:
		if err := m.Up(); err != nil {
			log.Fatalf("%v", err)
		}
		fmt.Println("All migrations applied successfully.")
	}
}
