package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pageza/weekplate/backend/internal/model"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrator applies the embedded postgres migrations
type Migrator struct {
	migrate *migrate.Migrate
	logger  *zap.Logger
}

// NewMigrator prepares golang-migrate over an open postgres connection
func NewMigrator(db *sql.DB, logger *zap.Logger) (*Migrator, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{MigrationsTable: "schema_migrations"})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return &Migrator{migrate: m, logger: logger}, nil
}

// Up runs all pending migrations
func (m *Migrator) Up() error {
	from, _, err := m.Version()
	if err != nil {
		return err
	}

	if err := m.migrate.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			m.logger.Info("No migrations to run", zap.Uint("version", from))
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	to, _, _ := m.Version()
	m.logger.Info("Migrations applied", zap.Uint("from_version", from), zap.Uint("to_version", to))
	return nil
}

// Down rolls back one migration
func (m *Migrator) Down() error {
	if err := m.migrate.Steps(-1); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	m.logger.Info("Rolled back one migration")
	return nil
}

// Version returns the current version, or 0 before the first migration
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// Migrate brings the schema up to date. SQLite, used for local runs and tests,
// is migrated from the gorm models instead of the postgres SQL files.
func Migrate(db *gorm.DB, logger *zap.Logger) error {
	if db.Dialector.Name() == "sqlite" {
		logger.Info("Using GORM auto-migration for SQLite")
		return db.AutoMigrate(model.All()...)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	m, err := NewMigrator(sqlDB, logger)
	if err != nil {
		return err
	}
	return m.Up()
}
