package db

import (
	"errors"
	"fmt"
	"log"

	"github.com/diewo77/hotel-backoffice/internal/config"
	"github.com/diewo77/hotel-backoffice/internal/models"
	migrate "github.com/golang-migrate/migrate/v4"
	// The following blank imports register the postgres driver and file source for golang-migrate.
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"gorm.io/gorm"
)

// MigrationsDir holds the versioned SQL migrations.
const MigrationsDir = "migrations"

// Migrate runs AutoMigrate for all models.
func Migrate(db *gorm.DB) error {
	for _, m := range models.All() {
		if err := db.AutoMigrate(m); err != nil {
			return fmt.Errorf("automigrate %T: %w", m, err)
		}
	}
	return nil
}

// MigrateSQL applies the SQL migrations in dir with golang-migrate.
// Only PostgreSQL has versioned migrations; other drivers use AutoMigrate.
func MigrateSQL(cfg config.DatabaseConfig, dir string) error {
	if cfg.Driver != config.DriverPostgres {
		return fmt.Errorf("sql migrations are not available for %s", cfg.Driver)
	}
	m, err := migrate.New("file://"+dir, cfg.URL())
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Setup brings the schema up to date: SQL migrations when enabled and
// supported, AutoMigrate otherwise.
func Setup(db *gorm.DB, cfg *config.Config) error {
	if cfg.App.Migrations && cfg.Database.Driver == config.DriverPostgres {
		log.Println("[db] running SQL migrations")
		return MigrateSQL(cfg.Database, MigrationsDir)
	}
	if cfg.App.Migrations {
		log.Printf("[db] no SQL migrations for %s, using AutoMigrate", cfg.Database.Driver)
	}
	return Migrate(db)
}
