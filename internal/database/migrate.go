package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/pinewood-labs/customer-store/internal/config"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrator aplica las migraciones SQL embebidas en el binario
type Migrator struct {
	migrate *migrate.Migrate
	logger  *logrus.Logger
}

// OpenMigrator abre una conexión dedicada a PostgreSQL para migrar
func OpenMigrator(cfg *config.Config, logger *logrus.Logger) (*Migrator, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	m, err := NewMigrator(db, logger)
	if err != nil {
		db.Close()
		return nil, err
	}
	return m, nil
}

// NewMigrator crea un Migrator que toma posesión de la conexión;
// Close la cierra junto con la fuente de migraciones.
func NewMigrator(db *sql.DB, logger *logrus.Logger) (*Migrator, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("error loading embedded migrations: %w", err)
	}

	driver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return nil, fmt.Errorf("error creating postgres migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}

	return &Migrator{migrate: m, logger: logger}, nil
}

// Up aplica todas las migraciones pendientes
func (m *Migrator) Up() error {
	m.logger.Info("Running migrations up")

	err := m.migrate.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("No migrations to apply")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration up failed: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}

	m.logger.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("Migrations completed")

	return nil
}

// Down revierte todas las migraciones
func (m *Migrator) Down() error {
	m.logger.Info("Running migrations down")

	err := m.migrate.Down()
	if errors.Is(err, migrate.ErrNoChange) {
		m.logger.Info("No migrations to roll back")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration down failed: %w", err)
	}

	m.logger.Info("All migrations rolled back")
	return nil
}

// Version retorna la versión aplicada; 0 si no hay ninguna
func (m *Migrator) Version() (uint, bool, error) {
	version, dirty, err := m.migrate.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("error getting migration version: %w", err)
	}
	return version, dirty, nil
}

// Force fija la versión sin ejecutar migraciones, para salir de un estado dirty
func (m *Migrator) Force(version int) error {
	m.logger.WithField("version", version).Warn("Forcing migration version")

	if err := m.migrate.Force(version); err != nil {
		return fmt.Errorf("error forcing version %d: %w", version, err)
	}
	return nil
}

// Close libera la fuente de migraciones y la conexión
func (m *Migrator) Close() error {
	sourceErr, dbErr := m.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("error closing migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("error closing migration database: %w", dbErr)
	}
	return nil
}
