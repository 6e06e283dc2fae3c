package database

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/ipede/negocio-verification-service/internal/infrastructure/config"
	"go.uber.org/zap"
)

// NewMigrator opens a migrate instance over the SQL files in dir
func NewMigrator(cfg *config.Config, dir string) (*migrate.Migrate, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("error resolving migrations path: %w", err)
	}

	m, err := migrate.New("file://"+filepath.ToSlash(abs), cfg.MigrationURL())
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}
	return m, nil
}

// RunMigrations applies all pending migrations from dir
func RunMigrations(cfg *config.Config, dir string, log *zap.Logger) error {
	m, err := NewMigrator(cfg, dir)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migrations: %w", err)
	}

	log.Info("Migrations completed successfully", zap.String("dir", dir))
	return nil
}
