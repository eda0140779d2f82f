package postgres

import (
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file" // fuente file:// para las migraciones
	_ "github.com/jackc/pgx/v5/stdlib"                   // driver "pgx" para database/sql

	"github.com/jhoicas/stock-locations-api/pkg/config"
	"github.com/jhoicas/stock-locations-api/pkg/logger"
)

// Migrate aplica las migraciones pendientes de cfg.MigrationsPath.
// Sin cambios o sin archivos no es error; una versión sucia sí.
func Migrate(cfg config.DBConfig, log *logger.Logger) error {
	if cfg.MigrationsPath == "" {
		log.Info().Msg("DB_MIGRATIONS_PATH vacío, se omiten migraciones")
		return nil
	}
	absPath, err := filepath.Abs(filepath.Clean(cfg.MigrationsPath))
	if err != nil {
		return fmt.Errorf("resolver ruta de migraciones: %w", err)
	}
	source, err := url.Parse(filepath.ToSlash(absPath))
	if err != nil {
		return fmt.Errorf("parse migrations url: %w", err)
	}
	source.Scheme = "file"

	db, err := sql.Open("pgx", cfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("abrir conexión para migraciones: %w", err)
	}
	defer db.Close()

	driver, err := migratepg.WithInstance(db, &migratepg.Config{SchemaName: "public"})
	if err != nil {
		return fmt.Errorf("crear driver de migraciones: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(source.String(), "postgres", driver)
	if err != nil {
		return fmt.Errorf("crear instancia de migraciones: %w", err)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info().Msg("sin migraciones nuevas")
			return nil
		}
		if errors.Is(err, os.ErrNotExist) {
			log.Warn().Str("path", absPath).Msg("no hay archivos de migración")
			return nil
		}
		var dirty migrate.ErrDirty
		if errors.As(err, &dirty) {
			return fmt.Errorf("migración fallida: versión sucia %d", dirty.Version)
		}
		return fmt.Errorf("migración fallida: %w", err)
	}
	version, _, _ := m.Version()
	log.Info().Uint("version", version).Msg("migraciones aplicadas")
	return nil
}
