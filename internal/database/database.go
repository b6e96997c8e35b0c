// Package database opens the portal's store through gorm and sqlx over one
// connection pool and applies the embedded goose migrations.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/frahmantamala/payraise-portal/db/migrations"
	"github.com/frahmantamala/payraise-portal/internal"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const migrationsTable = "schema_migrations"

type DB struct {
	Gorm   *gorm.DB
	SQLX   *sqlx.DB
	Driver string
}

// Open connects with the configured driver and verifies the connection.
func Open(ctx context.Context, cfg internal.DatabaseConfig, logger *slog.Logger) (*DB, error) {
	dialector, sqlxDriver, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormLogger.New(slogWriter{logger}, gormLogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	if cfg.Driver == internal.DriverSQLite {
		// one writer keeps sqlite from returning "database is locked"
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	pingCtx, cancel := internal.WithTimeout(ctx, cfg.QueryTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{
		Gorm:   gdb,
		SQLX:   sqlx.NewDb(sqlDB, sqlxDriver),
		Driver: cfg.Driver,
	}, nil
}

func (d *DB) Close() error {
	return d.SQLX.Close()
}

// Migrate applies (or with rollback, reverts the latest of) the embedded
// migrations for the connection's driver.
func (d *DB) Migrate(ctx context.Context, rollback bool) error {
	return Migrate(ctx, d.SQLX.DB, d.Driver, rollback)
}

func Migrate(ctx context.Context, db *sql.DB, driver string, rollback bool) error {
	dialect, err := gooseDialect(driver)
	if err != nil {
		return err
	}

	dir, err := fs.Sub(migrations.FS, driver)
	if err != nil {
		return fmt.Errorf("migrations for %s: %w", driver, err)
	}

	goose.SetBaseFS(dir)
	defer goose.SetBaseFS(nil)
	goose.SetTableName(migrationsTable)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if rollback {
		if err := goose.DownContext(ctx, db, "."); err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
		return nil
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func dialectorFor(cfg internal.DatabaseConfig) (gorm.Dialector, string, error) {
	if cfg.Source == "" {
		return nil, "", errors.New("database source is required")
	}
	switch cfg.Driver {
	case internal.DriverSQLite:
		return sqlite.Open(cfg.Source), "sqlite3", nil
	case internal.DriverPostgres:
		return postgres.New(postgres.Config{DSN: cfg.Source}), "pgx", nil
	case internal.DriverMySQL:
		return mysql.Open(cfg.Source), "mysql", nil
	default:
		return nil, "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func gooseDialect(driver string) (string, error) {
	switch driver {
	case internal.DriverSQLite:
		return "sqlite3", nil
	case internal.DriverPostgres:
		return "postgres", nil
	case internal.DriverMySQL:
		return "mysql", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// slogWriter routes gorm's slow-query and error output through slog.
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...interface{}) {
	w.logger.Warn(fmt.Sprintf(format, args...), "component", "gorm")
}
