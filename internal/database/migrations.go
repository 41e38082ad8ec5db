package database

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// goose keeps its dialect, filesystem and logger in package globals
var gooseMu sync.Mutex

// Migrate applies every pending migration for the connection's dialect.
func (db *DB) Migrate(ctx context.Context, logger *slog.Logger) error {
	return db.withGoose(logger, func(dir string) error {
		if err := goose.UpContext(ctx, db.DB, dir); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		return nil
	})
}

// MigrateDown rolls back the most recent migration.
func (db *DB) MigrateDown(ctx context.Context, logger *slog.Logger) error {
	return db.withGoose(logger, func(dir string) error {
		if err := goose.DownContext(ctx, db.DB, dir); err != nil {
			return fmt.Errorf("failed to roll back migration: %w", err)
		}
		return nil
	})
}

// MigrationStatus logs the applied state of every migration.
func (db *DB) MigrationStatus(ctx context.Context, logger *slog.Logger) error {
	return db.withGoose(logger, func(dir string) error {
		return goose.StatusContext(ctx, db.DB, dir)
	})
}

// SchemaVersion returns the latest applied migration version.
func (db *DB) SchemaVersion(ctx context.Context) (int64, error) {
	var version int64
	err := db.withGoose(nil, func(string) error {
		v, err := goose.GetDBVersionContext(ctx, db.DB)
		version = v
		return err
	})
	return version, err
}

func (db *DB) withGoose(logger *slog.Logger, fn func(dir string) error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(db.Dialect.GooseDialect()); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if logger == nil {
		goose.SetLogger(goose.NopLogger())
	} else {
		goose.SetLogger(gooseLogger{logger})
	}
	return fn(path.Join("migrations", db.Dialect.MigrationsSubdir()))
}

type gooseLogger struct {
	log *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrations")
}

func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Error(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrations")
	os.Exit(1)
}
