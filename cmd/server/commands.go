package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/urfave/cli/v3"

	"betledger/internal/config"
	"betledger/internal/database"
	"betledger/internal/repository"
	"betledger/internal/service"
)

// loadConfig loads and validates configuration and installs the default logger
func loadConfig(cmd *cli.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cmd.String("env-file"))
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := setupLogger(cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// ensureDatabaseDir creates the parent directory of a sqlite database file.
func ensureDatabaseDir(cfg *config.Config) error {
	dialect, ok := database.DialectFor(strings.ToLower(cfg.DatabaseType))
	if !ok || dialect.MigrationsSubdir() != "sqlite" {
		return nil
	}
	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return nil
}

func openDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*database.DB, error) {
	if err := ensureDatabaseDir(cfg); err != nil {
		return nil, err
	}

	db, err := database.InitializeWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("database connected", "type", cfg.DatabaseType)
	return db, nil
}

func runMigrate(direction string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg, logger, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		db, err := openDatabase(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer db.Close()

		switch direction {
		case "down":
			return db.MigrateDown(ctx, logger)
		case "status":
			return db.MigrationStatus(ctx, logger)
		default:
			if err := db.Migrate(ctx, logger); err != nil {
				return err
			}
			version, err := db.SchemaVersion(ctx)
			if err != nil {
				return err
			}
			logger.Info("migrations applied", "version", version)
			return nil
		}
	}
}

func runCleanup(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	db, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	tokens := repository.NewResetTokenRepository(db)
	removed, err := tokens.DeleteExpired(ctx, time.Now().UTC())
	if err != nil {
		return err
	}
	logger.Info("expired reset tokens removed", "count", removed)
	return nil
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	db, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	outputPath := cmd.String("output")
	if outputPath == "" {
		outputPath = fmt.Sprintf("backup_%s.json", time.Now().Format("20060102_150405"))
	}
	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	if _, err := service.NewBackupService(db, logger).Export(ctx, file); err != nil {
		return err
	}
	logger.Info("backup written", "path", outputPath)
	return nil
}

func runImport(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	db, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx, logger); err != nil {
		return err
	}

	file, err := os.Open(cmd.String("input"))
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	_, err = service.NewBackupService(db, logger).Import(ctx, file)
	return err
}
