package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"betledger/internal/handlers"
	"betledger/internal/notify"
	"betledger/internal/oauth"
	"betledger/internal/repository"
	"betledger/internal/security"
	"betledger/internal/service"
)

const (
	shutdownTimeout = 10 * time.Second
	cleanupInterval = time.Hour
)

func runServer(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	startup := handlers.NewStartupStatus(handlers.StepDatabase, handlers.StepMigrations, handlers.StepServices)

	startup.SetCurrentStep(handlers.StepDatabase)
	db, err := openDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer db.Close()
	startup.CompleteStep(handlers.StepDatabase)

	startup.SetCurrentStep(handlers.StepMigrations)
	if err := db.Migrate(ctx, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	startup.CompleteStep(handlers.StepMigrations)

	startup.SetCurrentStep(handlers.StepServices)
	tokens, err := security.NewTokenService(security.TokenConfig{
		Secret: cfg.JWTSecret,
		TTL:    cfg.TokenTTL,
	})
	if err != nil {
		return err
	}

	notifier, err := notify.New(ctx, cfg.Email, logger)
	if err != nil {
		return fmt.Errorf("failed to configure email: %w", err)
	}
	if notifier == nil {
		logger.Warn("no email provider configured, reset links will be logged")
	}

	providers := oauth.NewRegistryFromConfig(cfg.OAuth, cfg.APIURL)
	logger.Info("oauth providers", "enabled", providers.Names())

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	resetTokenRepo := repository.NewResetTokenRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	gameRepo := repository.NewGameRepository(db)

	// Initialize services
	credentials := service.NewCredentialStore(userRepo)
	authService := service.NewAuthService(credentials, userRepo, tokens, logger)
	resetService := service.NewResetService(db, userRepo, resetTokenRepo, credentials, notifier, service.ResetConfig{
		FrontendURL: cfg.FrontendURL,
		TTL:         cfg.ResetTokenTTL,
	}, logger)
	linker := service.NewOAuthLinker(userRepo, logger)
	ledger := service.NewLedgerService(groupRepo, gameRepo, userRepo, service.NewMembershipGuard(groupRepo))
	startup.CompleteStep(handlers.StepServices)

	router := handlers.Router{
		Auth:       handlers.NewAuthHandler(authService, resetService, linker, providers, cfg.FrontendURL, logger),
		Ledger:     handlers.NewLedgerHandler(ledger, logger),
		Middleware: handlers.NewMiddleware(authService, logger),
		Startup:    startup,
		Logger:     logger,
	}

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go cleanupExpiredResetTokens(ctx, resetService, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	startup.MarkReady()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// cleanupExpiredResetTokens periodically removes reset tokens past their window
func cleanupExpiredResetTokens(ctx context.Context, resetService *service.ResetService, logger *slog.Logger) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := resetService.PurgeExpired(ctx)
			if err != nil {
				logger.Error("failed to clean up expired reset tokens", "error", err)
				continue
			}
			logger.Debug("expired reset tokens cleaned up", "count", removed)
		}
	}
}
