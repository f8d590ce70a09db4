package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/storekeep/storekeep/internal/auth/http"
	"github.com/storekeep/storekeep/internal/auth/notify"
	"github.com/storekeep/storekeep/internal/auth/service"
	"github.com/storekeep/storekeep/internal/auth/store"
	"github.com/storekeep/storekeep/internal/auth/store/drivers/sqlite"
	"github.com/storekeep/storekeep/pkg/cryptox"
	"github.com/storekeep/storekeep/pkg/jwtx"
	"github.com/storekeep/storekeep/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db       store.Store
	signer   *jwtx.EdDSASigner
	verifier *jwtx.EdDSAVerifier
	notifier notify.Notifier

	tokenService        *service.TokenService
	authService         *service.AuthService
	resetService        *service.PasswordResetService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "storekeep-auth",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	// Set pepper path for password hashing
	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	signer, verifier, err := InitAuthKeys(app.cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize signing keys: %w", err)
	}
	app.signer = signer
	app.verifier = verifier

	if err := app.initNotifier(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

// initDatabase opens the database and applies migrations.
func (app *Application) initDatabase() error {
	host := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initNotifier picks SMTP delivery when a mail host is configured and
// falls back to logging codes in dev.
func (app *Application) initNotifier() error {
	if app.cfg.MailHost == "" {
		if app.cfg.Env != "dev" {
			app.logger.Warn("no mail host configured outside dev; codes will only be logged")
		}
		app.logger.Info("mail delivery disabled, codes are logged")
		app.notifier = notify.Log{}
		return nil
	}

	smtp, err := notify.NewSMTP(notify.SMTPConfig{
		Host:        app.cfg.MailHost,
		User:        app.cfg.MailUser,
		Password:    app.cfg.MailPass,
		FromAddress: app.cfg.MailAddress,
		SkipVerify:  app.cfg.MailSkipVerify,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize mail client: %w", err)
	}

	app.logger.Info("mail delivery enabled", "host", app.cfg.MailHost)
	app.notifier = smtp
	return nil
}

// initServices initializes all business logic services.
func (app *Application) initServices() {
	app.tokenService = &service.TokenService{
		Signer:   app.signer,
		Verifier: app.verifier,
		Store:    app.db,
		Issuer:   app.cfg.Issuer,
		TokenTTL: app.cfg.TokenTTL,
	}

	app.authService = &service.AuthService{
		Store:    app.db,
		Notifier: app.notifier,
		Tokens:   app.tokenService,
		CodeTTL:  app.cfg.CodeTTL,
	}

	app.resetService = &service.PasswordResetService{
		Store:         app.db,
		Notifier:      app.notifier,
		CodeTTL:       app.cfg.CodeTTL,
		ResetTokenTTL: app.cfg.ResetTokenTTL,
	}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

// initHTTP initializes the HTTP router and server.
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.verifier,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.AuthService = app.authService
	router.ResetService = app.resetService
	router.TokenService = app.tokenService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
