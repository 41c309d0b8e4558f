package app

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/carnotes-app/carnotes/internal/http"
	"github.com/carnotes-app/carnotes/internal/service"
	"github.com/carnotes-app/carnotes/internal/store"
	"github.com/carnotes-app/carnotes/internal/store/drivers/sqlite"
	"github.com/carnotes-app/carnotes/pkg/cryptox"
	"github.com/carnotes-app/carnotes/pkg/jwtx"
	"github.com/carnotes-app/carnotes/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Application encapsulates the carnotes service with all its dependencies.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db    store.Store
	codec *jwtx.Codec

	sessionService      *service.SessionService
	userService         *service.UserService
	carService          *service.CarService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "carnotes",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	cryptox.SetPepperPath(app.cfg.PepperFile)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}
	if err := app.initCodec(); err != nil {
		_ = app.db.Close()
		return nil, err
	}
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("carnotes service starting", "port", app.cfg.Port, "version", BuildVersion)

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
	app.logger.Info("shutting down carnotes service...")

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

	app.logger.Info("carnotes service stopped")
	return nil
}

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

// initCodec builds the token codec. Secrets left unset in the environment are
// generated per process; every outstanding token and session dies on restart,
// which is acceptable in dev and loudly logged everywhere else.
func (app *Application) initCodec() error {
	access, err := app.secretOrGenerate(app.cfg.AccessSecret, "CARNOTES_ACCESS_SECRET")
	if err != nil {
		return err
	}
	refresh, err := app.secretOrGenerate(app.cfg.RefreshSecret, "CARNOTES_REFRESH_SECRET")
	if err != nil {
		return err
	}
	fingerprint, err := app.secretOrGenerate(app.cfg.FingerprintSecret, "CARNOTES_FINGERPRINT_SECRET")
	if err != nil {
		return err
	}

	app.codec = &jwtx.Codec{
		Issuer:            app.cfg.Issuer,
		AccessSecret:      access,
		RefreshSecret:     refresh,
		FingerprintSecret: fingerprint,
		AccessTTL:         app.cfg.AccessTTL,
		RefreshTTL:        app.cfg.RefreshTTL,
	}
	return nil
}

func (app *Application) secretOrGenerate(configured, name string) ([]byte, error) {
	if configured != "" {
		return []byte(configured), nil
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", name, err)
	}
	app.logger.Warn("signing secret not configured, generated an ephemeral one",
		"env_var", name)
	return secret, nil
}

func (app *Application) initServices() {
	app.sessionService = &service.SessionService{
		Store: app.db,
		Codec: app.codec,
	}
	app.userService = &service.UserService{Store: app.db}
	app.carService = &service.CarService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.RefreshTTL,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.codec,
		BuildVersion,
		app.db,
		app.logger,
	)

	router.CookieSecure = app.cfg.CookieSecure()
	router.RefreshTTL = app.cfg.RefreshTTL
	router.SessionService = app.sessionService
	router.UserService = app.userService
	router.CarService = app.carService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
