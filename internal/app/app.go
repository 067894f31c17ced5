package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ecotech-solutions/ecotech/internal/airquality"
	"github.com/ecotech-solutions/ecotech/internal/console"
	"github.com/ecotech-solutions/ecotech/internal/service"
	"github.com/ecotech-solutions/ecotech/internal/store"
	"github.com/ecotech-solutions/ecotech/internal/store/drivers/sqlite"
	"github.com/ecotech-solutions/ecotech/pkg/cryptox"
	"github.com/ecotech-solutions/ecotech/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application wires the console app together: config, logger, storage,
// services and the interactive console.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db store.Store

	accountService *service.AccountService
	session        *service.Session
	airClient      *airquality.Client
	console        *console.Console
}

// New creates an Application with all dependencies initialized. The storage
// handle is injected into the services; nothing here is package-global, so
// tests can assemble the same pieces around a throwaway database.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "ecotech-console",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()

	app.console = console.New(
		os.Stdin,
		os.Stdout,
		app.accountService,
		app.session,
		app.airClient,
		app.logger,
	)

	return app, nil
}

// Run checks storage connectivity and hands control to the console. The
// returned error is console.ErrLocked when the login budget ran out; main
// maps that to a non-zero exit.
func (app *Application) Run(ctx context.Context) error {
	if err := app.db.Ping(ctx); err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}

	app.logger.Info("console starting", "version", BuildVersion)
	return app.console.Run(ctx)
}

// Close releases the storage handle.
func (app *Application) Close() error {
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}
	return nil
}

func (app *Application) initDatabase() error {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", app.cfg.DatabaseFile)
	db, err := sqlite.NewStore(dsn)
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

func (app *Application) initServices() {
	hasher := cryptox.NewHasher(app.cfg.BcryptCost)

	app.accountService = &service.AccountService{
		Store:  app.db,
		Hasher: hasher,
	}
	app.session = service.NewSession(app.accountService, app.cfg.MaxLoginAttempts)
	app.airClient = airquality.NewClient(
		app.cfg.AQIBaseURL,
		app.cfg.AQIToken,
		app.cfg.AQITimeout,
		app.logger,
	)
}
