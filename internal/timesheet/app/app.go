package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpapi "github.com/clockleaf/timesheet/internal/timesheet/http"
	"github.com/clockleaf/timesheet/internal/timesheet/service"
	"github.com/clockleaf/timesheet/internal/timesheet/store"
	"github.com/clockleaf/timesheet/internal/timesheet/store/drivers/sqlite"
	"github.com/clockleaf/timesheet/pkg/jwtx"
	"github.com/clockleaf/timesheet/pkg/slogx"
	"github.com/clockleaf/timesheet/pkg/ttlstore"
)

// BuildVersion should be set at build time via ldflags.
const BuildVersion = "v0.1.0"

// Application wires the timesheet service together: store, services, HTTP.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db     store.Store
	signer *jwtx.Signer

	userService       *service.UserService
	clientService     *service.ClientService
	projectService    *service.ProjectService
	entryService      *service.EntryService
	timesheetService  *service.TimesheetService
	analyticsService  *service.AnalyticsService
	authService       *service.AuthService
	invitationService *service.InvitationService
	setupService      *service.SetupService
	housekeeping      *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "timesheet",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("TIMESHEET_JWT_SECRET must be set")
	}
	app.signer = jwtx.NewSigner(cfg.JWTSecret, cfg.Issuer, cfg.TokenTTL)

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeeping.Start()

	app.logger.Info("timesheet service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
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

// Shutdown drains in-flight requests, stops housekeeping and closes the db.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down timesheet service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeeping.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("timesheet service stopped")
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
	mailer := &service.LogMailer{Logger: app.logger}

	app.userService = &service.UserService{Store: app.db}
	app.clientService = &service.ClientService{Store: app.db}
	app.projectService = &service.ProjectService{Store: app.db}
	app.entryService = &service.EntryService{Store: app.db}
	app.timesheetService = &service.TimesheetService{Store: app.db}
	app.analyticsService = &service.AnalyticsService{Store: app.db}

	app.authService = &service.AuthService{
		Store:   app.db,
		Signer:  app.signer,
		Limiter: ttlstore.NewMemory(),
		Mailer:  mailer,
		BaseURL: app.cfg.BaseURL,
	}
	app.invitationService = &service.InvitationService{
		Store:   app.db,
		Signer:  app.signer,
		Mailer:  mailer,
		BaseURL: app.cfg.BaseURL,
	}
	app.setupService = &service.SetupService{
		Store:  app.db,
		Signer: app.signer,
	}

	app.housekeeping = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.signer, BuildVersion, app.db, app.logger)
	router.UserService = app.userService
	router.ClientService = app.clientService
	router.ProjectService = app.projectService
	router.EntryService = app.entryService
	router.TimesheetService = app.timesheetService
	router.AnalyticsService = app.analyticsService
	router.AuthService = app.authService
	router.InvitationService = app.invitationService
	router.SetupService = app.setupService
	router.ApplyRoutes()

	app.router = router
	app.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", app.cfg.Port),
		Handler: router,
	}
}
