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
	"time"

	httpapi "github.com/aussiebroadwan/tokenkeeper/internal/keeper/http"
	"github.com/aussiebroadwan/tokenkeeper/internal/keeper/service"
	"github.com/aussiebroadwan/tokenkeeper/pkg/authsdk"
	"github.com/aussiebroadwan/tokenkeeper/pkg/cryptox"
	"github.com/aussiebroadwan/tokenkeeper/pkg/httpx"
	"github.com/aussiebroadwan/tokenkeeper/pkg/metrics"
	"github.com/aussiebroadwan/tokenkeeper/pkg/securestore"
	"github.com/aussiebroadwan/tokenkeeper/pkg/securestore/drivers/keyring"
	"github.com/aussiebroadwan/tokenkeeper/pkg/securestore/drivers/sqlite"
	"github.com/aussiebroadwan/tokenkeeper/pkg/slogx"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// startupBudget bounds the restore and optional login done by New.
const startupBudget = 30 * time.Second

// Application wires the token manager, its secure store and the local API.
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	store      securestore.Store
	closeStore func() error
	metrics    *metrics.Metrics
	manager    *authsdk.Manager

	// Services
	warmer *service.TokenWarmer // nil when warming is disabled

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "tokenkeeper",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
		metrics: metrics.New(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), startupBudget)
	defer cancel()

	if err := app.initStore(ctx); err != nil {
		return nil, err
	}

	if err := app.initManager(ctx); err != nil {
		_ = app.closeStore()
		return nil, err
	}

	app.loginAtStartup(ctx)
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	if app.warmer != nil {
		app.warmer.Start()
	}

	app.logger.Info("token keeper starting", "addr", app.cfg.Addr, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
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

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down token keeper...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	if app.warmer != nil {
		app.warmer.Stop()
	}

	if err := app.closeStore(); err != nil {
		app.logger.Error("error closing secure store", "error", err)
		return err
	}

	app.logger.Info("token keeper stopped")
	return nil
}

// initStore opens the configured secure store.
func (app *Application) initStore(ctx context.Context) error {
	app.closeStore = func() error { return nil }

	switch app.cfg.StoreDriver {
	case StoreSQLite:
		return app.initSQLite(ctx)

	case StoreKeyring:
		st := keyring.NewStore(app.cfg.KeyringService)
		if err := st.Probe(); err != nil {
			return fmt.Errorf("keyring unavailable: %w", err)
		}
		app.store = st
		app.logger.Info("using host keyring", "service", app.cfg.KeyringService)
		return nil

	case StoreMemory:
		app.store = securestore.NewMemory()
		app.logger.Warn("using in-memory store, the session will not survive a restart")
		return nil

	default:
		return fmt.Errorf("unknown store driver %q", app.cfg.StoreDriver)
	}
}

// initSQLite opens the database, applies migrations and unlocks it with the
// master key.
func (app *Application) initSQLite(ctx context.Context) error {
	material, ephemeral, err := cryptox.LoadKeyMaterial(app.cfg.MasterKeyPath, app.cfg.MasterKey)
	if err != nil {
		return fmt.Errorf("failed to load master key: %w", err)
	}
	if ephemeral {
		if app.cfg.Env != "dev" {
			return errors.New("KEEPER_MASTER_KEY or KEEPER_MASTER_KEY_PATH is required outside dev")
		}
		app.logger.Warn("no master key configured, secrets from earlier runs are discarded and this session will not survive a restart")
	}

	db, err := sqlite.NewStore(sqlite.DSN(app.cfg.DatabaseFile))
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}
	app.logger.Info("database migrations applied successfully")

	// A fresh ephemeral key can't open anything an earlier run sealed
	if ephemeral {
		if err := db.Reset(ctx); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to reset secure store: %w", err)
		}
	}

	if err := db.Unlock(ctx, material); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to unlock secure store: %w", err)
	}

	app.store = db
	app.closeStore = db.Close
	return nil
}

// initManager builds the token manager and restores any stored session.
func (app *Application) initManager(ctx context.Context) error {
	region, ok := authsdk.ParseRegion(app.cfg.Region)
	if !ok {
		app.logger.Warn("unknown region, falling back", "region", app.cfg.Region, "using", region.Name())
	}

	tokenURL := app.cfg.TokenURL
	if tokenURL == "" {
		tokenURL = authsdk.Endpoint{Region: region, ServerType: app.cfg.ServerType}.TokenURL()
	}

	policy, err := authsdk.ParseCredentialPolicy(app.cfg.CredentialPolicy)
	if err != nil {
		return err
	}

	manager, err := authsdk.New(ctx, authsdk.Options{
		TokenURL:         tokenURL,
		Timeout:          app.cfg.Timeout,
		Store:            app.store,
		Threshold:        app.cfg.Threshold,
		CredentialPolicy: policy,
		ReauthLimit:      httpx.PerMinute(app.cfg.ReauthPerMinute),
		Logger:           app.logger,
		Metrics:          app.metrics,
	})
	if err != nil {
		return err
	}

	app.manager = manager
	app.logger.Info("token manager ready",
		"token_url", tokenURL,
		"credential_policy", policy.String(),
		"session_restored", manager.RefreshToken() != "",
	)
	return nil
}

// loginAtStartup logs in with the configured credentials unless a usable
// session was restored. A failed login is not fatal, the API can still be
// used to log in later.
func (app *Application) loginAtStartup(ctx context.Context) {
	if app.cfg.Username == "" || app.cfg.Password == "" {
		return
	}

	if refresh := app.manager.RefreshToken(); refresh != "" && !app.manager.IsNearExpiry(refresh) {
		app.logger.Debug("stored session still valid, skipping startup login")
		return
	}

	status, ok := app.manager.Login(ctx, app.cfg.Username, app.cfg.Password)
	if !ok {
		app.logger.Warn("startup login failed", "user", app.cfg.Username, "status", status)
		return
	}
	app.logger.Info("startup login succeeded", "user", app.cfg.Username)
}

// initServices initializes background workers
func (app *Application) initServices() {
	if app.cfg.WarmInterval <= 0 {
		app.logger.Info("token warmer disabled")
		return
	}
	app.warmer = service.NewTokenWarmer(app.manager, app.logger, app.cfg.WarmInterval)
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.manager,
		app.store,
		app.metrics,
		app.cfg.APIToken,
		BuildVersion,
		app.logger,
	)
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              app.cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
