package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/payraise-portal/api"
	"github.com/frahmantamala/payraise-portal/internal/auth"
	"github.com/frahmantamala/payraise-portal/internal/employee"
	"github.com/frahmantamala/payraise-portal/internal/payraise"
	"github.com/frahmantamala/payraise-portal/internal/transport/rest"
	"github.com/frahmantamala/payraise-portal/internal/transport/swagger"
	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

const janitorInterval = 10 * time.Minute

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer(cmd.Context())
	},
}

func startHTTPServer(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app, err := newApplication(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	router, err := setupRoutes(ctx, app)
	if err != nil {
		return err
	}

	go runJanitor(ctx, app)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		app.Logger.Info("Starting HTTP server", "address", addr, "env", cfg.App.Env)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		app.Logger.Info("Received signal, shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			app.Logger.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	app.Logger.Info("Server stopped")
	return nil
}

func setupRoutes(ctx context.Context, app *application) (*chi.Mux, error) {
	docs, err := swagger.Load(ctx, api.OpenAPI)
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.RouterDeps{
		Policy:          app.Policy,
		Sessions:        app.Sessions,
		AuthHandler:     auth.NewHandler(app.Auth, app.Policy, app.Config.Session.CookieSecure),
		EmployeeHandler: employee.NewHandler(app.Employees),
		PayRaiseHandler: payraise.NewHandler(app.PayRaises),
		Health:          rest.NewHealthHandler(app.DB.SQLX, app.DB.Driver, app.Redis),
		Docs:            docs,
		Logger:          app.Logger,
	})
	return router, nil
}

// runJanitor drops expired revocations and idle login throttles until ctx ends.
func runJanitor(ctx context.Context, app *application) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			pruned := app.Throttle.Prune(janitorInterval)
			var expired int
			if app.MemoryStore != nil {
				expired = app.MemoryStore.Cleanup()
			}
			if pruned > 0 || expired > 0 {
				app.Logger.Debug("janitor pass", "throttles_pruned", pruned, "revocations_expired", expired)
			}
		}
	}
}
