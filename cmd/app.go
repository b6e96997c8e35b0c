package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/payraise-portal/internal"
	"github.com/frahmantamala/payraise-portal/internal/access"
	"github.com/frahmantamala/payraise-portal/internal/auth"
	authPostgres "github.com/frahmantamala/payraise-portal/internal/auth/postgres"
	"github.com/frahmantamala/payraise-portal/internal/cipherbox"
	"github.com/frahmantamala/payraise-portal/internal/database"
	"github.com/frahmantamala/payraise-portal/internal/employee"
	employeePostgres "github.com/frahmantamala/payraise-portal/internal/employee/postgres"
	"github.com/frahmantamala/payraise-portal/internal/payraise"
	payraisePostgres "github.com/frahmantamala/payraise-portal/internal/payraise/postgres"
	"github.com/frahmantamala/payraise-portal/internal/session"
	"github.com/frahmantamala/payraise-portal/pkg/logger"
	"github.com/redis/go-redis/v9"
)

// application holds everything the commands share.
type application struct {
	Config *internal.Config
	Logger *slog.Logger
	DB     *database.DB
	Redis  *redis.Client

	Policy      access.Checker
	Cipher      *cipherbox.Box
	Sessions    *session.Manager
	MemoryStore *session.MemoryStore
	Throttle    *auth.Throttle

	Users     *authPostgres.Repository
	Auth      *auth.Service
	Employees *employee.Service
	PayRaises *payraise.Service
}

func newApplication(ctx context.Context, cfg *internal.Config) (*application, error) {
	lg := logger.L()
	app := &application{Config: cfg, Logger: lg, Policy: access.NewPolicy()}

	db, err := database.Open(ctx, cfg.Database, lg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.DB = db

	if cfg.Database.AutoMigrate {
		if err := db.Migrate(ctx, false); err != nil {
			app.Close()
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}

	key, source, err := cipherbox.LoadOrCreateKey(cfg.Security.EncryptionKey, cfg.Security.KeyFile, lg)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to load encryption key: %w", err)
	}
	if app.Cipher, err = cipherbox.New(key); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize cipher: %w", err)
	}
	lg.Info("encryption key loaded", "source", source)

	var revocations session.RevocationStore
	switch cfg.Session.Store {
	case internal.SessionStoreRedis:
		app.Redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := app.Redis.Ping(ctx).Err(); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		revocations = session.NewRedisStore(app.Redis)
	default:
		app.MemoryStore = session.NewMemoryStore()
		revocations = app.MemoryStore
	}

	app.Sessions = session.NewManager(cfg.Security.SessionSecret, cfg.Session.TTL, cfg.Session.Issuer, revocations)
	app.Throttle = auth.NewThrottle(cfg.Session.LoginAttemptsPerMinute, cfg.Session.LoginBurst)

	app.Users = authPostgres.NewRepository(db.Gorm, db.SQLX)
	app.Auth = auth.NewService(app.Users, app.Sessions, app.Throttle, cfg.Security.BCryptCost, lg)
	app.Employees = employee.NewService(employeePostgres.NewEmployeeRepository(db.Gorm), app.Policy, lg).
		WithQueryTimeout(cfg.Database.QueryTimeout)
	app.PayRaises = payraise.NewService(payraisePostgres.NewPayRaiseRepository(db.Gorm), app.Cipher, app.Policy, lg).
		WithQueryTimeout(cfg.Database.QueryTimeout)

	return app, nil
}

func (a *application) Close() {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	if err := errors.Join(errs...); err != nil {
		a.Logger.Error("failed to release resources", "error", err)
	}
}
