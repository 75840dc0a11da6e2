// internal/app.go
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	router "coupon-manager/internal/api"
	"coupon-manager/internal/api/handler"
	"coupon-manager/internal/cache"
	"coupon-manager/internal/config"
	"coupon-manager/internal/repository"
	"coupon-manager/internal/repository/memory"
	"coupon-manager/internal/repository/postgres"
	"coupon-manager/internal/security"
	"coupon-manager/internal/service"
	"coupon-manager/internal/util"
	"coupon-manager/pkg/db"
)

// Application holds all the initialized components of the application.
type Application struct {
	Config *config.AppConfig
	Logger zerolog.Logger
	DB     *sqlx.DB
	Redis  *redis.Client

	// Repositories
	CouponRepository repository.CouponRepository
	UserRepository   repository.UserRepository

	// Services
	CouponService  service.CouponService
	AccountService service.AccountService

	// HTTP API
	HTTPHandler http.Handler
}

// NewApplication creates a new Application instance.
func NewApplication() *Application {
	return &Application{Logger: util.GetLogger()}
}

// Initialize initializes all application components.
// configPath is the directory searched for an optional app.env file.
func (app *Application) Initialize(ctx context.Context, configPath string) error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	app.Config = cfg

	// 2. Initialize Logger
	util.InitLogger(cfg.LogLevel)
	app.Logger = util.GetLogger()
	app.Logger.Info().Str("store_driver", cfg.StoreDriver).Msg("Application configuration loaded successfully.")

	// 3. Record store
	if err := app.initStore(ctx); err != nil {
		return err
	}

	// 4. Token denylist
	denylist, err := app.initDenylist(ctx)
	if err != nil {
		return err
	}

	// 5. Initialize Services
	hasher := security.NewPasswordHasher(cfg.Auth.BcryptCost)
	tokens := security.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	app.CouponService = service.NewCouponService(app.CouponRepository, nil)
	app.AccountService = service.NewAccountService(app.UserRepository, hasher, tokens, denylist, nil)
	app.Logger.Info().Msg("Services initialized.")

	// 6. Initialize HTTP Handlers and Router
	couponHandler := handler.NewCouponHandler(app.CouponService, app.Logger)
	authHandler := handler.NewAuthHandler(app.AccountService, app.Logger)
	app.HTTPHandler = router.NewRouter(couponHandler, authHandler, cfg.AllowedOrigins, app.Logger)
	app.Logger.Info().Msg("HTTP router and handlers initialized.")

	return nil
}

func (app *Application) initStore(ctx context.Context) error {
	if app.Config.StoreDriver == config.StoreDriverMemory {
		app.CouponRepository = memory.NewCouponRepository()
		app.UserRepository = memory.NewUserRepository()
		app.Logger.Warn().Msg("Using in-memory record store; data is lost on restart.")
		return nil
	}

	database, err := db.NewPostgresDB(ctx, app.Config.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = database
	app.Logger.Info().Str("host", app.Config.DB.Host).Str("database", app.Config.DB.DBName).Msg("Database connection established.")

	if err := db.EnsureSchema(ctx, app.DB); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	app.CouponRepository = postgres.NewCouponRepository(app.DB)
	app.UserRepository = postgres.NewUserRepository(app.DB)
	app.Logger.Info().Msg("Repositories initialized.")
	return nil
}

func (app *Application) initDenylist(ctx context.Context) (service.TokenDenylist, error) {
	if app.Config.RedisAddr == "" {
		app.Logger.Info().Msg("REDIS_ADDR not set, revoked tokens are kept in process.")
		return cache.NewMemoryDenylist(), nil
	}

	client := redis.NewClient(&redis.Options{Addr: app.Config.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", app.Config.RedisAddr, err)
	}
	app.Redis = client
	app.Logger.Info().Str("addr", app.Config.RedisAddr).Msg("Redis connection established.")
	return cache.NewRedisDenylist(client), nil
}

// Shutdown gracefully shuts down application resources.
func (app *Application) Shutdown(ctx context.Context) error {
	app.Logger.Info().Msg("Shutting down application...")
	var errs []error
	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error().Err(err).Msg("Failed to close redis connection")
			errs = append(errs, fmt.Errorf("failed to close redis connection: %w", err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error().Err(err).Msg("Failed to close database connection")
			errs = append(errs, fmt.Errorf("failed to close database connection: %w", err))
		} else {
			app.Logger.Info().Msg("Database connection closed.")
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	app.Logger.Info().Msg("Application shut down gracefully.")
	return nil
}
