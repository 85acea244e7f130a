// Package app assembles the meal service and its backing resources from a
// Config. It is shared by the API server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pageza/smartmeal/backend/config"
	"github.com/pageza/smartmeal/backend/internal/database"
	"github.com/pageza/smartmeal/backend/internal/service"
	"github.com/pageza/smartmeal/backend/internal/store"
)

// App holds the wired service and the resources it owns.
type App struct {
	Meals *service.MealService
	DB    *gorm.DB
	Redis *redis.Client
}

// Option adjusts how an App is built.
type Option func(*options)

type options struct {
	withRedis bool
	source    service.RecipeSource
}

// WithRedis connects to Redis for rate limiting. Connection failures are
// logged and leave Redis disabled.
func WithRedis() Option {
	return func(o *options) { o.withRedis = true }
}

// WithRecipeSource replaces the Spoonacular client.
func WithRecipeSource(src service.RecipeSource) Option {
	return func(o *options) { o.source = src }
}

// New builds an App from cfg.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	table := service.DefaultPricingTable()
	if cfg.PricingTable != nil {
		table = service.PricingTable(cfg.PricingTable)
	}
	pricing, err := service.NewPricingEngine(table)
	if err != nil {
		return nil, err
	}

	source := o.source
	if source == nil {
		client, err := service.NewRecipeClient(cfg.RecipeAPIKey, cfg.RecipeAPIURL, cfg.UpstreamTimeout,
			service.WithDefaultNumber(cfg.SearchDefaultNumber))
		if err != nil {
			return nil, err
		}
		source = client
	}

	a := &App{}
	mealStore, err := a.openStore(cfg)
	if err != nil {
		return nil, err
	}

	svcOpts := []service.MealServiceOption{service.WithCurrency(cfg.PriceCurrency)}
	s3cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	if s3cfg != nil {
		svcOpts = append(svcOpts, service.WithExporter(
			service.NewOverviewExporter(s3cfg.Client, s3cfg.BucketName, s3cfg.Prefix)))
	}

	if o.withRedis && (cfg.RedisHost != "" || cfg.RedisURL != "") {
		client, err := database.NewRedisClient(ctx, cfg)
		if err != nil {
			slog.Warn("rate limiting disabled", "error", err)
		} else {
			a.Redis = client
		}
	}

	a.Meals = service.NewMealService(source, mealStore, pricing, svcOpts...)
	return a, nil
}

func (a *App) openStore(cfg *config.Config) (store.MealStore, error) {
	if cfg.StoreBackend == "" || cfg.StoreBackend == config.StoreMemory {
		return store.NewMemoryStore(), nil
	}

	db, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}
	if autoMigrates(cfg.StoreBackend) {
		if err := database.RunMigrations(db); err != nil {
			_ = database.Close(db)
			return nil, fmt.Errorf("failed to migrate meal store: %w", err)
		}
	}
	a.DB = db
	return store.NewGormStore(db), nil
}

// Close releases the database and Redis connections.
func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		errs = append(errs, database.Close(a.DB))
	}
	return errors.Join(errs...)
}

// autoMigrates reports whether GORM owns the schema of a backend. Postgres
// schemas come from the SQL files applied by cmd/migrate.
func autoMigrates(backend string) bool {
	return backend == config.StoreSQLite
}
