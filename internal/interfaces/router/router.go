package router

import (
	"net/http"

	"vibejobs-backend/internal/application/aggregation"
	healthsvc "vibejobs-backend/internal/application/health"
	listsvc "vibejobs-backend/internal/application/listings"
	"vibejobs-backend/internal/application/sources"
	"vibejobs-backend/internal/config"
	"vibejobs-backend/internal/infrastructure/cache"
	"vibejobs-backend/internal/infrastructure/database"
	aggregatehandler "vibejobs-backend/internal/interfaces/handlers/aggregate"
	healthhandler "vibejobs-backend/internal/interfaces/handlers/health"
	jobshandler "vibejobs-backend/internal/interfaces/handlers/jobs"
	"vibejobs-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Deps are the connections and services behind the app. DB and Rdb are nil
// when their URL is not configured.
type Deps struct {
	DB         *gorm.DB
	Rdb        *redis.Client
	Store      listsvc.Store
	Runs       aggregatehandler.RunReader
	Aggregator *aggregation.Service
}

// Close releases the database pool and the Redis client.
func (d *Deps) Close() {
	if d.Rdb != nil {
		_ = d.Rdb.Close()
	}
	if d.DB != nil {
		if sqlDB, err := d.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}

// NewDeps opens the configured connections. A missing DATABASE_URL is not an
// error here; the store then reports a configuration error on every call.
func NewDeps(cfg *config.Config) (*Deps, error) {
	deps := &Deps{}
	var recorder aggregation.RunRecorder
	if cfg.DatabaseURL != "" {
		db, err := database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		deps.DB = db
		deps.Store = &database.ListingStore{DB: db}
		runs := &database.RunStore{DB: db}
		deps.Runs = runs
		recorder = runs
	} else {
		log.Warn().Msg("DATABASE_URL not set, listing endpoints will report a configuration error")
		deps.Store = database.UnconfiguredStore{}
		deps.Runs = database.UnconfiguredStore{}
	}

	rdb, err := cache.Open(cfg.RedisURL)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Rdb = rdb

	deps.Aggregator = &aggregation.Service{
		Store:    deps.Store,
		Fetchers: sources.All(sourcesConfig(cfg.Sources)),
		Recorder: recorder,
	}
	return deps, nil
}

func sourcesConfig(c config.SourcesConfig) sources.Config {
	return sources.Config{
		RemoteOKURL:   c.RemoteOKURL,
		RemotiveURL:   c.RemotiveURL,
		AdzunaURL:     c.AdzunaURL,
		AdzunaAppID:   c.AdzunaAppID,
		AdzunaAPIKey:  c.AdzunaAPIKey,
		AdzunaCountry: c.AdzunaCountry,
		Timeout:       c.FetchTimeout,
	}
}

// CreateApp opens the dependencies for cfg and mounts every route on them.
func CreateApp(cfg *config.Config) (*fiber.App, *Deps, error) {
	deps, err := NewDeps(cfg)
	if err != nil {
		return nil, nil, err
	}
	return NewApp(cfg, deps), deps, nil
}

// NewApp mounts the routes on already opened dependencies.
func NewApp(cfg *config.Config, deps *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler: middleware.ErrorHandler(middleware.ErrorHandlerConfig{
			ExposeDetails: cfg.IsDevelopment(),
			Rdb:           deps.Rdb,
		}),
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{AllowedSuffix: cfg.FrontendURLEndsWith}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())
	if deps.Rdb != nil {
		app.Use(middleware.HealthMarker(deps.Rdb))
	}

	jh := &jobshandler.Handlers{Service: &listsvc.Service{Store: deps.Store}}
	ah := &aggregatehandler.Handlers{
		Runner:        deps.Aggregator,
		Runs:          deps.Runs,
		ExposeDetails: cfg.IsDevelopment(),
	}
	jg := app.Group("/api/jobs")
	jg.Get("/global", jh.Global)
	jg.Get("/regional", jh.Regional)
	jg.Get("/impact", jh.Impact)
	jg.Post("/aggregate", middleware.RequireAPIKey(cfg.AggregatorAPIKey), ah.Trigger)
	jg.Get("/aggregate/latest", ah.Latest)

	hh := &healthhandler.Handlers{
		Rdb:            deps.Rdb,
		DB:             deps.Store,
		HealthAdminKey: cfg.HealthAdminKey,
		Env: healthsvc.Environment{
			HasDatabaseURL: cfg.DatabaseURL != "",
			Env:            cfg.Env,
		},
	}
	hg := app.Group("/api/health")
	hg.Get("/", hh.Health)
	hg.Get("/reset", hh.Reset)
	hg.Get("/errors", hh.Errors)

	return app
}

// Handler adapts app to net/http for serverless runtimes.
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
