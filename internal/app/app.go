// Package app wires configuration into the store, cache, services and
// pipeline shared by the server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/moduel/propdash/internal/cache"
	"github.com/moduel/propdash/internal/confidence"
	"github.com/moduel/propdash/internal/config"
	"github.com/moduel/propdash/internal/logging"
	"github.com/moduel/propdash/internal/odds"
	"github.com/moduel/propdash/internal/pipeline"
	"github.com/moduel/propdash/internal/publisher"
	"github.com/moduel/propdash/internal/service"
	"github.com/moduel/propdash/internal/store"
	"github.com/moduel/propdash/internal/store/docstore"
	"github.com/moduel/propdash/internal/store/repository"
	"github.com/rs/zerolog/log"
)

// App holds the wired components. Close releases them in reverse order.
type App struct {
	Config     *config.Config
	Reader     service.Reader
	Comparator confidence.Comparator

	Cache     *cache.RedisCache
	Publisher *publisher.RedisStreamPublisher

	Players    *service.PlayerService
	Games      *service.GameService
	Analysis   *service.AnalysisService
	Confidence *service.ConfidenceService
	Pipeline   *service.PipelineService
	History    *pipeline.History

	closers []func(context.Context) error
}

// New opens the configured store, connects redis when enabled and builds
// the services. Redis failures are logged and the server runs without it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	cmp, err := confidence.ParseComparator(cfg.OverComparator)
	if err != nil {
		return nil, err
	}
	a := &App{Config: cfg, Comparator: cmp}

	if err := a.openStore(ctx); err != nil {
		_ = a.Close(ctx)
		return nil, err
	}
	a.connectRedis(ctx)

	var analysisCache service.AnalysisCache
	if a.Cache != nil {
		analysisCache = a.Cache
	}
	a.Players = service.NewPlayerService(a.Reader, cfg.HeadshotBaseURL)
	a.Games = service.NewGameService(a.Reader, cmp)
	a.Analysis = service.NewAnalysisService(a.Reader, analysisCache)
	a.Confidence = service.NewConfidenceService(a.Reader, cmp)

	catalog, err := pipeline.NewCatalog(pipeline.CatalogConfig{
		Dir:              cfg.PipelineDir,
		Timeout:          cfg.PipelineTimeout,
		ScrapeCommands:   cfg.ScrapeCommands,
		ProcessCommands:  cfg.ProcessCommands,
		AnalysisCommands: cfg.AnalysisCommands,
	})
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("failed to build pipeline catalog: %w", err)
	}

	a.History = pipeline.NewHistory(20)
	reporters := pipeline.Reporters{
		pipeline.NewLogReporter(logging.Component("pipeline")),
		a.History,
	}
	if a.Publisher != nil {
		reporters = append(reporters, pipeline.NewStreamReporter(a.Publisher, logging.Component("publisher")))
	}
	league := odds.NewClient(cfg.OddsAPIURL, cfg.OddsLeagueID, cfg.OddsTimeout)
	a.Pipeline = service.NewPipelineService(catalog, pipeline.NewRunner(), reporters, league)
	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	cfg := a.Config
	switch cfg.StoreBackend {
	case config.BackendMongo:
		reader, err := docstore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return fmt.Errorf("failed to connect to mongo: %w", err)
		}
		a.Reader = reader
		a.closers = append(a.closers, reader.Close)
		log.Info().Str("database", cfg.MongoDatabase).Msg("Connected to document store")

	default:
		opts := store.DefaultOptions()
		opts.MaxOpenConns = cfg.DBMaxOpenConns
		opts.MaxIdleConns = cfg.DBMaxIdleConns
		opts.ConnMaxLifetime = cfg.DBConnMaxLife

		db, err := store.NewDatabase(ctx, cfg.DatabaseURL, opts)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return db.Close() })

		if cfg.RunMigrations {
			if err := db.RunMigrations(ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		a.Reader = repository.NewReader(db)
		log.Info().Msg("Connected to database")
	}
	return nil
}

func (a *App) connectRedis(ctx context.Context) {
	if !a.Config.RedisEnabled {
		return
	}
	rc, err := cache.NewRedisCache(ctx, a.Config.RedisURL, a.Config.AnalysisCacheTTL)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, continuing without cache and stream publishing")
		return
	}
	a.Cache = rc
	a.Publisher = publisher.NewRedisStreamPublisher(rc.Client())
	a.closers = append(a.closers, func(context.Context) error { return rc.Close() })
	log.Info().Msg("Connected to Redis")
}

// Close releases every opened resource.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
