package app

import (
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/football-stats/external/fbref"
	"github.com/riskibarqy/football-stats/internal/config"
	"github.com/riskibarqy/football-stats/internal/domain/league"
	"github.com/riskibarqy/football-stats/internal/domain/match"
	"github.com/riskibarqy/football-stats/internal/domain/player"
	"github.com/riskibarqy/football-stats/internal/domain/playerstats"
	"github.com/riskibarqy/football-stats/internal/domain/team"
	repocache "github.com/riskibarqy/football-stats/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/football-stats/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/football-stats/internal/interfaces/httpapi"
	"github.com/riskibarqy/football-stats/internal/interfaces/scheduler"
	"github.com/riskibarqy/football-stats/internal/observability"
	basecache "github.com/riskibarqy/football-stats/internal/platform/cache"
	"github.com/riskibarqy/football-stats/internal/platform/logging"
	"github.com/riskibarqy/football-stats/internal/usecase"
)

// App owns the database pool and the services shared by the API and the
// scraper binaries.
type App struct {
	cfg          config.Config
	logger       *logging.Logger
	db           *sqlx.DB
	metrics      *observability.Metrics
	leagues      *usecase.LeagueService
	teams        *usecase.TeamService
	orchestrator *usecase.OrchestratorService
}

type repositories struct {
	leagues league.Repository
	teams   team.Repository
	matches match.Repository
	players player.Repository
	stats   playerstats.Repository
}

func New(cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if err := cfg.RequireDB(); err != nil {
		return nil, err
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}

	var metrics *observability.Metrics
	if cfg.MetricsEnabled {
		metrics = observability.NewMetrics()
	}

	stores := newStores(postgresRepositories(db), postgres.NewTxManager(db), cfg.APICacheTTL)
	urls := fbref.NewURLs(cfg.FBref.BaseURL)
	deps := usecase.SyncDeps{
		Leagues: stores.ingest.leagues,
		Teams:   stores.ingest.teams,
		Matches: stores.ingest.matches,
		Players: stores.ingest.players,
		Stats:   stores.ingest.stats,
		Tx:      stores.tx,
		Parser:  fbref.NewParser(urls),
		URLs:    urls,
		Logger:  logger,
	}
	if metrics != nil {
		deps.Observer = metrics
	}

	orchestrator := usecase.NewOrchestratorService(deps, newFetcherFactory(cfg.FBref, metrics, logger), usecase.OrchestratorConfig{
		CurrentSeason:       cfg.FBref.CurrentSeason,
		HistoricalSeasons:   cfg.FBref.HistoricalSeasons,
		DetailBatchSize:     cfg.FBref.DetailBatchSize,
		DetailMaxIterations: cfg.FBref.DetailMaxIterations,
		BatchPause:          cfg.FBref.BatchPause,
		LeaguePause:         cfg.FBref.LeaguePause,
	})

	return &App{
		cfg:          cfg,
		logger:       logger,
		db:           db,
		metrics:      metrics,
		leagues:      usecase.NewLeagueService(stores.read.leagues),
		teams:        usecase.NewTeamService(stores.read.teams, stores.read.matches),
		orchestrator: orchestrator,
	}, nil
}

// stores splits the repositories by caller. Ingestion always reads and writes
// the database directly so a run never acts on cached rows; only the API read
// services go through the TTL cache, which is cleared after every committed
// unit of work.
type stores struct {
	ingest repositories
	read   repositories
	tx     usecase.Transactor
}

func postgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		leagues: postgres.NewLeagueRepository(db),
		teams:   postgres.NewTeamRepository(db),
		matches: postgres.NewMatchRepository(db),
		players: postgres.NewPlayerRepository(db),
		stats:   postgres.NewPlayerStatsRepository(db),
	}
}

func newStores(raw repositories, tx usecase.Transactor, cacheTTL time.Duration) stores {
	if cacheTTL <= 0 {
		return stores{ingest: raw, read: raw, tx: tx}
	}

	cache := basecache.NewStore(cacheTTL)
	return stores{
		ingest: raw,
		read: repositories{
			leagues: repocache.NewLeagueRepository(raw.leagues, cache),
			teams:   repocache.NewTeamRepository(raw.teams, cache),
			matches: repocache.NewMatchRepository(raw.matches, cache),
			players: raw.players,
			stats:   raw.stats,
		},
		tx: repocache.NewTransactor(tx, cache),
	}
}

func newFetcherFactory(cfg config.FBrefConfig, metrics *observability.Metrics, logger *logging.Logger) usecase.FetcherFactory {
	return func() (usecase.PageFetcher, error) {
		return fbref.NewFetcher(fbref.FetcherConfig{
			Timeout:           cfg.Timeout,
			MaxAttempts:       cfg.MaxAttempts,
			RetryWait:         cfg.RetryWait,
			MinDelay:          cfg.MinDelay,
			MaxDelay:          cfg.MaxDelay,
			RateLimitCooldown: cfg.RateLimitCooldown,
			RequestsPerMinute: cfg.RequestsPerMinute,
			CircuitBreaker:    cfg.CircuitBreaker,
			Logger:            logger,
			OnFetch:           metrics.ObserveFetch,
		}), nil
	}
}

func (a *App) Orchestrator() *usecase.OrchestratorService {
	return a.orchestrator
}

// NewHTTPServer builds the read API server.
func (a *App) NewHTTPServer() (*http.Server, error) {
	if a.cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	handler := httpapi.NewHandler(a.leagues, a.teams, a.orchestrator, a.logger.Named("http"))
	var metricsHandler http.Handler
	if a.metrics != nil {
		metricsHandler = a.metrics.Handler()
	}
	router := httpapi.NewRouter(handler, metricsHandler, a.logger.Named("http"), a.cfg.SwaggerEnabled, a.cfg.CORSAllowedOrigins)

	return &http.Server{
		Addr:         a.cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  a.cfg.ReadTimeout,
		WriteTimeout: a.cfg.WriteTimeout,
	}, nil
}

func (a *App) NewScheduler() (*scheduler.Scheduler, error) {
	return scheduler.New(a.cfg.Scheduler, a.orchestrator, a.logger)
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("close db: %w", err)
	}
	return nil
}
