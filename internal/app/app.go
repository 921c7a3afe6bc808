package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/clan-bingo/internal/config"
	"github.com/riskibarqy/clan-bingo/internal/domain/bingo"
	"github.com/riskibarqy/clan-bingo/internal/domain/ledger"
	"github.com/riskibarqy/clan-bingo/internal/domain/pattern"
	cacherepo "github.com/riskibarqy/clan-bingo/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/clan-bingo/internal/infrastructure/repository/guarded"
	"github.com/riskibarqy/clan-bingo/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/clan-bingo/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/clan-bingo/internal/interfaces/httpapi"
	"github.com/riskibarqy/clan-bingo/internal/platform/cache"
	"github.com/riskibarqy/clan-bingo/internal/platform/id"
	"github.com/riskibarqy/clan-bingo/internal/platform/logging"
	"github.com/riskibarqy/clan-bingo/internal/usecase"
)

// App is the assembled service: the ops HTTP server plus the evaluation scheduler.
type App struct {
	Server    *http.Server
	Scheduler *Scheduler

	db *sqlx.DB
}

type repositories struct {
	events   bingo.EventRepository
	boards   bingo.BoardRepository
	progress bingo.ProgressRepository
	teams    bingo.TeamRepository
	patterns bingo.PatternRepository
	ledger   ledger.Repository
	stats    bingo.StatSource
	weekly   bingo.WeeklyCompetitionSource
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	app := &App{}
	repos, err := app.buildRepositories(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	catalog := pattern.DefaultCatalog()
	idGen := id.NewRandomGenerator()

	eventSvc := usecase.NewEventService(repos.events, repos.boards, repos.progress, repos.patterns, repos.stats, catalog, idGen, nil, logger)
	contributionSvc := usecase.NewContributionService(repos.events, repos.boards, repos.progress, repos.teams, repos.stats, repos.weekly, repos.ledger, logger)
	patternSvc := usecase.NewPatternService(repos.events, repos.boards, repos.progress, repos.teams, repos.patterns, repos.ledger, catalog, logger)
	evaluationSvc := usecase.NewEvaluationService(repos.events, repos.teams, eventSvc, contributionSvc, patternSvc, cfg.EvaluationWorkers, logger)
	teamSvc := usecase.NewTeamService(repos.events, repos.teams, idGen, logger)
	leaderboardSvc := usecase.NewLeaderboardService(repos.events, repos.ledger)

	handler := httpapi.NewHandler(eventSvc, teamSvc, contributionSvc, evaluationSvc, leaderboardSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.OpsToken)

	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	if cfg.SchedulerEnabled {
		app.Scheduler = NewScheduler(evaluationSvc, cfg.EvaluationInterval, logger)
	}
	return app, nil
}

func (a *App) buildRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		return memoryRepositories(ctx, cfg, logger)
	}

	db, err := openDB(ctx, cfg)
	if err != nil {
		return repositories{}, err
	}
	a.db = db

	if cfg.DBBootstrapSeed {
		if err := postgres.BootstrapSeed(ctx, db); err != nil {
			_ = db.Close()
			return repositories{}, fmt.Errorf("bootstrap seed: %w", err)
		}
	}

	statRepo := postgres.NewStatRepository(db)
	stats := guarded.NewStatSource(statRepo, statRepo, cfg.StatBreaker, logger)
	repos := repositories{
		events:   postgres.NewEventRepository(db),
		boards:   postgres.NewBoardRepository(db),
		progress: postgres.NewProgressRepository(db),
		teams:    postgres.NewTeamRepository(db),
		patterns: postgres.NewPatternRepository(db),
		ledger:   postgres.NewLedgerRepository(db),
		stats:    stats,
		weekly:   stats,
	}
	if cfg.CacheEnabled {
		store := cache.NewStore(cfg.CacheTTL)
		repos.boards = cacherepo.NewBoardRepository(repos.boards, store)
		repos.patterns = cacherepo.NewPatternRepository(repos.patterns, store)
	}

	logger.Info("storage ready", "driver", cfg.StorageDriver, "cache_enabled", cfg.CacheEnabled)
	return repos, nil
}

func memoryRepositories(ctx context.Context, cfg config.Config, logger *logging.Logger) (repositories, error) {
	store := memory.NewStore()
	boards := memory.NewBoardRepository(store)
	if cfg.DBBootstrapSeed {
		if err := boards.UpsertTasks(ctx, memory.SeedTasks()); err != nil {
			return repositories{}, fmt.Errorf("seed tasks: %w", err)
		}
	}

	stats := memory.NewStatRepository(store)
	logger.Info("storage ready", "driver", cfg.StorageDriver)
	return repositories{
		events:   memory.NewEventRepository(store),
		boards:   boards,
		progress: memory.NewProgressRepository(store),
		teams:    memory.NewTeamRepository(store),
		patterns: memory.NewPatternRepository(store),
		ledger:   memory.NewLedgerRepository(store),
		stats:    stats,
		weekly:   stats,
	}, nil
}

// Close releases the database pool, if one was opened.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
