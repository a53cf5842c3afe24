// Package main is the entry point for the PuzzleHive Stats Hub API server.
//
// The server exposes the record analytics and ranking engine over REST:
// completion record submission and deletion, windowed record listings,
// aggregate and daily statistics, best-record resolution, and global and
// personal leaderboards.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/puzzlehive/stats-hub/config"
	"github.com/puzzlehive/stats-hub/internal/application/command"
	"github.com/puzzlehive/stats-hub/internal/application/eventhandler"
	"github.com/puzzlehive/stats-hub/internal/application/query"
	"github.com/puzzlehive/stats-hub/internal/domain/ranking"
	"github.com/puzzlehive/stats-hub/internal/infrastructure/messaging"
	"github.com/puzzlehive/stats-hub/internal/infrastructure/persistence/postgres"
	"github.com/puzzlehive/stats-hub/internal/infrastructure/persistence/redis"
	httpapi "github.com/puzzlehive/stats-hub/internal/interface/http"
	"github.com/puzzlehive/stats-hub/internal/interface/http/handlers"
	"github.com/puzzlehive/stats-hub/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting PuzzleHive Stats Hub API",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to database")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Info("database schema is up to date")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS SNAPSHOT CACHE (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var snapshots ranking.SnapshotStore

	if !cfg.Redis.Disabled && cfg.Features.SnapshotCacheEnabled() {
		log.Info("connecting to Redis")
		redisCache, err := redis.NewCache(redisConfigFrom(cfg))
		if err != nil {
			log.Warn("failed to connect to Redis, snapshot cache disabled", logger.Err(err))
		} else {
			defer redisCache.Close()
			snapshots = redis.NewSnapshotCache(redisCache, cfg.Snapshot.TTL, log)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	busConfig := messaging.DefaultInMemoryEventBusConfig()
	busConfig.Logger = log
	eventBus := messaging.NewInMemoryEventBus(busConfig)
	defer func() {
		log.Info("closing event bus")
		_ = eventBus.Close()
	}()

	if snapshots != nil {
		invalidator := eventhandler.NewSnapshotInvalidator(snapshots, log)
		if err := invalidator.Register(eventBus); err != nil {
			return fmt.Errorf("failed to register snapshot invalidator: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 6. REPOSITORIES AND APPLICATION HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	recordRepo := postgres.NewRecordRepository(dbConn)

	submitHandler := command.NewSubmitRecordHandler(recordRepo, eventBus)
	if snapshots != nil && cfg.Features.InlineInvalidationEnabled() {
		submitHandler.EnableInlineInvalidation(snapshots)
		log.Info("inline snapshot invalidation enabled")
	}

	deps := httpapi.Dependencies{
		SubmitRecordHandler:        submitHandler,
		DeleteRecordHandler:        command.NewDeleteRecordHandler(recordRepo, eventBus),
		PurgeAccountRecordsHandler: command.NewPurgeAccountRecordsHandler(recordRepo, eventBus),
		ListRecordsHandler:         query.NewListRecordsHandler(recordRepo),
		GetStatsHandler:            query.NewGetStatsHandler(recordRepo),
		GetBestRecordsHandler:      query.NewGetBestRecordsHandler(recordRepo),
		GetDailyStatsHandler:       query.NewGetDailyStatsHandler(recordRepo),
		GetGlobalRankingHandler:    query.NewGetGlobalRankingHandler(recordRepo, snapshots, cfg.Snapshot.MaxAge, log),
		GetPersonalRankingHandler:  query.NewGetPersonalRankingHandler(recordRepo),
		Logger:                     log,
		HealthChecker:              buildHealthChecker(cfg, dbConn, snapshots),
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	serverCfg := httpapi.DefaultConfig()
	serverCfg.Host = cfg.Server.Host
	serverCfg.Port = cfg.Server.Port
	serverCfg.ReadTimeout = cfg.Server.ReadTimeout
	serverCfg.WriteTimeout = cfg.Server.WriteTimeout
	serverCfg.IdleTimeout = cfg.Server.IdleTimeout
	serverCfg.MaxHeaderBytes = cfg.Server.MaxHeaderBytes
	serverCfg.MaxBodyBytes = cfg.Server.MaxBodyBytes
	serverCfg.EnableCORS = cfg.Server.EnableCORS
	serverCfg.AllowedOrigins = cfg.Server.AllowedOrigins
	serverCfg.EnableMetrics = cfg.Observability.MetricsEnabled
	serverCfg.RateLimitPerMinute = cfg.Server.RateLimitPerMinute
	serverCfg.MaskOwnershipErrors = cfg.Features.OwnershipMaskingEnabled()
	serverCfg.EnablePersonalRanking = cfg.Features.PersonalRankingEnabled()
	serverCfg.EnableDailyStats = cfg.Features.DailyStatsEnabled()
	serverCfg.EnableScores = cfg.Features.ScoresEnabled()
	serverCfg.EnableTimeRangeFilter = cfg.Features.TimeRangeFilterEnabled()
	serverCfg.APIKeyHeader = cfg.Server.APIKeyHeader
	serverCfg.APIKeys = cfg.Server.APIKeys

	server := httpapi.NewServer(serverCfg, deps)

	errCh := server.StartAsync()
	log.Info("HTTP server started", logger.String("addr", server.Address()))

	// ─────────────────────────────────────────────────────────────────────────
	// 8. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}

	log.Info("shutdown completed successfully")
	return nil
}

// setupLogger builds the structured logger from observability settings.
func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}
	return logger.New(opts)
}

// redisConfigFrom maps the application Redis settings onto the cache config.
func redisConfigFrom(cfg *config.Config) redis.Config {
	rc := redis.DefaultConfig()
	rc.Host = cfg.Redis.Host
	rc.Port = cfg.Redis.Port
	rc.Password = cfg.Redis.Password
	rc.DB = cfg.Redis.DB
	rc.PoolSize = cfg.Redis.PoolSize
	rc.MinIdleConns = cfg.Redis.MinIdleConns
	rc.DialTimeout = cfg.Redis.DialTimeout
	rc.ReadTimeout = cfg.Redis.ReadTimeout
	rc.WriteTimeout = cfg.Redis.WriteTimeout
	return rc
}

// buildHealthChecker wires liveness probes for the store and the cache.
func buildHealthChecker(cfg *config.Config, db *postgres.Connection, snapshots ranking.SnapshotStore) handlers.HealthChecker {
	checker := handlers.NewCompositeHealthChecker(cfg.App.Version)
	checker.AddCheck("postgres", handlers.NewDatabaseCheck(db))

	if cache, ok := snapshots.(handlers.CacheChecker); ok {
		checker.AddCheck("redis", handlers.NewCacheCheck(cache))
	}

	return checker
}
