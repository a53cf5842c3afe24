// Package main is the entry point for the PuzzleHive Stats Hub worker.
//
// The worker runs the background jobs that keep leaderboard reads cheap:
// it periodically recomputes ranking snapshots for the configured puzzle
// types and stores them in Redis, where the API serves them until they go
// stale or a record mutation invalidates them.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/puzzlehive/stats-hub/config"
	"github.com/puzzlehive/stats-hub/internal/infrastructure/messaging"
	"github.com/puzzlehive/stats-hub/internal/infrastructure/persistence/postgres"
	"github.com/puzzlehive/stats-hub/internal/infrastructure/persistence/redis"
	"github.com/puzzlehive/stats-hub/internal/infrastructure/scheduler"
	"github.com/puzzlehive/stats-hub/internal/infrastructure/scheduler/jobs"
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

	if !cfg.Scheduler.Enabled {
		return errors.New("scheduler is disabled, nothing to run")
	}
	if cfg.Redis.Disabled {
		return errors.New("worker requires Redis for snapshot storage")
	}
	if len(cfg.Snapshot.PuzzleTypes) == 0 {
		return errors.New("SNAPSHOT_PUZZLE_TYPES must list at least one puzzle type")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}
	log := logger.New(opts)

	log.Info("starting PuzzleHive Stats Hub worker",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("puzzle_types", strings.Join(cfg.Snapshot.PuzzleTypes, ",")),
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

	// The worker shares the schema with the API and migrates on boot so
	// either binary can be deployed first.
	migrator := postgres.NewMigrator(dbConn)
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS SNAPSHOT STORE
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to Redis")
	redisCache, err := redis.NewCache(redisConfigFrom(cfg))
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer redisCache.Close()

	snapshots := redis.NewSnapshotCache(redisCache, cfg.Snapshot.TTL, log)

	// ─────────────────────────────────────────────────────────────────────────
	// 5. EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	busConfig := messaging.DefaultInMemoryEventBusConfig()
	busConfig.Logger = log
	eventBus := messaging.NewInMemoryEventBus(busConfig)
	defer func() {
		_ = eventBus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 6. SCHEDULER AND JOBS
	// ─────────────────────────────────────────────────────────────────────────
	schedCfg := scheduler.DefaultSchedulerConfig()
	schedCfg.Logger = log
	schedCfg.Timezone = cfg.App.Location
	schedCfg.MaxHistorySize = cfg.Scheduler.MaxHistorySize
	sched := scheduler.NewScheduler(schedCfg)

	recordRepo := postgres.NewRecordRepository(dbConn)

	rebuildCfg := jobs.DefaultRebuildSnapshotConfig()
	rebuildCfg.PuzzleTypes = cfg.Snapshot.PuzzleTypes
	rebuildCfg.Difficulties = cfg.Snapshot.Difficulties
	rebuildCfg.MaxEntries = cfg.Snapshot.MaxEntries
	rebuildCfg.Timeout = cfg.Scheduler.JobTimeout

	rebuildJob := jobs.NewRebuildSnapshotJob(recordRepo, snapshots, eventBus, log, rebuildCfg)

	schedule, err := buildRebuildSchedule(cfg)
	if err != nil {
		return fmt.Errorf("invalid rebuild schedule: %w", err)
	}

	if err := sched.Register(rebuildJob, schedule); err != nil {
		return fmt.Errorf("failed to register rebuild job: %w", err)
	}

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	// Prime the snapshots immediately instead of waiting for the first tick.
	if _, err := sched.RunNow(ctx, rebuildJob.Name()); err != nil {
		log.Warn("initial snapshot rebuild failed", logger.Err(err))
	}

	log.Info("worker is running", logger.String("schedule", schedule.String()))

	// ─────────────────────────────────────────────────────────────────────────
	// 7. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case <-ctx.Done():
	}

	if err := sched.Stop(); err != nil {
		return fmt.Errorf("scheduler stop failed: %w", err)
	}

	log.Info("shutdown completed successfully")
	return nil
}

// buildRebuildSchedule prefers the cron expression, falling back to the
// fixed interval.
func buildRebuildSchedule(cfg *config.Config) (scheduler.Schedule, error) {
	if cfg.Scheduler.RebuildCron != "" {
		return scheduler.ParseCronSchedule(cfg.Scheduler.RebuildCron)
	}
	return scheduler.NewIntervalSchedule(cfg.Scheduler.RebuildInterval), nil
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
