package redis

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/puzzlehive/stats-hub/internal/domain/ranking"
	"github.com/puzzlehive/stats-hub/internal/domain/shared"
	"github.com/puzzlehive/stats-hub/pkg/circuitbreaker"
	"github.com/puzzlehive/stats-hub/pkg/logger"
	"github.com/puzzlehive/stats-hub/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT CACHE
// ══════════════════════════════════════════════════════════════════════════════

// SnapshotCache implements ranking.SnapshotStore on Redis. Writes are retried
// (they are idempotent), reads go through a circuit breaker so a struggling
// Redis degrades ranking queries to recomputation instead of slowing them.
type SnapshotCache struct {
	cache   *Cache
	ttl     time.Duration
	breaker *circuitbreaker.CircuitBreaker
	retrier *retry.Retrier
	log     *logger.Logger
}

// NewSnapshotCache creates a snapshot cache. The TTL is a hard upper bound on
// snapshot lifetime; the staleness bound enforced by the query layer is
// typically shorter.
func NewSnapshotCache(cache *Cache, ttl time.Duration, log *logger.Logger) *SnapshotCache {
	if log == nil {
		log = logger.Default()
	}
	log = log.With(logger.Component("snapshot_cache"))

	breaker := circuitbreaker.RedisBreaker(func(name string, from, to circuitbreaker.State) {
		log.Warn("circuit breaker state change",
			logger.String("breaker", name),
			logger.String("from", from.String()),
			logger.String("to", to.String()),
		)
	})

	return &SnapshotCache{
		cache:   cache,
		ttl:     ttl,
		breaker: breaker,
		retrier: retry.CacheRetrier(),
		log:     log,
	}
}

// Load returns the latest snapshot for the filter pair.
func (s *SnapshotCache) Load(ctx context.Context, puzzleType shared.PuzzleType, difficulty shared.Difficulty) (*ranking.Snapshot, error) {
	key := SnapshotKey(puzzleType.String(), difficulty.String())

	var snap ranking.Snapshot
	missing := false

	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		err := s.cache.Get(ctx, key, &snap)
		if errors.Is(err, ErrCacheMiss) {
			// A miss is a valid answer, not a Redis failure.
			missing = true
			return nil
		}
		return err
	})
	if err != nil {
		return nil, shared.WrapError("redis", "LoadSnapshot", shared.ErrCacheUnavailable, "failed to load snapshot", err)
	}
	if missing {
		return nil, shared.ErrSnapshotMissing
	}

	return &snap, nil
}

// Save stores a snapshot, replacing any previous one for the pair. A zero
// Version is assigned from the per-type monotonic counter; a missing ID gets
// a fresh UUID.
func (s *SnapshotCache) Save(ctx context.Context, snap *ranking.Snapshot) error {
	if snap == nil {
		return ErrCacheNilValue
	}

	if snap.ID == "" {
		snap.ID = uuid.NewString()
	}
	if snap.TakenAt.IsZero() {
		snap.TakenAt = time.Now().UTC()
	}
	if snap.Version == 0 {
		version, err := s.nextVersion(ctx, snap.PuzzleType.String())
		if err != nil {
			return err
		}
		snap.Version = version
	}

	key := SnapshotKey(snap.PuzzleType.String(), snap.Difficulty.String())

	err := s.retrier.Do(ctx, func(ctx context.Context) error {
		return s.breaker.Execute(ctx, func(ctx context.Context) error {
			if err := s.cache.Set(ctx, key, snap, s.ttl); err != nil {
				// Transient: the write is idempotent and safe to retry.
				// An open breaker short-circuits the retry loop instead.
				return retry.Retryable(err)
			}
			return nil
		})
	})
	if err != nil {
		return shared.WrapError("redis", "SaveSnapshot", shared.ErrCacheUnavailable, "failed to save snapshot", err)
	}

	s.log.Debug("snapshot saved",
		logger.PuzzleType(snap.PuzzleType.String()),
		logger.String("snapshot_id", snap.ID),
		logger.Int64("version", snap.Version),
		logger.Int("entries", len(snap.Entries)),
	)
	return nil
}

// Invalidate drops every cached snapshot for the puzzle type.
func (s *SnapshotCache) Invalidate(ctx context.Context, puzzleType shared.PuzzleType) error {
	pattern := PrefixSnapshot + puzzleType.String() + ":*"

	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.cache.DeleteByPattern(ctx, pattern)
	})
	if err != nil {
		return shared.WrapError("redis", "InvalidateSnapshots", shared.ErrCacheUnavailable, "failed to invalidate snapshots", err)
	}

	return nil
}

// Ping reports cache connectivity, for health probes.
func (s *SnapshotCache) Ping(ctx context.Context) error {
	return s.cache.Ping(ctx)
}

// nextVersion bumps the monotonic version counter for a puzzle type.
func (s *SnapshotCache) nextVersion(ctx context.Context, puzzleType string) (int64, error) {
	var version int64
	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		v, err := s.cache.Incr(ctx, SnapshotVersionKey(puzzleType))
		version = v
		return err
	})
	if err != nil {
		return 0, shared.WrapError("redis", "SnapshotVersion", shared.ErrCacheUnavailable, "failed to bump snapshot version", err)
	}
	return version, nil
}
