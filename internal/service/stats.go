package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"brainbank/video-ingestion/internal/db"
	"brainbank/video-ingestion/internal/db/models"
	"brainbank/video-ingestion/internal/db/repository"
	"brainbank/video-ingestion/pkg/logger"
)

// StatsCache is the caching surface StatsService needs from Redis.
type StatsCache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// StatsService serves user statistics from a TTL cache, recounting from the
// database on a miss. The cache is an optimization: any Redis failure falls
// through to a recount.
type StatsService struct {
	users repository.AppUserRepository
	cache StatsCache
	ttl   time.Duration
}

func NewStatsService(users repository.AppUserRepository, cache StatsCache, ttl time.Duration) *StatsService {
	return &StatsService{
		users: users,
		cache: cache,
		ttl:   ttl,
	}
}

func statsCacheKey(userID string) string {
	return "stats:" + userID
}

// Get returns the user's statistics, cached when fresh.
func (s *StatsService) Get(ctx context.Context, userID string) (*models.UserStats, error) {
	if userID == "" {
		return nil, &ValidationError{Message: "user id is required"}
	}

	if s.cache != nil {
		raw, err := s.cache.Get(ctx, statsCacheKey(userID)).Result()
		if err == nil {
			var stats models.UserStats
			if jsonErr := json.Unmarshal([]byte(raw), &stats); jsonErr == nil {
				return &stats, nil
			}
		} else if err != redis.Nil {
			logger.Log.Warn("Stats cache read failed",
				zap.String("userId", userID),
				zap.Error(err),
			)
		}
	}

	return s.Refresh(ctx, userID)
}

// Refresh recounts from the database and repopulates the cache.
func (s *StatsService) Refresh(ctx context.Context, userID string) (*models.UserStats, error) {
	stats, err := s.users.RecomputeStats(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, err
		}
		return nil, &ProcessingError{Message: "failed to recompute user stats", Cause: err}
	}

	if s.cache != nil {
		body, jsonErr := json.Marshal(stats)
		if jsonErr == nil {
			if err := s.cache.Set(ctx, statsCacheKey(userID), body, s.ttl).Err(); err != nil {
				logger.Log.Warn("Stats cache write failed",
					zap.String("userId", userID),
					zap.Error(err),
				)
			}
		}
	}

	return stats, nil
}

// Invalidate drops the cached entry so the next read recounts.
func (s *StatsService) Invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, statsCacheKey(userID)).Err(); err != nil {
		logger.Log.Warn(fmt.Sprintf("Stats cache invalidation failed for %s", userID), zap.Error(err))
	}
}
