package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/TrvKhanh/rag-mobile/pkg/catalog"
)

// RedisStore persists cached results across process restarts.
type RedisStore struct {
	redis  *redis.Client
	logger *log.Logger
}

var _ Store = &RedisStore{}

func NewRedisStore(rdb *redis.Client, logger *log.Logger) *RedisStore {
	return &RedisStore{
		redis:  rdb,
		logger: logger,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]catalog.RankedResult, bool) {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var results []catalog.RankedResult
	if err := json.Unmarshal(data, &results); err != nil {
		// Corrupted entry counts as a miss, never as a failure
		s.logger.Printf("[WARN] Cache entry %s is corrupted, treating as miss: %v", key, err)
		return nil, false
	}
	return results, true
}

func (s *RedisStore) Set(ctx context.Context, key string, results []catalog.RankedResult, ttl time.Duration) {
	data, err := json.Marshal(results)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, ttl).Err(); err != nil {
		s.logger.Printf("[WARN] Failed to write cache entry %s: %v", key, err)
	}
}

// Invalidate drops every cached result set, used after a reindex.
func (s *RedisStore) Invalidate(ctx context.Context) {
	iter := s.redis.Scan(ctx, 0, keyPrefix+"*", 500).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		s.redis.Del(ctx, keys...)
		s.logger.Printf("[INFO] Invalidated %d cached result sets", len(keys))
	}
}
