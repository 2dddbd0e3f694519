package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/TrvKhanh/rag-mobile/pkg/catalog"
)

// MemoryStore is the in-process fallback used when Redis is not
// reachable at bootstrap. Same contract, no persistence.
type MemoryStore struct {
	cache *gocache.Cache
}

var _ Store = &MemoryStore{}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(DefaultTTL, 1*time.Hour),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]catalog.RankedResult, bool) {
	if x, found := s.cache.Get(key); found {
		if results, ok := x.([]catalog.RankedResult); ok {
			return results, true
		}
	}
	return nil, false
}

func (s *MemoryStore) Set(_ context.Context, key string, results []catalog.RankedResult, ttl time.Duration) {
	s.cache.Set(key, results, ttl)
}

// Invalidate drops everything, used after a reindex.
func (s *MemoryStore) Invalidate(_ context.Context) {
	s.cache.Flush()
}
