package memory

import (
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

// Message is one stored conversational turn.
type Message struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// NewMessage assigns a fresh id to a turn.
func NewMessage(role, content string) Message {
	return Message{
		ID:      uuid.New().String(),
		Role:    role,
		Content: content,
	}
}

// ThreadStore holds per-thread histories. Threads are never deleted
// explicitly; idle ones age out with the store's TTL.
type ThreadStore interface {
	Get(threadID string) []Message
	Put(threadID string, messages []Message)
}

// CacheThreadStore keeps histories in process memory with a sliding
// 24h expiry.
type CacheThreadStore struct {
	cache *gocache.Cache
}

var _ ThreadStore = &CacheThreadStore{}

func NewCacheThreadStore() *CacheThreadStore {
	return &CacheThreadStore{
		cache: gocache.New(24*time.Hour, 1*time.Hour),
	}
}

func (s *CacheThreadStore) Get(threadID string) []Message {
	if x, found := s.cache.Get(threadID); found {
		if messages, ok := x.([]Message); ok {
			return messages
		}
	}
	return nil
}

func (s *CacheThreadStore) Put(threadID string, messages []Message) {
	s.cache.Set(threadID, messages, gocache.DefaultExpiration)
}
