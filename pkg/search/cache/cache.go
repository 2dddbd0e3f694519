package cache

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/TrvKhanh/rag-mobile/pkg/catalog"
)

// DefaultTTL is how long derived retrieval results stay valid.
const DefaultTTL = 24 * time.Hour

const keyPrefix = "search:cache:"

// Store is the shared result cache in front of the fusion and rerank
// stages. Entries are derived deterministically from (query, topK), so
// last-writer-wins on concurrent Sets is acceptable and a failed or
// corrupted read is simply a miss.
type Store interface {
	Get(ctx context.Context, key string) ([]catalog.RankedResult, bool)
	Set(ctx context.Context, key string, results []catalog.RankedResult, ttl time.Duration)
}

// FusionKey addresses a fused result set for (query, topK).
func FusionKey(query string, topK int) string {
	return hashKey(query, topK, "")
}

// RerankKey addresses a reranked result set; the stage tag keeps it
// from colliding with the fusion entry for the same query.
func RerankKey(query string, topK int) string {
	return hashKey(query, topK, "rerank")
}

func hashKey(query string, topK int, stage string) string {
	raw := fmt.Sprintf("%s|%d|%s", query, topK, stage)
	sum := sha256.Sum256([]byte(raw))
	return keyPrefix + fmt.Sprintf("%x", sum[:12])
}
