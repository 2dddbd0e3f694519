package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/TrvKhanh/rag-mobile/pkg/catalog"
)

func TestFusionAndRerankKeysAreDistinct(t *testing.T) {
	fused := FusionKey("iphone 16 pro", 5)
	reranked := RerankKey("iphone 16 pro", 5)

	assert.NotEqual(t, fused, reranked)
	assert.Equal(t, fused, FusionKey("iphone 16 pro", 5))
	assert.NotEqual(t, fused, FusionKey("iphone 16 pro", 10))
	assert.NotEqual(t, fused, FusionKey("iphone 16", 5))
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	results := []catalog.RankedResult{
		{
			Passage: catalog.Passage{
				ID:      "p1",
				Content: "iPhone 16 Pro Max 256GB",
				Metadata: catalog.Metadata{
					ProductID: "iphone-16-pro-max",
					Title:     "iPhone 16 Pro Max",
				},
			},
			Score:  0.92,
			Source: catalog.SourceFused,
		},
	}

	key := FusionKey("iphone 16 pro max", 5)

	_, found := store.Get(ctx, key)
	assert.False(t, found)

	store.Set(ctx, key, results, time.Minute)

	got, found := store.Get(ctx, key)
	assert.True(t, found)
	assert.Equal(t, results, got)
}

func TestMemoryStoreEntryExpiresAfterTTL(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	key := FusionKey("pixel 10", 5)
	store.Set(ctx, key, []catalog.RankedResult{
		{Passage: catalog.Passage{ID: "p1"}, Score: 1.0, Source: catalog.SourceFused},
	}, 20*time.Millisecond)

	_, found := store.Get(ctx, key)
	assert.True(t, found)

	time.Sleep(50 * time.Millisecond)

	_, found = store.Get(ctx, key)
	assert.False(t, found)
}

func TestMemoryStoreInvalidate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	key := FusionKey("galaxy s25", 5)
	store.Set(ctx, key, []catalog.RankedResult{}, time.Minute)

	store.Invalidate(ctx)

	_, found := store.Get(ctx, key)
	assert.False(t, found)
}
