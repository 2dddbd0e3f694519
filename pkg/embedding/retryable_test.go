package embedding

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/TrvKhanh/rag-mobile/pkg/retry"
)

type flakyProvider struct {
	failures int
	err      error
	calls    int
}

func (f *flakyProvider) Generate(string, string) (*EmbeddingResponse, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{Values: []float32{0.5}},
	}, nil
}

func testPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, RetryIf: retry.IsOverloaded}
}

func TestGenerateRetriesOverloadedEmbeddingCalls(t *testing.T) {
	inner := &flakyProvider{failures: 2, err: errors.New("503 model overloaded")}
	p := NewRetryableProvider(inner, testPolicy())

	res, err := p.Generate("điện thoại pin trâu", "RETRIEVAL_QUERY")
	assert.NoError(t, err)
	assert.Equal(t, 3, inner.calls)
	assert.Equal(t, []float32{0.5}, res.Embedding.Values)
}

func TestGenerateDoesNotRetryNonTransientFailures(t *testing.T) {
	inner := &flakyProvider{failures: 10, err: errors.New("401 unauthorized")}
	p := NewRetryableProvider(inner, testPolicy())

	_, err := p.Generate("iphone 16", "RETRIEVAL_DOCUMENT")
	assert.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}
