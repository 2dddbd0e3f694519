package embedding

import (
	"context"

	"github.com/TrvKhanh/rag-mobile/pkg/retry"
)

// RetryableProvider decorates an EmbeddingProvider with the overload
// retry policy, matching the generation-side decorator.
type RetryableProvider struct {
	inner  EmbeddingProvider
	policy retry.Policy
}

var _ EmbeddingProvider = &RetryableProvider{}

func NewRetryableProvider(inner EmbeddingProvider, policy retry.Policy) *RetryableProvider {
	return &RetryableProvider{
		inner:  inner,
		policy: policy,
	}
}

func (r *RetryableProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	var out *EmbeddingResponse
	err := r.policy.Do(context.Background(), func() error {
		var callErr error
		out, callErr = r.inner.Generate(text, taskType)
		return callErr
	})
	return out, err
}
