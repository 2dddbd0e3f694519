package llm

import (
	"context"

	"github.com/TrvKhanh/rag-mobile/pkg/retry"
)

// RetryableProvider decorates an LLMProvider with the overload retry
// policy for request/response calls.
type RetryableProvider struct {
	inner  LLMProvider
	policy retry.Policy
}

var _ LLMProvider = &RetryableProvider{}

func NewRetryableProvider(inner LLMProvider, policy retry.Policy) *RetryableProvider {
	return &RetryableProvider{
		inner:  inner,
		policy: policy,
	}
}

func (r *RetryableProvider) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	var out string
	err := r.policy.Do(ctx, func() error {
		var callErr error
		out, callErr = r.inner.Chat(ctx, history, options...)
		return callErr
	})
	return out, err
}

func (r *RetryableProvider) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	var out string
	err := r.policy.Do(ctx, func() error {
		var callErr error
		out, callErr = r.inner.Generate(ctx, prompt, options...)
		return callErr
	})
	return out, err
}

// Stream is not retried: once chunks have been delivered to fn the call
// is no longer idempotent, so a mid-flight failure surfaces as-is.
func (r *RetryableProvider) Stream(ctx context.Context, history []Message, fn StreamFunc, options ...Option) error {
	return r.inner.Stream(ctx, history, fn, options...)
}
