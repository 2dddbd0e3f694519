package retry

import (
	"context"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// Policy describes how a transient-failure-prone call is retried.
// Delay grows exponentially: BaseDelay * 2^attempt.
type Policy struct {
	MaxAttempts uint
	BaseDelay   time.Duration
	RetryIf     func(error) bool
}

// DefaultPolicy matches the upstream generation API behaviour: three
// attempts, 2s base delay, retrying only on overload-style failures.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		RetryIf:     IsOverloaded,
	}
}

// Do runs op under the policy. The last error is returned on exhaustion.
func (p Policy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}
	opts := []retry.Option{
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(p.BaseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	}
	if p.RetryIf != nil {
		opts = append(opts, retry.RetryIf(p.RetryIf))
	}
	return retry.Do(op, opts...)
}

// IsOverloaded reports whether err looks like a transient upstream
// overload (503 / "model overloaded" / gRPC UNAVAILABLE).
func IsOverloaded(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "503") ||
		strings.Contains(strings.ToLower(msg), "overloaded") ||
		strings.Contains(msg, "UNAVAILABLE")
}
