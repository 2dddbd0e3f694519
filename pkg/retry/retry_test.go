package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDoRetriesOverloadedErrors(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, RetryIf: IsOverloaded}

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("503 model overloaded")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	p := Policy{MaxAttempts: 3, BaseDelay: time.Millisecond, RetryIf: IsOverloaded}

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return errors.New("400 bad request")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoReturnsLastErrorOnExhaustion(t *testing.T) {
	p := Policy{MaxAttempts: 2, BaseDelay: time.Millisecond, RetryIf: IsOverloaded}

	err := p.Do(context.Background(), func() error {
		return errors.New("UNAVAILABLE: try again")
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "UNAVAILABLE")
}

func TestIsOverloaded(t *testing.T) {
	assert.True(t, IsOverloaded(errors.New("status 503")))
	assert.True(t, IsOverloaded(errors.New("the model is Overloaded")))
	assert.True(t, IsOverloaded(errors.New("rpc error: code = UNAVAILABLE")))
	assert.False(t, IsOverloaded(errors.New("401 unauthorized")))
	assert.False(t, IsOverloaded(nil))
}
