package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestAcquireGrantsPermitUnderBudget(t *testing.T) {
	c := New(1000, nil, zap.NewNop())
	_, err := c.Acquire(context.Background(), "rpc")
	assert.NoError(t, err)
}

func TestAcquireRespectsPerSourceOverride(t *testing.T) {
	c := New(1000, map[string]int{"slow-source": 1}, zap.NewNop())

	start := time.Now()
	_, err := c.Acquire(context.Background(), "slow-source")
	assert.NoError(t, err)
	_, err = c.Acquire(context.Background(), "slow-source")
	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 500*time.Millisecond)
}

func TestAcquireReturnsContextErrorOnCancellation(t *testing.T) {
	c := New(1, map[string]int{"slow-source": 1}, zap.NewNop())
	_, err := c.Acquire(context.Background(), "slow-source")
	assert.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Millisecond)
	defer cancel()
	_, err = c.Acquire(ctx, "slow-source")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestLimiterForReusesSameLimiterPerSource(t *testing.T) {
	c := New(10, nil, zap.NewNop())
	l1 := c.limiterFor("a")
	l2 := c.limiterFor("a")
	assert.Same(t, l1, l2)
}

func TestLimiterForFallsBackToDefaultRPSWhenNonPositive(t *testing.T) {
	c := New(0, nil, zap.NewNop())
	assert.NotPanics(t, func() {
		c.limiterFor("whatever")
	})
}
