package bench

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerWait_Rate(t *testing.T) {
	s := NewScheduler(&Config{Rate: 100, Concurrency: 1})
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Wait(ctx))
	}
	// burst of 1 at 100 req/s: four waits of ~10ms
	assert.GreaterOrEqual(t, time.Since(start), 35*time.Millisecond)
}

func TestSchedulerWait_Unlimited(t *testing.T) {
	s := NewScheduler(&Config{Concurrency: 1})
	require.NoError(t, s.Wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Wait(ctx), context.Canceled)
}

func TestSchedulerAcquireRelease(t *testing.T) {
	s := NewScheduler(&Config{Concurrency: 2})
	ctx := context.Background()

	require.NoError(t, s.Acquire(ctx))
	require.NoError(t, s.Acquire(ctx))
	assert.Equal(t, 2, s.InFlight())

	blocked, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, s.Acquire(blocked), context.DeadlineExceeded)

	s.Release()
	assert.Equal(t, 1, s.InFlight())
	require.NoError(t, s.Acquire(ctx))
}
