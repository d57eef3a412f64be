//go:build !integration

package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBackend = errors.New("backend down")

func fail(cb *CircuitBreaker, times int) {
	for i := 0; i < times; i++ {
		_ = cb.Execute(context.Background(), func() error { return errBackend })
	}
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time            { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)}
}

func TestCircuitBreaker_Execute_Success(t *testing.T) {
	cb := New(DefaultConfig())
	err := cb.Execute(context.Background(), func() error {
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	cb := New(Config{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		Timeout:          time.Hour,
		Name:             "test",
	})

	err := cb.Execute(context.Background(), func() error { return errBackend })
	assert.Equal(t, errBackend, err)
	assert.Equal(t, StateClosed, cb.State())

	err = cb.Execute(context.Background(), func() error { return errBackend })
	assert.Equal(t, errBackend, err)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err = cb.Execute(context.Background(), func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)
}

func TestCircuitBreaker_Recovery(t *testing.T) {
	clock := newClock()
	cb := New(Config{
		FailureThreshold: 2,
		SuccessThreshold: 2,
		Timeout:          time.Minute,
		Name:             "test",
		Now:              clock.Now,
	})
	fail(cb, 2)
	require.Equal(t, StateOpen, cb.State())

	clock.Advance(59 * time.Second)
	assert.ErrorIs(t, cb.Execute(context.Background(), func() error { return nil }), ErrCircuitOpen)

	clock.Advance(time.Second)

	require.NoError(t, cb.Execute(context.Background(), func() error { return nil }))
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(context.Background(), func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	clock := newClock()
	cb := New(Config{
		FailureThreshold: 1,
		SuccessThreshold: 2,
		Timeout:          time.Minute,
		Name:             "test",
		Now:              clock.Now,
	})
	fail(cb, 1)
	clock.Advance(time.Minute)

	fail(cb, 1)
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_HalfOpenAdmitsOneTrialCall(t *testing.T) {
	clock := newClock()
	cb := New(Config{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          time.Second,
		Name:             "test",
		Now:              clock.Now,
	})
	fail(cb, 1)
	clock.Advance(time.Second)

	var concurrent error
	err := cb.Execute(context.Background(), func() error {
		concurrent = cb.Execute(context.Background(), func() error { return nil })
		return nil
	})

	require.NoError(t, err)
	assert.ErrorIs(t, concurrent, ErrCircuitOpen)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_CallerCancellationIsNotAFailure(t *testing.T) {
	cb := New(Config{FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Hour, Name: "test"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := cb.Execute(ctx, func() error { return ctx.Err() })

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateClosed, cb.State())
}

func waitDone(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestCircuitBreaker_ContextErrors(t *testing.T) {
	errCalleeTimeout := errors.New("backend call timed out")

	tests := []struct {
		name      string
		ctx       func() (context.Context, context.CancelFunc)
		call      func(ctx context.Context) error
		wantState State
	}{
		{
			name: "caller deadline is not a failure",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), time.Nanosecond)
			},
			call:      waitDone,
			wantState: StateClosed,
		},
		{
			name: "deadline with its own cause is a failure",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeoutCause(context.Background(), time.Nanosecond, errCalleeTimeout)
			},
			call:      waitDone,
			wantState: StateOpen,
		},
		{
			name: "live context with deadline error is a failure",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithCancel(context.Background())
			},
			call:      func(context.Context) error { return context.DeadlineExceeded },
			wantState: StateOpen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := New(Config{FailureThreshold: 1, SuccessThreshold: 1, Timeout: time.Hour, Name: "test"})
			ctx, cancel := tt.ctx()
			defer cancel()

			err := cb.Execute(ctx, func() error { return tt.call(ctx) })

			assert.ErrorIs(t, err, context.DeadlineExceeded)
			assert.Equal(t, tt.wantState, cb.State())
		})
	}
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	var transitions []string
	clock := newClock()
	cb := New(Config{
		FailureThreshold: 1,
		SuccessThreshold: 1,
		Timeout:          time.Second,
		Name:             "slots",
		Now:              clock.Now,
		OnStateChange: func(name string, from, to State) {
			transitions = append(transitions, name+":"+from.String()+"->"+to.String())
		},
	})

	fail(cb, 1)
	clock.Advance(time.Second)
	require.NoError(t, cb.Execute(context.Background(), func() error { return nil }))

	assert.Equal(t, []string{
		"slots:closed->open",
		"slots:open->half-open",
		"slots:half-open->closed",
	}, transitions)
}

func TestCircuitBreaker_GetStats(t *testing.T) {
	cb := New(Config{FailureThreshold: 3, SuccessThreshold: 1, Timeout: time.Hour, Name: "stats"})
	fail(cb, 2)

	stats := cb.GetStats()
	assert.Equal(t, "closed", stats.State)
	assert.Equal(t, 2, stats.FailureCount)
	assert.True(t, stats.IsHealthy)
	assert.False(t, stats.LastFailure.IsZero())
	assert.Equal(t, "stats", cb.Name())
}

func TestNew_AppliesDefaultsForInvalidThresholds(t *testing.T) {
	cb := New(Config{Name: "zero"})
	fail(cb, DefaultConfig().FailureThreshold-1)
	assert.Equal(t, StateClosed, cb.State())
	fail(cb, 1)
	assert.Equal(t, StateOpen, cb.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(42).String())
}
