package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/guttosm/cart-service/internal/circuitbreaker"
)

// SlotStoreWithCircuitBreaker wraps a SlotStore with circuit breaker protection.
type SlotStoreWithCircuitBreaker struct {
	store          SlotStore
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewSlotStoreWithCircuitBreaker creates a new store wrapper with circuit breaker.
func NewSlotStoreWithCircuitBreaker(store SlotStore, cb *circuitbreaker.CircuitBreaker) *SlotStoreWithCircuitBreaker {
	return &SlotStoreWithCircuitBreaker{
		store:          store,
		circuitBreaker: cb,
	}
}

// Get reads a slot with circuit breaker protection.
func (s *SlotStoreWithCircuitBreaker) Get(ctx context.Context, namespace, key string) (string, bool, error) {
	var (
		value string
		found bool
	)
	err := s.circuitBreaker.Execute(ctx, func() error {
		var cbErr error
		value, found, cbErr = s.store.Get(ctx, namespace, key)
		return cbErr
	})
	return value, found, translateBreakerError(err)
}

// Commit writes a batch with circuit breaker protection.
func (s *SlotStoreWithCircuitBreaker) Commit(ctx context.Context, namespace string, mutations ...Mutation) error {
	// Bad keys are caller errors and must not count as backend failures.
	if err := ValidateMutations(mutations); err != nil {
		return err
	}
	err := s.circuitBreaker.Execute(ctx, func() error {
		return s.store.Commit(ctx, namespace, mutations...)
	})
	return translateBreakerError(err)
}

// Ping bypasses the breaker so readiness reflects the real backend.
func (s *SlotStoreWithCircuitBreaker) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// GetCircuitBreaker returns the underlying circuit breaker for monitoring.
func (s *SlotStoreWithCircuitBreaker) GetCircuitBreaker() *circuitbreaker.CircuitBreaker {
	return s.circuitBreaker
}

func translateBreakerError(err error) error {
	if errors.Is(err, circuitbreaker.ErrCircuitOpen) {
		return fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return err
}
