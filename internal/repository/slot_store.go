// Package repository provides the key-value slot storage behind the cart service.
//
// Every shopper session owns a namespace of string-valued slots, laid out
// the same way the storefront kept them in browser storage ("cart",
// "orders"). Commit applies several slot writes as one unit so checkout
// never records an order without clearing the cart, or the reverse.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Slot keys used by the cart service.
const (
	SlotCart   = "cart"
	SlotOrders = "orders"
)

var (
	// ErrStoreUnavailable is returned when the backing store cannot be reached.
	ErrStoreUnavailable = errors.New("slot store unavailable")
	// ErrInvalidSlotKey is returned for keys that cannot be stored safely.
	ErrInvalidSlotKey = errors.New("invalid slot key")
	// ErrStoreTimeout is the cause of a context bounded by WithStoreTimeout
	// once that bound has passed.
	ErrStoreTimeout = errors.New("slot store timed out")
)

// WithStoreTimeout bounds ctx for slot store calls. When the bound is hit,
// context.Cause reports ErrStoreTimeout, which tells a slow backend apart
// from a caller that gave up.
func WithStoreTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeoutCause(ctx, d, ErrStoreTimeout)
}

// TimedOut reports whether ctx ended because of WithStoreTimeout.
func TimedOut(ctx context.Context) bool {
	return ctx.Err() != nil && errors.Is(context.Cause(ctx), ErrStoreTimeout)
}

// Mutation is a single slot write. Delete removes the slot and ignores Value.
type Mutation struct {
	Key    string
	Value  string
	Delete bool
}

// Set returns a mutation that stores value under key.
func Set(key, value string) Mutation {
	return Mutation{Key: key, Value: value}
}

// Delete returns a mutation that removes key.
func Delete(key string) Mutation {
	return Mutation{Key: key, Delete: true}
}

// SlotStore is a namespaced string key-value store with atomic batches.
type SlotStore interface {
	// Get returns the slot value and whether it exists.
	Get(ctx context.Context, namespace, key string) (string, bool, error)
	// Commit applies all mutations atomically, in order.
	Commit(ctx context.Context, namespace string, mutations ...Mutation) error
	// Ping reports whether the store is reachable.
	Ping(ctx context.Context) error
}

// ValidateMutations checks every key in the batch.
func ValidateMutations(mutations []Mutation) error {
	for _, m := range mutations {
		if err := ValidateSlotKey(m.Key); err != nil {
			return err
		}
	}
	return nil
}

// ValidateSlotKey rejects empty keys and keys MongoDB would read as paths
// or operators.
func ValidateSlotKey(key string) error {
	if key == "" || strings.ContainsAny(key, ".$\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidSlotKey, key)
	}
	return nil
}
