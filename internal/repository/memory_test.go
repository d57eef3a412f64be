//go:build !integration

package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()

	v, found, err := store.Get(context.Background(), "session-1", SlotCart)

	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, v)
}

func TestMemoryStore_CommitAndGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Commit(ctx, "s1",
		Set(SlotCart, `[{"id":"1"}]`),
		Set(SlotOrders, `[]`),
	))

	v, found, err := store.Get(ctx, "s1", SlotCart)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"1"}]`, v)

	_, found, err = store.Get(ctx, "s2", SlotCart)
	require.NoError(t, err)
	assert.False(t, found, "namespaces are isolated")
}

func TestMemoryStore_CommitAppliesInOrder(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Commit(ctx, "s1",
		Set(SlotCart, "a"),
		Delete(SlotCart),
		Set(SlotOrders, "b"),
	))

	_, found, _ := store.Get(ctx, "s1", SlotCart)
	assert.False(t, found)
	v, found, _ := store.Get(ctx, "s1", SlotOrders)
	assert.True(t, found)
	assert.Equal(t, "b", v)
}

func TestMemoryStore_DropsEmptyNamespaces(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Commit(ctx, "s1", Set(SlotCart, "x")))
	assert.Equal(t, 1, store.Len())

	require.NoError(t, store.Commit(ctx, "s1", Delete(SlotCart)))
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_RejectsInvalidKeysWithoutWriting(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	err := store.Commit(ctx, "s1", Set(SlotCart, "x"), Set("bad.key", "y"))

	assert.ErrorIs(t, err, ErrInvalidSlotKey)
	_, found, _ := store.Get(ctx, "s1", SlotCart)
	assert.False(t, found)
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewMemoryStore().Commit(ctx, "s1", Set(SlotCart, "x"))

	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStore_ConcurrentCommits(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = store.Commit(ctx, "shared", Set(SlotCart, "v"))
			_, _, _ = store.Get(ctx, "shared", SlotCart)
		}()
	}
	wg.Wait()

	v, found, err := store.Get(ctx, "shared", SlotCart)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "v", v)
}

func TestValidateSlotKey(t *testing.T) {
	tests := []struct {
		key     string
		wantErr bool
	}{
		{key: SlotCart},
		{key: SlotOrders},
		{key: "isLoggedIn"},
		{key: "", wantErr: true},
		{key: "slots.cart", wantErr: true},
		{key: "$where", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			err := ValidateSlotKey(tt.key)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSlotKey)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRedisSlotStore_Key(t *testing.T) {
	assert.Equal(t, "storefront:s1:cart", (&RedisSlotStore{prefix: "storefront"}).key("s1", SlotCart))
	assert.Equal(t, "s1:orders", (&RedisSlotStore{}).key("s1", SlotOrders))
}
