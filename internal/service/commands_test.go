//go:build !integration

package service

import (
	"context"
	"testing"

	"github.com/guttosm/cart-service/internal/domain/model"
	"github.com/guttosm/cart-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bogusCommand struct{}

func (bogusCommand) CommandName() string { return "bogus" }

func TestDispatcher_Dispatch(t *testing.T) {
	ctx := context.Background()
	d := NewDispatcher(newTestStore(t, repository.NewMemoryStore()))

	res, err := d.Dispatch(ctx, testSession, AddItem{ID: "1", Name: "Shirt", Price: "₹1,200"})
	require.NoError(t, err)
	assert.Len(t, res.Cart.Items, 1)
	assert.Equal(t, "₹1200.00", res.Summary.Formatted.Subtotal)
	assert.Equal(t, "Shirt added to cart!", res.Notification.Message)

	res, err = d.Dispatch(ctx, testSession, UpdateQuantity{Index: 0, Quantity: "2"})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Cart.Items[0].Quantity)
	assert.Equal(t, 2, res.Summary.ItemCount)

	res, err = d.Dispatch(ctx, testSession, AdjustQuantity{Index: 0, Delta: -1})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Cart.Items[0].Quantity)

	res, err = d.Dispatch(ctx, testSession, AddItem{ID: "2", Name: "Jeans", Price: "2500"})
	require.NoError(t, err)
	res, err = d.Dispatch(ctx, testSession, RemoveItem{Index: 1})
	require.NoError(t, err)
	assert.Equal(t, "Jeans", res.Removed)
	assert.Len(t, res.Cart.Items, 1)

	res, err = d.Dispatch(ctx, testSession, Checkout{})
	require.NoError(t, err)
	require.NotNil(t, res.Order)
	assert.Equal(t, []string{"Shirt × 1"}, res.Order.Items)
	assert.True(t, res.Cart.IsEmpty())
	assert.Zero(t, res.Summary.Total)
}

func TestDispatcher_Errors(t *testing.T) {
	ctx := context.Background()
	d := NewDispatcher(newTestStore(t, repository.NewMemoryStore()))

	tests := []struct {
		name    string
		cmd     Command
		wantErr error
	}{
		{name: "unknown command", cmd: bogusCommand{}, wantErr: ErrUnknownCommand},
		{name: "nil command", cmd: nil, wantErr: ErrUnknownCommand},
		{name: "bad price", cmd: AddItem{ID: "1", Name: "Shirt", Price: "free?"}, wantErr: model.ErrInvalidPrice},
		{name: "bad index", cmd: RemoveItem{Index: 3}, wantErr: model.ErrInvalidIndex},
		{name: "empty checkout", cmd: Checkout{}, wantErr: model.ErrEmptyCart},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := d.Dispatch(ctx, testSession, tt.cmd)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, res.Order)
		})
	}
}

func TestDispatcher_EmptyCheckoutCarriesNotification(t *testing.T) {
	d := NewDispatcher(newTestStore(t, repository.NewMemoryStore()))

	res, err := d.Dispatch(context.Background(), testSession, Checkout{})

	assert.ErrorIs(t, err, model.ErrEmptyCart)
	assert.Equal(t, model.SeverityError, res.Notification.Severity)
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(model.ErrInvalidPrice))
	assert.True(t, IsClientError(ErrInvalidSession))
	assert.False(t, IsClientError(repository.ErrStoreUnavailable))
	assert.False(t, IsClientError(nil))
}
