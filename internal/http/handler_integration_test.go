//go:build integration

package http

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cart-service/internal/circuitbreaker"
	"github.com/guttosm/cart-service/internal/domain/dto"
	"github.com/guttosm/cart-service/internal/repository"
	"github.com/guttosm/cart-service/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMongoRouter(t *testing.T) (*gin.Engine, *repository.MongoDB) {
	t.Helper()
	db, err := repository.NewMongoDB(testutil.GetSharedContainerURI(), testutil.SanitizeDBName(t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(context.Background()) })

	cb := circuitbreaker.New(circuitbreaker.DefaultConfig())
	store := repository.NewSlotStoreWithCircuitBreaker(repository.NewMongoSlotStore(db), cb)

	health := NewHealthHandler()
	health.RegisterChecker("store", PingChecker{Target: store})
	health.RegisterCircuitBreaker("slots", cb)

	cfg := DefaultRouterConfig()
	cfg.RateLimit = 0
	return NewRouter(NewCartHandler(newTestCartStore(store), nil), health, cfg), db
}

func TestIntegration_CartFlow(t *testing.T) {
	router, _ := setupMongoRouter(t)

	seed(t, router)

	w := doRequest(router, http.MethodPut, cartPath("/cart/items/1"), `{"quantity":"3"}`, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(router, http.MethodGet, cartPath("/cart"), "", nil)
	view := decodeData[dto.CartView](t, w)
	require.Len(t, view.Items, 2)
	assert.InDelta(t, 9900, view.Summary.Subtotal, 1e-9)
	assert.True(t, view.Summary.FreeShipping)
	assert.Equal(t, "FREE", view.Summary.Formatted.Shipping)

	w = doRequest(router, http.MethodPost, cartPath("/checkout"), "", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decodeData[dto.CartActionResponse](t, w).Order
	require.NotNil(t, order)
	assert.Equal(t, []string{"Shirt × 2", "Jeans × 3"}, order.Items)

	w = doRequest(router, http.MethodGet, cartPath("/cart"), "", nil)
	assert.True(t, decodeData[dto.CartView](t, w).Empty)

	w = doRequest(router, http.MethodGet, cartPath("/orders"), "", nil)
	orders := decodeData[dto.OrdersResponse](t, w)
	require.Equal(t, 1, orders.Count)
	assert.Equal(t, order.ID, orders.Orders[0].ID)
}

func TestIntegration_ConcurrentAdds(t *testing.T) {
	router, _ := setupMongoRouter(t)

	const adds = 20
	var wg sync.WaitGroup
	for i := 0; i < adds; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doRequest(router, http.MethodPost, cartPath("/cart/items"), `{"id":"1","name":"Shirt","price":"100"}`, nil)
		}()
	}
	wg.Wait()

	w := doRequest(router, http.MethodGet, cartPath("/cart"), "", nil)
	view := decodeData[dto.CartView](t, w)
	require.Len(t, view.Items, 1)
	assert.Equal(t, adds, view.Items[0].Quantity)
}

func TestIntegration_Readiness(t *testing.T) {
	router, db := setupMongoRouter(t)

	w := doRequest(router, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, db.Close(ctx))

	w = doRequest(router, http.MethodGet, "/readyz", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = doRequest(router, http.MethodGet, cartPath("/cart"), "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
