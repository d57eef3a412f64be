package app

import (
	"github.com/guttosm/cart-service/config"
	"github.com/guttosm/cart-service/internal/http"
	"github.com/guttosm/cart-service/internal/middleware"
)

// RouterComponents holds router-related components.
type RouterComponents struct {
	Handler       *http.CartHandler
	HealthHandler *http.HealthHandler
	Config        http.RouterConfig
	// RateLimiter is nil when rate limiting is disabled.
	RateLimiter      *middleware.RateLimiter
	IdempotencyStore *middleware.IdempotencyStore
}

// InitializeRouter builds the handlers and router configuration.
func InitializeRouter(services *ServiceComponents, storage *StorageComponents, cfg config.Config) *RouterComponents {
	handler := http.NewCartHandler(services.CartStore, services.Dispatcher)

	healthHandler := http.NewHealthHandler()
	healthHandler.RegisterChecker("storage", http.PingChecker{Target: storage.Store})
	if storage.CircuitBreaker != nil {
		healthHandler.RegisterCircuitBreaker("storage", storage.CircuitBreaker)
	}

	var limiter *middleware.RateLimiter
	if cfg.Server.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow)
	}

	idempotency := middleware.NewIdempotencyStore(middleware.DefaultIdempotencyConfig())

	return &RouterComponents{
		Handler:          handler,
		HealthHandler:    healthHandler,
		RateLimiter:      limiter,
		IdempotencyStore: idempotency,
		Config: http.RouterConfig{
			RateLimit:         cfg.Server.RateLimit,
			RateWindow:        cfg.Server.RateWindow,
			RateLimiter:       limiter,
			EnableIdempotency: true,
			Idempotency:       middleware.DefaultIdempotencyConfig(),
			IdempotencyStore:  idempotency,
			CORSOrigins:       cfg.Server.CORSOrigins,
			RequestTimeout:    cfg.Server.RequestTimeout,
		},
	}
}

// Stop ends the background goroutines of the rate limiter and the
// idempotency cache.
func (r *RouterComponents) Stop() {
	if r.RateLimiter != nil {
		r.RateLimiter.Stop()
	}
	if r.IdempotencyStore != nil {
		r.IdempotencyStore.Stop()
	}
}
