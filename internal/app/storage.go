package app

import (
	"context"
	"fmt"

	"github.com/guttosm/cart-service/config"
	"github.com/guttosm/cart-service/internal/circuitbreaker"
	"github.com/guttosm/cart-service/internal/metrics"
	"github.com/guttosm/cart-service/internal/repository"
	"github.com/rs/zerolog/log"
)

// StorageComponents holds the slot store and what it needs at shutdown.
type StorageComponents struct {
	Store repository.SlotStore
	// CircuitBreaker is nil for the in-memory backend.
	CircuitBreaker *circuitbreaker.CircuitBreaker
	close          func(ctx context.Context) error
}

// Close releases the backend connection.
func (s *StorageComponents) Close(ctx context.Context) error {
	if s == nil || s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// InitializeStorage connects the configured slot store backend. Remote
// backends are wrapped in a circuit breaker whose state is exported as a
// metric.
func InitializeStorage(ctx context.Context, cfg config.Config) (*StorageComponents, error) {
	switch cfg.Storage.Backend {
	case "", config.StorageMemory:
		log.Warn().Msg("Using in-memory cart storage; carts are lost on restart")
		return &StorageComponents{Store: repository.NewMemoryStore()}, nil

	case config.StorageMongoDB:
		mongoCfg := repository.DefaultMongoConfig()
		mongoCfg.SessionTTL = cfg.Database.SessionTTL
		db, err := repository.ConnectMongoDB(ctx, cfg.Database.URI, cfg.Database.DatabaseName, mongoCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		log.Info().Str("database", cfg.Database.DatabaseName).Msg("Connected to MongoDB")

		cb := newStoreBreaker(cfg.Database, "slots-mongodb")
		return &StorageComponents{
			Store:          repository.NewSlotStoreWithCircuitBreaker(repository.NewMongoSlotStore(db), cb),
			CircuitBreaker: cb,
			close:          db.Close,
		}, nil

	case config.StorageRedis:
		client, err := repository.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")

		store := repository.NewRedisSlotStore(client, cfg.Redis.KeyPrefix)
		cb := newStoreBreaker(cfg.Database, "slots-redis")
		return &StorageComponents{
			Store:          repository.NewSlotStoreWithCircuitBreaker(store, cb),
			CircuitBreaker: cb,
			close:          func(context.Context) error { return store.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}

// newStoreBreaker builds the breaker for a remote slot store. The
// thresholds are shared by every backend.
func newStoreBreaker(cfg config.DatabaseConfig, name string) *circuitbreaker.CircuitBreaker {
	metrics.SetCircuitBreakerState(name, int(circuitbreaker.StateClosed))
	return circuitbreaker.New(circuitbreaker.Config{
		FailureThreshold: cfg.CircuitBreakerFailureThreshold,
		SuccessThreshold: cfg.CircuitBreakerSuccessThreshold,
		Timeout:          cfg.CircuitBreakerTimeout,
		Name:             name,
		OnStateChange: func(name string, _, to circuitbreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
		},
	})
}
