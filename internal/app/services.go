package app

import (
	"github.com/guttosm/cart-service/config"
	"github.com/guttosm/cart-service/internal/events"
	"github.com/guttosm/cart-service/internal/repository"
	"github.com/guttosm/cart-service/internal/service"
)

// ServiceComponents holds the cart services.
type ServiceComponents struct {
	CartStore  *service.CartStore
	Dispatcher *service.Dispatcher
}

// InitializeServices builds the cart store over store.
func InitializeServices(cfg config.Config, store repository.SlotStore, publisher events.OrderPublisher) *ServiceComponents {
	opts := []service.CartStoreOption{
		service.WithCartConfig(cfg.Cart),
		service.WithStoreTimeout(cfg.Storage.Timeout),
	}
	if publisher != nil {
		opts = append(opts, service.WithPublisher(publisher))
	}

	cartStore := service.NewCartStore(store, opts...)
	return &ServiceComponents{
		CartStore:  cartStore,
		Dispatcher: service.NewDispatcher(cartStore),
	}
}
