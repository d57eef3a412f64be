// Package app wires the cart service together and runs it.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cart-service/config"
	"github.com/guttosm/cart-service/internal/events"
	"github.com/guttosm/cart-service/internal/http"
	"github.com/rs/zerolog/log"
)

// App is the initialized service.
type App struct {
	Router    *gin.Engine
	Storage   *StorageComponents
	Services  *ServiceComponents
	Publisher events.OrderPublisher
	routing   *RouterComponents
}

// InitializeApp creates and wires all application dependencies.
func InitializeApp(ctx context.Context, cfg config.Config) (*App, error) {
	InitializeLogger(cfg.Log)

	storage, err := InitializeStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}

	publisher, err := InitializePublisher(cfg.Events)
	if err != nil {
		_ = storage.Close(ctx)
		return nil, err
	}

	services := InitializeServices(cfg, storage.Store, publisher)
	routing := InitializeRouter(services, storage, cfg)

	return &App{
		Router:    http.NewRouter(routing.Handler, routing.HealthHandler, routing.Config),
		Storage:   storage,
		Services:  services,
		Publisher: publisher,
		routing:   routing,
	}, nil
}

// Close releases everything InitializeApp opened. Pending order events are
// flushed before the storage connection goes away.
func (a *App) Close(ctx context.Context) error {
	var errs []error

	if a.routing != nil {
		a.routing.Stop()
	}
	if a.Publisher != nil {
		if err := a.Publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close publisher: %w", err))
		}
	}
	if err := a.Storage.Close(ctx); err != nil {
		errs = append(errs, fmt.Errorf("close storage: %w", err))
	}

	if err := errors.Join(errs...); err != nil {
		log.Error().Err(err).Msg("Shutdown completed with errors")
		return err
	}
	log.Info().Msg("Resources released")
	return nil
}
