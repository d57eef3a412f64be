// Command cart-service serves the storefront cart, checkout and order
// history API.
package main

import (
	"context"

	"github.com/guttosm/cart-service/config"
	"github.com/guttosm/cart-service/internal/app"
	"github.com/rs/zerolog/log"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	application, err := app.InitializeApp(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	server := app.NewServer(application.Router, cfg.Server)
	server.OnShutdown(application.Close)

	if err := server.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server error")
	}
}
