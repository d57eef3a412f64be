package app

import (
	"fmt"

	"github.com/guttosm/cart-service/config"
	"github.com/guttosm/cart-service/internal/events"
	"github.com/rs/zerolog/log"
)

// InitializePublisher connects the configured order event broker. Broker
// publishers are wrapped so that checkout never waits on the broker.
func InitializePublisher(cfg config.EventsConfig) (events.OrderPublisher, error) {
	var (
		next events.OrderPublisher
		err  error
	)

	switch cfg.Backend {
	case "", config.EventsNone:
		return events.NoopPublisher{}, nil
	case config.EventsRabbitMQ:
		next, err = events.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
	case config.EventsKafka:
		next, err = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect %s publisher: %w", cfg.Backend, err)
	}

	log.Info().Str("backend", cfg.Backend).Msg("Order events enabled")
	return events.NewAsyncPublisher(next, events.AsyncConfig{
		BufferSize:     cfg.BufferSize,
		Workers:        cfg.Workers,
		PublishTimeout: cfg.PublishTimeout,
	}), nil
}
