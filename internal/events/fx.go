package events

import (
	"context"

	"github.com/Shopify/sarama"
	"github.com/smallbiznis/gridbill/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("events",
	fx.Provide(NewPublisher),
)

// NewPublisher connects to Kafka when brokers are configured and falls back to
// discarding events otherwise.
func NewPublisher(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (Publisher, error) {
	if !cfg.Kafka.Enabled() {
		log.Info("kafka brokers not configured, bill events disabled")
		return NewNoopPublisher(), nil
	}

	saramaConfig, err := newSaramaConfig(cfg.Kafka)
	if err != nil {
		return nil, err
	}
	producer, err := sarama.NewAsyncProducer(cfg.Kafka.Brokers, saramaConfig)
	if err != nil {
		return nil, err
	}

	publisher := NewKafkaPublisher(producer, cfg.Kafka.Topic, log)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return publisher.Close()
		},
	})
	log.Info("bill events publishing to kafka",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
	)
	return publisher, nil
}
