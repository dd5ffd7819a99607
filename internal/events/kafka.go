package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Shopify/sarama"
	"github.com/smallbiznis/gridbill/internal/config"
	"go.uber.org/zap"
)

var ErrProducerBusy = errors.New("event producer input full")

type KafkaPublisher struct {
	producer sarama.AsyncProducer
	topic    string
	log      *zap.Logger
	done     chan struct{}
}

func newSaramaConfig(cfg config.KafkaConfig) (*sarama.Config, error) {
	saramaConfig := sarama.NewConfig()
	acks, err := parseRequiredAcks(cfg.RequiredAcks)
	if err != nil {
		return nil, err
	}
	saramaConfig.Producer.RequiredAcks = acks
	saramaConfig.Producer.Compression = parseCompression(cfg.Compression)
	saramaConfig.Producer.Retry.Max = 5
	saramaConfig.Producer.Return.Successes = false
	saramaConfig.Producer.Return.Errors = true
	return saramaConfig, nil
}

// NewKafkaPublisher wraps producer; it owns the producer from then on.
func NewKafkaPublisher(producer sarama.AsyncProducer, topic string, log *zap.Logger) *KafkaPublisher {
	p := &KafkaPublisher{
		producer: producer,
		topic:    topic,
		log:      log.Named("events.kafka"),
		done:     make(chan struct{}),
	}
	go p.drainErrors()
	return p
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	value, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", evt.Type, err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(evt.Key),
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(evt.Type)},
		},
	}

	select {
	case p.producer.Input() <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.log.Warn("event dropped, producer input full",
			zap.String("event_type", evt.Type),
			zap.String("topic", p.topic),
		)
		return ErrProducerBusy
	}
}

func (p *KafkaPublisher) drainErrors() {
	defer close(p.done)
	for perr := range p.producer.Errors() {
		p.log.Error("failed to publish event",
			zap.String("topic", perr.Msg.Topic),
			zap.Error(perr.Err),
		)
	}
}

func (p *KafkaPublisher) Close() error {
	err := p.producer.Close()
	<-p.done
	return err
}

func parseRequiredAcks(v string) (sarama.RequiredAcks, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "none", "no_response", "0":
		return sarama.NoResponse, nil
	case "leader", "local", "wait_for_local", "1":
		return sarama.WaitForLocal, nil
	case "", "all", "wait_for_all", "-1":
		return sarama.WaitForAll, nil
	default:
		return sarama.WaitForAll, fmt.Errorf("invalid kafka requiredAcks: %s", v)
	}
}

func parseCompression(v string) sarama.CompressionCodec {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "none":
		return sarama.CompressionNone
	case "gzip":
		return sarama.CompressionGZIP
	case "lz4":
		return sarama.CompressionLZ4
	case "zstd":
		return sarama.CompressionZSTD
	default:
		return sarama.CompressionSnappy
	}
}
