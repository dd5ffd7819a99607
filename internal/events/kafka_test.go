package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/smallbiznis/gridbill/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseRequiredAcks(t *testing.T) {
	cases := map[string]sarama.RequiredAcks{
		"none":   sarama.NoResponse,
		"leader": sarama.WaitForLocal,
		"1":      sarama.WaitForLocal,
		"all":    sarama.WaitForAll,
		"":       sarama.WaitForAll,
	}
	for in, want := range cases {
		got, err := parseRequiredAcks(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := parseRequiredAcks("most")
	assert.Error(t, err)
}

func TestParseCompressionDefaultsToSnappy(t *testing.T) {
	assert.Equal(t, sarama.CompressionGZIP, parseCompression("GZIP"))
	assert.Equal(t, sarama.CompressionNone, parseCompression("none"))
	assert.Equal(t, sarama.CompressionSnappy, parseCompression("brotli"))
}

func TestNewSaramaConfigRejectsBadAcks(t *testing.T) {
	_, err := newSaramaConfig(config.KafkaConfig{RequiredAcks: "sometimes"})
	assert.Error(t, err)

	cfg, err := newSaramaConfig(config.KafkaConfig{RequiredAcks: "leader", Compression: "lz4"})
	require.NoError(t, err)
	assert.Equal(t, sarama.WaitForLocal, cfg.Producer.RequiredAcks)
	assert.Equal(t, sarama.CompressionLZ4, cfg.Producer.Compression)
	assert.True(t, cfg.Producer.Return.Errors)
}

func TestKafkaPublisherWritesKeyedEnvelope(t *testing.T) {
	producer := mocks.NewAsyncProducer(t, nil)
	producer.ExpectInputWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		if msg.Topic != "gridbill.bills" {
			return errors.New("unexpected topic " + msg.Topic)
		}
		key, err := msg.Key.Encode()
		if err != nil {
			return err
		}
		if string(key) != "42" {
			return errors.New("unexpected key " + string(key))
		}
		raw, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		var decoded map[string]any
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return err
		}
		if decoded["type"] != TypeBillPaid {
			return errors.New("unexpected type")
		}
		return nil
	})

	publisher := NewKafkaPublisher(producer, "gridbill.bills", zap.NewNop())
	err := publisher.Publish(context.Background(), Event{
		Type:       TypeBillPaid,
		Key:        "42",
		OccurredAt: time.Date(2024, time.March, 20, 0, 0, 0, 0, time.UTC),
		Payload:    map[string]string{"bill_number": "EB-202403-000001"},
	})
	require.NoError(t, err)
	require.NoError(t, publisher.Close())
}

func TestNoopPublisher(t *testing.T) {
	assert.NoError(t, NewNoopPublisher().Publish(context.Background(), Event{Type: TypeBillCreated}))
}
