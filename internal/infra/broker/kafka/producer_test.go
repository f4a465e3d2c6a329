package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProducerPublish(t *testing.T) {
	sync := mocks.NewSyncProducer(t, nil)
	sync.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		if string(val) != `{"id":"e1"}` {
			return errors.New("unexpected payload " + string(val))
		}
		return nil
	})
	p := NewProducerFromSync(sync)

	err := p.Publish(context.Background(), "pricing.events.v1", "unit-1", []byte(`{"id":"e1"}`), map[string]string{"content-type": "application/cloudevents+json"})
	require.NoError(t, err)
	require.NoError(t, p.Close())
}

func TestProducerPublish_BrokerError(t *testing.T) {
	sync := mocks.NewSyncProducer(t, nil)
	sync.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)
	p := NewProducerFromSync(sync)

	err := p.Publish(context.Background(), "t", "k", []byte(`{}`), nil)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, p.Close())
}

func TestProducerPublish_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewProducerFromSync(mocks.NewSyncProducer(t, nil))
	assert.ErrorIs(t, p.Publish(ctx, "t", "k", nil, nil), context.Canceled)
	require.NoError(t, p.Close())
}

func TestMessage(t *testing.T) {
	msg := Message("topic", "key", []byte("v"), map[string]string{"a": "1"})
	assert.Equal(t, "topic", msg.Topic)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "a", string(msg.Headers[0].Key))

	key, err := msg.Key.Encode()
	require.NoError(t, err)
	assert.Equal(t, "key", string(key))
}

func TestNewProducer_NoBrokers(t *testing.T) {
	_, err := NewProducer(nil, nil)
	assert.ErrorIs(t, err, ErrNoBrokers)
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("svc")
	assert.True(t, cfg.Producer.Idempotent)
	assert.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
	assert.NoError(t, cfg.Validate())
}
