package messaging

import (
	"context"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromDriver_Unknown(t *testing.T) {
	_, err := NewFromDriver(context.Background(), "rabbitmq", FactoryOptions{})
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestNewFromDriver_Validation(t *testing.T) {
	_, err := NewFromDriver(context.Background(), DriverKafka, FactoryOptions{})
	assert.ErrorIs(t, err, ErrKafkaBrokersRequired)

	_, err = NewFromDriver(context.Background(), DriverNATS, FactoryOptions{})
	assert.ErrorIs(t, err, ErrNATSURLRequired)

	_, err = NewFromDriver(context.Background(), DriverGooglePubSub, FactoryOptions{})
	assert.ErrorIs(t, err, ErrPubSubProjectIDRequired)
}

func TestConsumeOptions(t *testing.T) {
	co := newConsumeOptions(
		WithConcurrency(4),
		WithGroup("notification"),
		WithChannel("default"),
		WithQueueGroup("workers"),
		WithSubscription("auth-events-sub"),
		WithAutoAck(true),
		WithMaxInFlight(32),
		nil,
	)

	assert.Equal(t, 4, co.concurrency)
	assert.Equal(t, "notification", co.group)
	assert.Equal(t, "default", co.channel)
	assert.Equal(t, "workers", co.queueGroup)
	assert.Equal(t, "auth-events-sub", co.subscription)
	assert.True(t, co.autoAck)
	assert.Equal(t, 32, co.maxInFlight)

	assert.Equal(t, 1, concurrencyOrDefault(0, 1))
	assert.Equal(t, 8, concurrencyOrDefault(8, 1))
}

func TestKafka_PublishGuards(t *testing.T) {
	k, err := NewKafka(KafkaConfig{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)

	_, err = k.Publish(context.Background(), "", OutgoingMessage{})
	assert.ErrorIs(t, err, ErrKafkaTopicRequired)

	_, err = k.Publish(context.Background(), "auth-events", OutgoingMessage{Delay: time.Second})
	assert.ErrorIs(t, err, ErrUnsupported)

	require.NoError(t, k.Close())
	require.NoError(t, k.Close(), "close is idempotent")

	_, err = k.Publish(context.Background(), "auth-events", OutgoingMessage{})
	assert.Error(t, err)
}

func TestKafka_ConsumeGuards(t *testing.T) {
	k, err := NewKafka(KafkaConfig{Brokers: []string{"localhost:9092"}})
	require.NoError(t, err)
	t.Cleanup(func() { _ = k.Close() })

	handler := func(_ context.Context, _ Message) error { return nil }

	assert.ErrorIs(t, k.Consume(context.Background(), "", handler), ErrKafkaTopicRequired)
	assert.ErrorIs(t, k.Consume(context.Background(), "t", nil), ErrKafkaHandlerRequired)
	assert.ErrorIs(t, k.Consume(context.Background(), "t", handler), ErrKafkaGroupRequired)
}

func TestKafkaMessage(t *testing.T) {
	m := &kafkaMessage{msg: kafka.Message{
		Topic:     "auth-events",
		Partition: 2,
		Offset:    7,
		Key:       []byte("user-1"),
		Value:     []byte(`{"type":"auth.otp.issued"}`),
		Headers: []kafka.Header{
			{Key: "cid", Value: []byte("abc")},
			{Key: "cid", Value: []byte("ignored-duplicate")},
		},
		Time: time.Unix(100, 0),
	}}

	assert.Equal(t, []byte(`{"type":"auth.otp.issued"}`), m.Body())
	assert.Equal(t, "auth-events/2/7", m.ID())
	assert.Equal(t, "auth-events", m.Topic())
	assert.Equal(t, time.Unix(100, 0), m.Timestamp())
	assert.Len(t, m.Headers(), 2)
	assert.Equal(t, map[string]string{"cid": "abc"}, m.Attributes())

	require.NoError(t, m.Nack(context.Background()))
	assert.True(t, m.responded.Load())
	assert.NoError(t, m.Ack(context.Background()), "ack after nack is a no-op")
}

func TestNSQ_Guards(t *testing.T) {
	n, err := NewNSQ(NSQConfig{})
	require.NoError(t, err)

	_, err = n.Publish(context.Background(), "auth-events", OutgoingMessage{})
	assert.ErrorIs(t, err, ErrNSQProducerAddrRequired)

	handler := func(_ context.Context, _ Message) error { return nil }
	assert.ErrorIs(t, n.Consume(context.Background(), "t", handler), ErrNSQConsumerAddrsRequired)

	n2, err := NewNSQ(NSQConfig{ConsumerNSQDAddrs: []string{"localhost:4150"}})
	require.NoError(t, err)
	assert.ErrorIs(t, n2.Consume(context.Background(), "t", handler), ErrNSQChannelRequired)
}
