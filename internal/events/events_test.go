package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/domain"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *recordingWriter) Close() error { return nil }

type recordingChannel struct {
	key  string
	msgs []amqp.Publishing
}

func (c *recordingChannel) PublishWithContext(_ context.Context, _, key string, _, _ bool, msg amqp.Publishing) error {
	c.key = key
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *recordingChannel) Close() error { return nil }

func sampleEvent() Event {
	return FromReservation(ReservationCancelled, &domain.Reservation{
		ID:            "r1",
		OfferingID:    "o1",
		CustomerID:    "c1",
		Status:        domain.ReservationCancelled,
		PaymentStatus: domain.PaymentRefunded,
	}, "owner-1")
}

func TestKafkaPublisher_KeysByReservation(t *testing.T) {
	w := &recordingWriter{}
	p := &KafkaPublisher{writer: w, topic: "reservations.events"}

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "reservations.events", msg.Topic)
	assert.Equal(t, "r1", string(msg.Key))

	var got Event
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, ReservationCancelled, got.Type)
	assert.Equal(t, domain.PaymentRefunded, got.PaymentStatus)
	assert.Equal(t, "owner-1", got.ActorID)
}

func TestKafkaPublisher_WrapsWriteError(t *testing.T) {
	broken := errors.New("leader not available")
	p := &KafkaPublisher{writer: &recordingWriter{err: broken}, topic: "t"}

	err := p.Publish(context.Background(), sampleEvent())
	assert.ErrorIs(t, err, broken)
}

func TestRabbitPublisher_PersistentJSON(t *testing.T) {
	ch := &recordingChannel{}
	p := &RabbitPublisher{ch: ch, queue: "reservations.events"}

	require.NoError(t, p.Publish(context.Background(), sampleEvent()))
	require.Len(t, ch.msgs, 1)

	msg := ch.msgs[0]
	assert.Equal(t, "reservations.events", ch.key)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, "r1:reservation.cancelled", msg.MessageId)
	assert.NoError(t, p.Close())
}
