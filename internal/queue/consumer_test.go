package queue

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

// fakeAcknowledger records ack/nack calls made against a delivery.
type fakeAcknowledger struct {
	acks  int
	nacks []bool // requeue flag per nack
}

func (f *fakeAcknowledger) Ack(tag uint64, multiple bool) error { f.acks++; return nil }
func (f *fakeAcknowledger) Nack(tag uint64, multiple, requeue bool) error {
	f.nacks = append(f.nacks, requeue)
	return nil
}
func (f *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	f.nacks = append(f.nacks, requeue)
	return nil
}

func newDelivery(body string, redelivered bool) (amqp.Delivery, *fakeAcknowledger) {
	ack := &fakeAcknowledger{}
	return amqp.Delivery{
		Acknowledger: ack,
		Body:         []byte(body),
		Redelivered:  redelivered,
	}, ack
}

func TestHandleDeliveryAcksAfterHandlerSucceeds(t *testing.T) {
	var got ReservationCreatedEvent
	c := NewConsumer("amqp://unused", "q", func(ctx context.Context, ev ReservationCreatedEvent) error {
		got = ev
		return nil
	})

	d, ack := newDelivery(`{"reservationId":42,"tableId":7,"partySize":4,"customerName":"Ada","customerPhone":"555-0100","startTime":"2026-09-01T19:00:00Z"}`, false)
	c.handleDelivery(context.Background(), d)

	assert.Equal(t, 1, ack.acks)
	assert.Empty(t, ack.nacks)
	assert.Equal(t, uint64(42), got.ReservationID)
	assert.Equal(t, uint64(7), got.TableID)
	assert.Equal(t, "Ada", got.CustomerName)
}

func TestHandleDeliveryDeadLettersPoisonMessages(t *testing.T) {
	called := false
	c := NewConsumer("amqp://unused", "q", func(ctx context.Context, ev ReservationCreatedEvent) error {
		called = true
		return nil
	})

	d, ack := newDelivery(`not json at all`, false)
	c.handleDelivery(context.Background(), d)

	assert.False(t, called, "handler must not run for undecodable messages")
	assert.Zero(t, ack.acks)
	// nack without requeue routes to the dead-letter queue
	assert.Equal(t, []bool{false}, ack.nacks)
}

func TestHandleDeliveryRequeuesFirstFailure(t *testing.T) {
	c := NewConsumer("amqp://unused", "q", func(ctx context.Context, ev ReservationCreatedEvent) error {
		return errors.New("db down")
	})

	d, ack := newDelivery(`{"reservationId":1}`, false)
	c.handleDelivery(context.Background(), d)

	assert.Zero(t, ack.acks)
	assert.Equal(t, []bool{true}, ack.nacks)
}

func TestHandleDeliveryDeadLettersRedeliveredFailure(t *testing.T) {
	c := NewConsumer("amqp://unused", "q", func(ctx context.Context, ev ReservationCreatedEvent) error {
		return errors.New("db still down")
	})

	d, ack := newDelivery(`{"reservationId":1}`, true)
	c.handleDelivery(context.Background(), d)

	assert.Zero(t, ack.acks)
	assert.Equal(t, []bool{false}, ack.nacks)
}

func TestRunKeepsRedialingUntilCancelled(t *testing.T) {
	c := NewConsumer("amqp://unused", "q", func(ctx context.Context, ev ReservationCreatedEvent) error {
		return nil
	})
	c.retryDelay = 5 * time.Millisecond

	var attempts atomic.Int32
	c.dial = func(url string) (*amqp.Connection, error) {
		attempts.Add(1)
		return nil, errors.New("broker offline")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()

	err := c.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, attempts.Load(), int32(2), "consumer should keep retrying the broker")
}
