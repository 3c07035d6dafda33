package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// HandlerFunc processes one decoded reservation fact. A nil return
// acknowledges the delivery; an error triggers the redelivery policy
// described on Consumer.
type HandlerFunc func(ctx context.Context, ev ReservationCreatedEvent) error

// Consumer drains the reservation queue with manual acknowledgment and keeps
// itself connected: any connection or channel loss schedules a reconnect
// after a fixed delay, forever, without ever taking the process down.
//
// Delivery policy:
//   - a message that does not decode is rejected without requeue and lands
//     on the dead-letter queue; poison input is never retried
//   - a handler error on a first delivery requeues the message once
//   - a handler error on a redelivered message rejects it to the
//     dead-letter queue, bounding redelivery
//   - acknowledgment happens only after the handler returns nil, i.e. after
//     the order row is durably persisted
type Consumer struct {
	url        string
	queue      string
	handler    HandlerFunc
	retryDelay time.Duration

	// dial is swapped out by tests to simulate broker failures.
	dial func(url string) (*amqp.Connection, error)
}

// NewConsumer builds a Consumer for the given broker URL, queue name and
// fact handler.
func NewConsumer(url, queue string, handler HandlerFunc) *Consumer {
	return &Consumer{
		url:        url,
		queue:      queue,
		handler:    handler,
		retryDelay: 5 * time.Second,
		dial:       amqp.Dial,
	}
}

// Run connects and consumes until ctx is cancelled. It only returns the
// context error; every broker failure is logged and retried after the fixed
// delay. Intended to be started as a background goroutine next to the HTTP
// server.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		conn, err := c.dial(c.url)
		if err != nil {
			log.Printf("consumer: dial broker failed: %v; retrying in %s", err, c.retryDelay)
			if err := c.wait(ctx); err != nil {
				return err
			}
			continue
		}

		if err := c.consumeLoop(ctx, conn); err != nil {
			_ = conn.Close()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("consumer: consume loop ended: %v; reconnecting in %s", err, c.retryDelay)
			if err := c.wait(ctx); err != nil {
				return err
			}
			continue
		}

		_ = conn.Close()
		return ctx.Err()
	}
}

// consumeLoop opens a channel, declares the queues and processes deliveries
// until the channel closes or ctx is cancelled.
func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set qos: %w", err)
	}
	if err := declareQueues(ch, c.queue); err != nil {
		return err
	}

	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consume: %w", err)
	}
	log.Printf("consumer: consuming from queue %q", c.queue)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.handleDelivery(ctx, d)
		}
	}
}

// handleDelivery applies the delivery policy to one message.
func (c *Consumer) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var ev ReservationCreatedEvent
	if err := json.Unmarshal(d.Body, &ev); err != nil {
		log.Printf("consumer: dropping undecodable message %q: %v", d.MessageId, err)
		_ = d.Nack(false, false) // straight to the dead-letter queue
		return
	}

	if err := c.handler(ctx, ev); err != nil {
		if d.Redelivered {
			log.Printf("consumer: reservation %d failed again, dead-lettering: %v", ev.ReservationID, err)
			_ = d.Nack(false, false)
			return
		}
		log.Printf("consumer: reservation %d failed, requeueing once: %v", ev.ReservationID, err)
		_ = d.Nack(false, true)
		return
	}

	_ = d.Ack(false)
}

// wait sleeps for the retry delay or until ctx is cancelled.
func (c *Consumer) wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(c.retryDelay):
		return nil
	}
}
