package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/openbistro/ordering-platform/internal/model"
	"github.com/openbistro/ordering-platform/internal/queue"
	"github.com/openbistro/ordering-platform/internal/repository"
)

// orderStore is the slice of OrderRepo the materializer depends on.
type orderStore interface {
	Create(ctx context.Context, o *model.Order) error
}

// OrderMaterializer turns consumed reservation facts into pending dine-in
// orders. Materialization is idempotent per reservation: the orders table
// holds a unique key on reservation_id, and a duplicate insert is treated as
// success so redelivered facts never create a second order.
type OrderMaterializer struct {
	orders orderStore
}

// NewOrderMaterializer returns a materializer writing through the given
// order store.
func NewOrderMaterializer(orders orderStore) *OrderMaterializer {
	return &OrderMaterializer{orders: orders}
}

// HandleReservationCreated is the queue.HandlerFunc for reservation facts.
// It acknowledges (returns nil) only after the order row is persisted or
// found to already exist.
func (m *OrderMaterializer) HandleReservationCreated(ctx context.Context, ev queue.ReservationCreatedEvent) error {
	reservationID := ev.ReservationID
	tableID := ev.TableID
	order := model.Order{
		OrderNumber:   fmt.Sprintf("RSV-%d", ev.ReservationID),
		OrderType:     model.OrderDineIn,
		TableID:       &tableID,
		ReservationID: &reservationID,
		CustomerName:  &ev.CustomerName,
		CustomerPhone: &ev.CustomerPhone,
		Status:        model.OrderPending,
		Total:         0,
	}

	if err := m.orders.Create(ctx, &order); err != nil {
		if errors.Is(err, repository.ErrOrderExists) {
			log.Printf("materializer: order for reservation %d already exists, skipping", ev.ReservationID)
			return nil
		}
		return fmt.Errorf("create order for reservation %d: %w", ev.ReservationID, err)
	}

	log.Printf("materializer: created order %d from reservation %d", order.ID, ev.ReservationID)
	return nil
}
