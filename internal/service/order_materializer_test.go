package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openbistro/ordering-platform/internal/model"
	"github.com/openbistro/ordering-platform/internal/queue"
	"github.com/openbistro/ordering-platform/internal/repository"
)

type mockOrderStore struct {
	createErr error
	created   []model.Order
}

func (m *mockOrderStore) Create(ctx context.Context, o *model.Order) error {
	if m.createErr != nil {
		return m.createErr
	}
	o.ID = uint64(len(m.created) + 1)
	m.created = append(m.created, *o)
	return nil
}

func sampleEvent() queue.ReservationCreatedEvent {
	return queue.ReservationCreatedEvent{
		ReservationID: 42,
		TableID:       9,
		PartySize:     4,
		CustomerName:  "Ada",
		CustomerPhone: "555-0100",
		StartTime:     time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC),
	}
}

func TestHandleReservationCreatedMaterializesOrder(t *testing.T) {
	store := &mockOrderStore{}
	m := NewOrderMaterializer(store)

	err := m.HandleReservationCreated(context.Background(), sampleEvent())
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	o := store.created[0]
	assert.Equal(t, "RSV-42", o.OrderNumber)
	assert.Equal(t, model.OrderDineIn, o.OrderType)
	assert.Equal(t, model.OrderPending, o.Status)
	assert.Zero(t, o.Total)
	require.NotNil(t, o.ReservationID)
	assert.Equal(t, uint64(42), *o.ReservationID)
	require.NotNil(t, o.TableID)
	assert.Equal(t, uint64(9), *o.TableID)
	require.NotNil(t, o.CustomerName)
	assert.Equal(t, "Ada", *o.CustomerName)
}

func TestHandleReservationCreatedIsIdempotent(t *testing.T) {
	store := &mockOrderStore{createErr: repository.ErrOrderExists}
	m := NewOrderMaterializer(store)

	// a duplicate order means a redelivered fact: ack it, don't loop
	err := m.HandleReservationCreated(context.Background(), sampleEvent())
	assert.NoError(t, err)
}

func TestHandleReservationCreatedPropagatesStoreErrors(t *testing.T) {
	store := &mockOrderStore{createErr: errors.New("connection reset")}
	m := NewOrderMaterializer(store)

	err := m.HandleReservationCreated(context.Background(), sampleEvent())
	assert.Error(t, err)
}
