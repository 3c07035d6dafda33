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

type mockReservationStore struct {
	reserveErr   error
	reservedWith int // table number passed to ReserveIfFree
	table        model.Table
}

func (m *mockReservationStore) ReserveIfFree(ctx context.Context, tableNumber int, res *model.Reservation) (model.Table, error) {
	m.reservedWith = tableNumber
	if m.reserveErr != nil {
		return model.Table{}, m.reserveErr
	}
	res.ID = 42
	res.TableID = m.table.ID
	return m.table, nil
}

func (m *mockReservationStore) GetByID(ctx context.Context, id uint64) (model.Reservation, error) {
	return model.Reservation{}, repository.ErrReservationNotFound
}

func (m *mockReservationStore) List(ctx context.Context, f repository.ListFilter) ([]model.Reservation, error) {
	return nil, nil
}

func (m *mockReservationStore) Update(ctx context.Context, id uint64, status, notes *string) (model.Reservation, error) {
	return model.Reservation{}, nil
}

func (m *mockReservationStore) Delete(ctx context.Context, id uint64) error { return nil }

type mockTableStore struct {
	statusErr     error
	statusUpdates []string
	listStart     time.Time
	listEnd       time.Time
}

func (m *mockTableStore) UpdateStatus(ctx context.Context, id uint64, status string) (model.Table, error) {
	m.statusUpdates = append(m.statusUpdates, status)
	if m.statusErr != nil {
		return model.Table{}, m.statusErr
	}
	return model.Table{ID: id, Status: status}, nil
}

func (m *mockTableStore) ListAvailable(ctx context.Context, partySize int, start, end time.Time) ([]model.Table, error) {
	m.listStart, m.listEnd = start, end
	return []model.Table{{ID: 1, TableNumber: 5, Capacity: partySize}}, nil
}

type mockPublisher struct {
	publishErr error
	published  []queue.ReservationCreatedEvent
}

func (m *mockPublisher) PublishReservationCreated(ctx context.Context, ev queue.ReservationCreatedEvent) error {
	m.published = append(m.published, ev)
	return m.publishErr
}

func validInput() CreateReservationInput {
	return CreateReservationInput{
		CustomerName:  "Ada",
		CustomerPhone: "555-0100",
		TableNumber:   5,
		PartySize:     4,
		Date:          "2026-09-01",
		Clock:         "19:00",
	}
}

func TestCreateBooksTableAndPublishesFact(t *testing.T) {
	store := &mockReservationStore{table: model.Table{ID: 9, TableNumber: 5}}
	tables := &mockTableStore{}
	pub := &mockPublisher{}
	svc := NewReservationService(store, tables, pub)

	res, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, uint64(42), res.ID)
	assert.Equal(t, 5, store.reservedWith)
	assert.Equal(t, model.ReservationPending, res.Status)
	assert.Equal(t, time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC), res.StartTime)
	// default window is two hours
	assert.Equal(t, 2*time.Hour, res.EndTime.Sub(res.StartTime))

	assert.Equal(t, []string{model.TableReserved}, tables.statusUpdates)

	require.Len(t, pub.published, 1)
	ev := pub.published[0]
	assert.Equal(t, uint64(42), ev.ReservationID)
	assert.Equal(t, uint64(9), ev.TableID)
	assert.Equal(t, "Ada", ev.CustomerName)
	assert.Equal(t, res.StartTime, ev.StartTime)
}

func TestCreateHonorsExplicitDuration(t *testing.T) {
	store := &mockReservationStore{table: model.Table{ID: 9, TableNumber: 5}}
	svc := NewReservationService(store, &mockTableStore{}, nil)

	in := validInput()
	in.DurationMinutes = 45
	res, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, 45*time.Minute, res.EndTime.Sub(res.StartTime))
}

func TestCreateRejectsConflictingWindow(t *testing.T) {
	store := &mockReservationStore{reserveErr: repository.ErrTableUnavailable}
	tables := &mockTableStore{}
	pub := &mockPublisher{}
	svc := NewReservationService(store, tables, pub)

	_, err := svc.Create(context.Background(), validInput())
	assert.ErrorIs(t, err, repository.ErrTableUnavailable)
	assert.Empty(t, tables.statusUpdates, "no table update when booking fails")
	assert.Empty(t, pub.published, "no fact when booking fails")
}

func TestCreateRejectsMalformedTime(t *testing.T) {
	svc := NewReservationService(&mockReservationStore{}, &mockTableStore{}, nil)

	in := validInput()
	in.Clock = "7pm"
	_, err := svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, ErrInvalidTime)
}

func TestCreateSucceedsWhenTableStatusUpdateFails(t *testing.T) {
	store := &mockReservationStore{table: model.Table{ID: 9, TableNumber: 5}}
	tables := &mockTableStore{statusErr: errors.New("tables table locked")}
	pub := &mockPublisher{}
	svc := NewReservationService(store, tables, pub)

	res, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, uint64(42), res.ID)
	assert.Len(t, pub.published, 1, "fact still published after status failure")
}

func TestCreateSucceedsWhenPublishFails(t *testing.T) {
	store := &mockReservationStore{table: model.Table{ID: 9, TableNumber: 5}}
	pub := &mockPublisher{publishErr: errors.New("broker offline")}
	svc := NewReservationService(store, &mockTableStore{}, pub)

	res, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, uint64(42), res.ID)
}

func TestAvailableTablesUsesTwoHourWindow(t *testing.T) {
	tables := &mockTableStore{}
	svc := NewReservationService(&mockReservationStore{}, tables, nil)

	got, err := svc.AvailableTables(context.Background(), "2026-09-01", "19:00", 4)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC), tables.listStart)
	assert.Equal(t, 2*time.Hour, tables.listEnd.Sub(tables.listStart))

	_, err = svc.AvailableTables(context.Background(), "2026-09-01", "late", 4)
	assert.ErrorIs(t, err, ErrInvalidTime)
}
