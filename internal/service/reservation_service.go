// Package service contains the business logic between handlers and
// repositories: the reservation booking flow and the order materialization
// driven by the broker.
package service

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/openbistro/ordering-platform/internal/model"
	"github.com/openbistro/ordering-platform/internal/queue"
	"github.com/openbistro/ordering-platform/internal/repository"
)

// ErrInvalidTime is returned when reservationDate and reservationTime do not
// combine into a valid start time.
var ErrInvalidTime = errors.New("invalid reservation date or time")

// DefaultDurationMinutes is the booking length used when the caller does not
// supply one, and the window length of availability lookups.
const DefaultDurationMinutes = 120

// reservationStore is the slice of ReservationRepo the service depends on.
type reservationStore interface {
	ReserveIfFree(ctx context.Context, tableNumber int, res *model.Reservation) (model.Table, error)
	GetByID(ctx context.Context, id uint64) (model.Reservation, error)
	List(ctx context.Context, f repository.ListFilter) ([]model.Reservation, error)
	Update(ctx context.Context, id uint64, status, notes *string) (model.Reservation, error)
	Delete(ctx context.Context, id uint64) error
}

// tableStore is the slice of TableRepo the service depends on.
type tableStore interface {
	UpdateStatus(ctx context.Context, id uint64, status string) (model.Table, error)
	ListAvailable(ctx context.Context, partySize int, start, end time.Time) ([]model.Table, error)
}

// factPublisher sends reservation facts to the broker.
type factPublisher interface {
	PublishReservationCreated(ctx context.Context, ev queue.ReservationCreatedEvent) error
}

// ReservationService implements the booking flow: the conflict-checked
// reservation transaction, the best-effort table status update and fact
// publication that follow it, and the availability lookup.
type ReservationService interface {
	Create(ctx context.Context, in CreateReservationInput) (model.Reservation, error)
	AvailableTables(ctx context.Context, date, clock string, partySize int) ([]model.Table, error)
	Get(ctx context.Context, id uint64) (model.Reservation, error)
	List(ctx context.Context, f repository.ListFilter) ([]model.Reservation, error)
	Update(ctx context.Context, id uint64, status, notes *string) (model.Reservation, error)
	Delete(ctx context.Context, id uint64) error
}

// CreateReservationInput carries a validated create request. Date is an ISO
// date (2006-01-02) and Clock an HH:mm wall time; the service combines them
// into the UTC start of the window.
type CreateReservationInput struct {
	CustomerName    string
	CustomerPhone   string
	TableNumber     int
	PartySize       int
	Date            string
	Clock           string
	DurationMinutes int
	Notes           *string
	Status          string
}

type reservationService struct {
	reservations reservationStore
	tables       tableStore
	publisher    factPublisher
}

// NewReservationService wires the booking flow together. publisher may be
// nil in tests; publication is then skipped.
func NewReservationService(reservations reservationStore, tables tableStore, publisher factPublisher) ReservationService {
	return &reservationService{reservations: reservations, tables: tables, publisher: publisher}
}

// Create books a table. The check-and-insert runs atomically inside the
// repository; the table status update and the fact publication afterwards
// are best-effort and never fail the request, since the reservation is
// already committed by then.
func (s *reservationService) Create(ctx context.Context, in CreateReservationInput) (model.Reservation, error) {
	start, err := CombineDateTime(in.Date, in.Clock)
	if err != nil {
		return model.Reservation{}, ErrInvalidTime
	}
	duration := in.DurationMinutes
	if duration <= 0 {
		duration = DefaultDurationMinutes
	}
	status := in.Status
	if status == "" {
		status = model.ReservationPending
	}

	res := model.Reservation{
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		PartySize:     in.PartySize,
		StartTime:     start,
		EndTime:       start.Add(time.Duration(duration) * time.Minute),
		Status:        status,
		Notes:         in.Notes,
	}

	table, err := s.reservations.ReserveIfFree(ctx, in.TableNumber, &res)
	if err != nil {
		return model.Reservation{}, err
	}

	// Best-effort: mark the table reserved. A failure here leaves the
	// table status stale but the reservation stands.
	if _, err := s.tables.UpdateStatus(ctx, table.ID, model.TableReserved); err != nil {
		log.Printf("reservation: could not mark table %d reserved: %v", table.TableNumber, err)
	}

	// Best-effort: hand the fact to the order service. A failure is logged
	// and the reservation still succeeds; the gap is accepted.
	if s.publisher != nil {
		ev := queue.ReservationCreatedEvent{
			ReservationID: res.ID,
			TableID:       table.ID,
			PartySize:     res.PartySize,
			CustomerName:  res.CustomerName,
			CustomerPhone: res.CustomerPhone,
			StartTime:     res.StartTime,
		}
		if err := s.publisher.PublishReservationCreated(ctx, ev); err != nil {
			log.Printf("reservation: could not publish fact for reservation %d: %v", res.ID, err)
		}
	}

	return res, nil
}

// AvailableTables returns the tables free for a 2-hour window starting at
// the given date and wall time that can host the party.
func (s *reservationService) AvailableTables(ctx context.Context, date, clock string, partySize int) ([]model.Table, error) {
	start, err := CombineDateTime(date, clock)
	if err != nil {
		return nil, ErrInvalidTime
	}
	end := start.Add(DefaultDurationMinutes * time.Minute)
	return s.tables.ListAvailable(ctx, partySize, start, end)
}

func (s *reservationService) Get(ctx context.Context, id uint64) (model.Reservation, error) {
	return s.reservations.GetByID(ctx, id)
}

func (s *reservationService) List(ctx context.Context, f repository.ListFilter) ([]model.Reservation, error) {
	return s.reservations.List(ctx, f)
}

func (s *reservationService) Update(ctx context.Context, id uint64, status, notes *string) (model.Reservation, error) {
	return s.reservations.Update(ctx, id, status, notes)
}

func (s *reservationService) Delete(ctx context.Context, id uint64) error {
	return s.reservations.Delete(ctx, id)
}

// CombineDateTime builds the UTC start time from an ISO date and an HH:mm
// wall time.
func CombineDateTime(date, clock string) (time.Time, error) {
	return time.Parse("2006-01-02 15:04", date+" "+clock)
}
