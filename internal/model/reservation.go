package model

import "time"

// Reservation statuses. Pending and confirmed reservations are "active":
// they block the table for their time window. The remaining states free the
// slot again.
const (
	ReservationPending   = "pending"
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
	ReservationCompleted = "completed"
)

// ValidReservationStatus reports whether s is an accepted reservation status.
func ValidReservationStatus(s string) bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCancelled, ReservationCompleted:
		return true
	}
	return false
}

// ActiveReservationStatuses lists the statuses that count against table
// availability. The overlap checks in the repository filter on exactly
// these values.
var ActiveReservationStatuses = []string{ReservationPending, ReservationConfirmed}

// Reservation records a booking of a table for a party over a time window.
// Two active reservations on the same table must never have overlapping
// [StartTime, EndTime) intervals.
//
// Fields:
//  ID            – primary key identifier.
//  CustomerName  – name the booking was made under.
//  CustomerPhone – contact phone number.
//  TableID       – table being reserved.
//  PartySize     – number of guests.
//  StartTime     – when the booking begins (UTC).
//  EndTime       – when the booking ends; StartTime + duration.
//  Status        – state of the reservation.
//  Notes         – optional free-form notes.
//  Table         – joined table summary, populated on reads.
type Reservation struct {
	ID            uint64    `json:"id"`              // reservations.id
	CustomerName  string    `json:"customerName"`    // reservations.customer_name
	CustomerPhone string    `json:"customerPhone"`   // reservations.customer_phone
	TableID       uint64    `json:"tableId"`         // reservations.table_id
	PartySize     int       `json:"partySize"`       // reservations.party_size
	StartTime     time.Time `json:"startTime"`       // reservations.start_time
	EndTime       time.Time `json:"endTime"`         // reservations.end_time
	Status        string    `json:"status"`          // reservations.status
	Notes         *string   `json:"notes,omitempty"` // reservations.notes (nullable)
	CreatedAt     time.Time `json:"createdAt"`       // reservations.created_at
	UpdatedAt     time.Time `json:"updatedAt"`       // reservations.updated_at
	Table         *Table    `json:"table,omitempty"` // joined summary, reads only
}
