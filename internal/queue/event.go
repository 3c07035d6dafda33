// Package queue carries reservation facts between the reservation service
// and the order service over RabbitMQ. The queue is durable and messages
// are persistent, so a committed reservation's fact survives a broker
// restart; delivery is at-least-once and the consumer side deduplicates.
package queue

import "time"

// ReservationCreatedEvent is published once per committed reservation. It
// contains everything the order service needs to open the corresponding
// dine-in order without calling back into the reservation service.
type ReservationCreatedEvent struct {
	ReservationID uint64    `json:"reservationId"`
	TableID       uint64    `json:"tableId"`
	PartySize     int       `json:"partySize"`
	CustomerName  string    `json:"customerName"`
	CustomerPhone string    `json:"customerPhone"`
	StartTime     time.Time `json:"startTime"`
}
