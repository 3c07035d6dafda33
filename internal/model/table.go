package model

import "time"

// Table statuses. A table counts toward availability only while it is
// TableAvailable; the reservation flow moves it to TableReserved and floor
// staff move it between the remaining states.
const (
	TableAvailable = "available"
	TableReserved  = "reserved"
	TableOccupied  = "occupied"
	TableDisabled  = "disabled"
)

// ValidTableStatus reports whether s is one of the accepted table statuses.
func ValidTableStatus(s string) bool {
	switch s {
	case TableAvailable, TableReserved, TableOccupied, TableDisabled:
		return true
	}
	return false
}

// Table represents a physical table on the restaurant floor. Tables are
// identified to guests by their table number, which is unique.
//
// Fields:
//  ID          – primary key identifier.
//  TableNumber – number printed on the table (unique, positive).
//  Capacity    – how many guests the table seats.
//  Zone        – floor area label (e.g. "terrace", "main").
//  Status      – current state (available, reserved, occupied, disabled).
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Table struct {
	ID          uint64    `json:"id"`          // tables.id
	TableNumber int       `json:"tableNumber"` // tables.table_number
	Capacity    int       `json:"capacity"`    // tables.capacity
	Zone        string    `json:"zone"`        // tables.zone
	Status      string    `json:"status"`      // tables.status
	CreatedAt   time.Time `json:"createdAt"`   // tables.created_at
	UpdatedAt   time.Time `json:"updatedAt"`   // tables.updated_at
}
