// Package repository holds the hand-written SQL data access layer. Sentinel
// errors defined here let services and handlers distinguish failure modes
// without inspecting driver errors.
package repository

import "errors"

// ErrTableNotFound is returned when a table is looked up by number or id and
// no row exists. Handlers translate it into a 404.
var ErrTableNotFound = errors.New("table not found")

// ErrTableUnavailable is returned by the reserve-if-free transaction when an
// active reservation already overlaps the requested window. Handlers
// translate it into a 400 conflict response.
var ErrTableUnavailable = errors.New("table already reserved in this time slot")

// ErrReservationNotFound is returned when a reservation id does not exist.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrOrderNotFound is returned when an order id does not exist.
var ErrOrderNotFound = errors.New("order not found")

// ErrOrderExists is returned when an order for the same reservation was
// already materialized. The consumer treats it as success.
var ErrOrderExists = errors.New("order already exists for reservation")

// ErrMenuItemNotFound is returned when a menu item id does not exist.
var ErrMenuItemNotFound = errors.New("menu item not found")

// ErrUserNotFound is returned when a user id does not exist.
var ErrUserNotFound = errors.New("user not found")
