package model

import "time"

// Order statuses.
const (
	OrderPending   = "pending"
	OrderPreparing = "preparing"
	OrderServed    = "served"
	OrderPaid      = "paid"
	OrderCancelled = "cancelled"
)

// ValidOrderStatus reports whether s is an accepted order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderPending, OrderPreparing, OrderServed, OrderPaid, OrderCancelled:
		return true
	}
	return false
}

// Order types.
const (
	OrderDineIn   = "dine-in"
	OrderTakeaway = "takeaway"
)

// Order is a bill under construction. Dine-in orders materialized from a
// reservation carry the reservation reference; ReservationID is unique so a
// redelivered fact can never produce a second order.
type Order struct {
	ID            uint64      `json:"id"`                      // orders.id
	OrderNumber   string      `json:"orderNumber"`             // orders.order_number
	OrderType     string      `json:"orderType"`               // orders.order_type
	TableID       *uint64     `json:"tableId,omitempty"`       // orders.table_id (nullable)
	ReservationID *uint64     `json:"reservationId,omitempty"` // orders.reservation_id (nullable, unique)
	CustomerName  *string     `json:"customerName,omitempty"`  // orders.customer_name (nullable)
	CustomerPhone *string     `json:"customerPhone,omitempty"` // orders.customer_phone (nullable)
	Status        string      `json:"status"`                  // orders.status
	Total         int64       `json:"total"`                   // orders.total, minor currency units
	CreatedAt     time.Time   `json:"createdAt"`               // orders.created_at
	UpdatedAt     time.Time   `json:"updatedAt"`               // orders.updated_at
	Items         []OrderItem `json:"items,omitempty"`         // joined items, reads only
}

// OrderItem is a single menu item line on an order. UnitPrice is copied from
// the menu item at the moment the line is added so later price edits do not
// change past bills.
type OrderItem struct {
	ID         uint64    `json:"id"`         // order_items.id
	OrderID    uint64    `json:"orderId"`    // order_items.order_id
	MenuItemID uint64    `json:"menuItemId"` // order_items.menu_item_id
	Quantity   int       `json:"quantity"`   // order_items.quantity
	UnitPrice  int64     `json:"unitPrice"`  // order_items.unit_price
	CreatedAt  time.Time `json:"createdAt"`  // order_items.created_at
}
