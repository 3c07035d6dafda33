package model

import "time"

// MenuItem describes a dish or drink offered by the restaurant. Prices are
// stored in minor currency units.
type MenuItem struct {
	ID          uint64    `json:"id"`          // menu_items.id
	Name        string    `json:"name"`        // menu_items.name
	Description *string   `json:"description"` // menu_items.description (nullable)
	Category    string    `json:"category"`    // menu_items.category
	Price       int64     `json:"price"`       // menu_items.price
	Available   bool      `json:"available"`   // menu_items.available
	CreatedAt   time.Time `json:"createdAt"`   // menu_items.created_at
	UpdatedAt   time.Time `json:"updatedAt"`   // menu_items.updated_at
}
