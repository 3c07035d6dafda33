package model

import "time"

// User roles.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// User is a staff member or customer account held by the auth service. The
// password hash never leaves the repository layer.
type User struct {
	ID        uint64    `json:"id"`        // users.id
	Name      string    `json:"name"`      // users.name
	Email     string    `json:"email"`     // users.email (unique)
	Role      string    `json:"role"`      // users.role
	CreatedAt time.Time `json:"createdAt"` // users.created_at
	UpdatedAt time.Time `json:"updatedAt"` // users.updated_at
}
