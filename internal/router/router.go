// Package router wires HTTP routes to handlers for each service binary.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/openbistro/ordering-platform/internal/config"
	"github.com/openbistro/ordering-platform/internal/handler"
	"github.com/openbistro/ordering-platform/internal/middleware"
	"github.com/openbistro/ordering-platform/internal/model"
)

// RegisterRoutes registers the routes every service shares. Currently that is
// only the health check probed by the gateway.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterReservation mounts the reservation service's routes: reservation
// CRUD, availability search and table management. Table status changes are
// restricted to staff. Middleware is attached per route so public and
// protected paths can share prefixes without shadowing each other.
func RegisterReservation(e *echo.Echo, r *handler.ReservationHandler, t *handler.TableHandler, jwtSecret string) {
	auth := middleware.JWTAuth(jwtSecret)
	admin := middleware.RequireRole(model.RoleAdmin)

	e.POST("/reservations", r.Create)
	e.GET("/reservations", r.List)
	e.GET("/reservations/available-tables", r.AvailableTables)
	e.GET("/reservations/:id", r.Get)
	e.PUT("/reservations/:id", r.Update)
	e.DELETE("/reservations/:id", r.Delete)

	e.GET("/tables", t.List)
	e.PATCH("/tables/:id/status", t.UpdateStatus, auth, admin)
}

// RegisterOrder mounts the order service's routes: order lifecycle, order
// items and the menu. Listing all orders is admin-only and order mutations
// require a signed-in account. Menu reads go through the Redis response
// cache when one is configured; menu writes are staff-only.
func RegisterOrder(e *echo.Echo, o *handler.OrderHandler, m *handler.MenuItemHandler, jwtSecret string, cacheCfg config.CacheConfig, rdb *redis.Client) {
	auth := middleware.JWTAuth(jwtSecret)
	admin := middleware.RequireRole(model.RoleAdmin)
	signedIn := middleware.RequireRole(model.RoleAdmin, model.RoleUser)

	e.GET("/orders", o.List, auth, admin)
	e.GET("/orders/:id", o.Get)
	e.POST("/orders", o.Create, auth, signedIn)
	e.PUT("/orders/:id", o.UpdateStatus, auth, signedIn)
	e.DELETE("/orders/:id", o.Delete, auth, signedIn)
	e.POST("/orders/:id/items", o.AddItem, auth, signedIn)
	e.DELETE("/orders/:id/items/:itemID", o.RemoveItem, auth, signedIn)

	cache := middleware.NewRedisCache(cacheCfg, rdb)
	e.GET("/menu-items", m.List, cache)
	e.GET("/menu-items/:id", m.Get, cache)
	e.POST("/menu-items", m.Create, auth, admin)
	e.PUT("/menu-items/:id", m.Update, auth, admin)
	e.DELETE("/menu-items/:id", m.Delete, auth, admin)
}

// RegisterAuth mounts the auth service's routes. Register and login are open,
// /auth/me needs a valid token and the user admin endpoints require ADMIN.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	auth := middleware.JWTAuth(jwtSecret)
	admin := middleware.RequireRole(model.RoleAdmin)

	e.POST("/auth/register", a.Register)
	e.POST("/auth/login", a.Login)
	e.GET("/auth/me", a.Me, auth)

	e.GET("/auth/users", a.ListUsers, auth, admin)
	e.POST("/auth/users", a.CreateUser, auth, admin)
	e.GET("/auth/users/:id", a.GetUser, auth, admin)
	e.PUT("/auth/users/:id", a.UpdateUser, auth, admin)
	e.DELETE("/auth/users/:id", a.DeleteUser, auth, admin)
}
