// Package gateway implements the public edge of the platform: a reverse
// proxy that forwards to the auth, reservation and order services and applies
// the shared rate limits before traffic reaches them.
package gateway

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"
	emw "github.com/labstack/echo/v4/middleware"

	"github.com/openbistro/ordering-platform/internal/config"
)

// Register mounts the proxy routes on e. Each upstream owns a set of path
// prefixes; anything else is a 404 at the edge. loginLimiter, when non-nil,
// is applied on /auth/login only, ahead of the proxy hop. Paths are forwarded
// unchanged since every service mounts its routes under the same prefixes the
// gateway exposes.
func Register(e *echo.Echo, cfg config.GatewayConfig, loginLimiter echo.MiddlewareFunc) error {
	proxyTo := func(upstream string) (echo.MiddlewareFunc, error) {
		target, err := url.Parse(upstream)
		if err != nil {
			return nil, fmt.Errorf("gateway: parse upstream %q: %w", upstream, err)
		}
		return emw.Proxy(emw.NewRoundRobinBalancer([]*emw.ProxyTarget{{URL: target}})), nil
	}

	authProxy, err := proxyTo(cfg.AuthURL)
	if err != nil {
		return err
	}
	orderProxy, err := proxyTo(cfg.OrderURL)
	if err != nil {
		return err
	}
	reservationProxy, err := proxyTo(cfg.ReservationURL)
	if err != nil {
		return err
	}

	// The login route carries its own brute-force bucket, so it gets a more
	// specific group than the rest of /auth.
	login := e.Group("/auth/login")
	if loginLimiter != nil {
		login.Use(loginLimiter)
	}
	login.Use(authProxy)

	e.Group("/auth").Use(authProxy)
	e.Group("/orders").Use(orderProxy)
	e.Group("/menu-items").Use(orderProxy)
	e.Group("/reservations").Use(reservationProxy)
	e.Group("/tables").Use(reservationProxy)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	return nil
}
