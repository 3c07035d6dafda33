package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/openbistro/ordering-platform/internal/config"
	"github.com/openbistro/ordering-platform/internal/gateway"
	"github.com/openbistro/ordering-platform/internal/middleware"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadGateway()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("gateway: redis unavailable, rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true

	// Global token bucket on every route; a tighter bucket guards login.
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	loginLimiter := middleware.NewTokenBucket(config.LoadLoginRateLimitConfig(), rdb)

	if err := gateway.Register(e, cfg, loginLimiter); err != nil {
		log.Fatal(err)
	}

	addr := ":" + cfg.Port
	log.Printf("gateway listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
