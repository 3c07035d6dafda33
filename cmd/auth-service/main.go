package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/openbistro/ordering-platform/internal/config"
	"github.com/openbistro/ordering-platform/internal/database"
	"github.com/openbistro/ordering-platform/internal/handler"
	"github.com/openbistro/ordering-platform/internal/repository"
	"github.com/openbistro/ordering-platform/internal/router"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load("3003")

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)

	e := echo.New()
	e.HideBanner = true
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(cfg, users), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("auth-service listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
