package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/openbistro/ordering-platform/internal/config"
	"github.com/openbistro/ordering-platform/internal/database"
	"github.com/openbistro/ordering-platform/internal/handler"
	"github.com/openbistro/ordering-platform/internal/queue"
	"github.com/openbistro/ordering-platform/internal/repository"
	"github.com/openbistro/ordering-platform/internal/router"
	"github.com/openbistro/ordering-platform/internal/service"
	"github.com/openbistro/ordering-platform/internal/telemetry"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load("3002")

	// Tracing is best-effort: a failed init is logged and the service runs
	// without it.
	if shutdown, err := telemetry.Setup(context.Background(), "reservation-service"); err != nil {
		log.Printf("telemetry: %v", err)
	} else {
		defer func() { _ = shutdown(context.Background()) }()
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	publisher := queue.NewPublisher(cfg.RabbitURL, cfg.OrderQueue)
	defer publisher.Close()

	tables := repository.NewTableRepo(db)
	reservations := repository.NewReservationRepo(db)
	svc := service.NewReservationService(reservations, tables, publisher)

	e := echo.New()
	e.HideBanner = true
	e.Use(otelecho.Middleware("reservation-service"))
	router.RegisterRoutes(e)
	router.RegisterReservation(e,
		handler.NewReservationHandler(svc),
		handler.NewTableHandler(tables),
		cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("reservation-service listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
