package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

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
	cfg := config.Load("3001")

	// Tracing is best-effort: a failed init is logged and the service runs
	// without it.
	if shutdown, err := telemetry.Setup(context.Background(), "order-service"); err != nil {
		log.Printf("telemetry: %v", err)
	} else {
		defer func() { _ = shutdown(context.Background()) }()
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	orders := repository.NewOrderRepo(db)
	menu := repository.NewMenuItemRepo(db)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The consumer runs for the life of the process, turning reservation
	// facts into draft orders. It reconnects on broker failure and only
	// stops when the shutdown context is cancelled.
	materializer := service.NewOrderMaterializer(orders)
	consumer := queue.NewConsumer(cfg.RabbitURL, cfg.OrderQueue, materializer.HandleReservationCreated)
	go func() {
		if err := consumer.Run(ctx); err != nil && ctx.Err() == nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient()

	e := echo.New()
	e.HideBanner = true
	e.Use(otelecho.Middleware("order-service"))
	router.RegisterRoutes(e)
	router.RegisterOrder(e,
		handler.NewOrderHandler(orders),
		handler.NewMenuItemHandler(menu),
		cfg.JWTSecret,
		config.LoadCacheConfig(),
		rdb)

	addr := ":" + cfg.Port
	log.Printf("order-service listening on %s (env=%s)", addr, cfg.Env)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
