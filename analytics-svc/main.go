package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	httpapi "little-lemon/analytics-svc/internal/api/http"
	"little-lemon/analytics-svc/internal/service"
	"little-lemon/analytics-svc/internal/storage"
	"little-lemon/config"
)

func main() {
	config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	secret := config.Getenv("JWT_SECRET", "")
	if secret == "" {
		log.Fatal("JWT_SECRET must be set")
	}

	db := config.MustInitPostgres()
	defer db.Close()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	svc := service.NewAnalyticsService(storage.NewSalesCache(rdb), storage.NewPostgresRepository(db))
	handler := httpapi.NewHandler(svc, []byte(secret))

	addr := ":" + config.Getenv("PORT", "8083")
	if err := httpapi.StartServer(ctx, addr, httpapi.NewRouter(handler)); err != nil {
		log.Fatal(err)
	}
}
