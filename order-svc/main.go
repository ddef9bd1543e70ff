package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"little-lemon/config"
	"little-lemon/order-svc/internal/access"
	httpapi "little-lemon/order-svc/internal/api/http"
	"little-lemon/order-svc/internal/service"
	"little-lemon/order-svc/internal/storage"
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

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	rdb := config.MustInitRedis()
	defer rdb.Close()
	cache := storage.NewRedisCache(rdb, config.GetDuration("MENU_CACHE_TTL", 5*time.Minute))

	writer := config.NewKafkaWriter(config.OrdersTopic)
	defer writer.Close()
	publisher := storage.NewKafkaPublisher(writer)

	qr := service.ReceiptQRGenerator{BaseURL: config.Getenv("PUBLIC_BASE_URL", "http://localhost:8080")}

	handler := httpapi.NewHandler(
		service.NewMenuService(repo, cache),
		service.NewStaffService(repo),
		service.NewCartService(repo, repo),
		service.NewOrderService(repo, repo, publisher, qr),
		service.NewRoleResolver(repo),
		access.NewGate(access.DefaultTable()),
		[]byte(secret),
	)

	addr := ":" + config.Getenv("PORT", "8081")
	if err := httpapi.StartServer(ctx, addr, httpapi.NewRouter(handler)); err != nil {
		log.Fatal(err)
	}
}
