package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"little-lemon/api-gateway/internal/gateway"
	"little-lemon/config"

	"github.com/rs/cors"
)

func main() {
	config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := gateway.Config{
		OrderSvcURL:     config.Getenv("ORDER_SVC_URL", "http://localhost:8081"),
		AnalyticsSvcURL: config.Getenv("ANALYTICS_SVC_URL", "http://localhost:8083"),
	}

	gw := gateway.NewGateway(cfg, &http.Client{Timeout: config.GetDuration("UPSTREAM_TIMEOUT", 30*time.Second)})

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
	})

	addr := ":" + config.Getenv("PORT", "8080")
	if err := gateway.StartServer(ctx, addr, c.Handler(gw.SetupRoutes())); err != nil {
		log.Fatal(err)
	}
}
