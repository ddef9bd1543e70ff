package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"little-lemon/agg-svc/internal/service"
	"little-lemon/agg-svc/internal/storage"
	"little-lemon/config"
)

func main() {
	config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	reader := config.NewKafkaReader(config.OrdersTopic, config.Getenv("KAFKA_GROUP_ID", "agg-svc-consumer"))
	defer func() {
		if err := reader.Close(); err != nil {
			log.Printf("Warning: failed to close kafka reader: %v", err)
		}
	}()

	consumer := service.NewConsumer(reader, storage.NewStore(rdb))
	consumer.Start(ctx)
}
