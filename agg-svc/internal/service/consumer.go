package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"little-lemon/agg-svc/internal/domain"
)

const defaultRetryBackoff = time.Second

type Consumer struct {
	Reader MessageReader
	Store  StoreInterface
	// RetryBackoff is the pause after a failed read.
	RetryBackoff time.Duration
}

func NewConsumer(reader MessageReader, store StoreInterface) *Consumer {
	return &Consumer{
		Reader:       reader,
		Store:        store,
		RetryBackoff: defaultRetryBackoff,
	}
}

// Start reads order events until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	log.Println("Starting Aggregation Service consumer...")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("Aggregation Service consumer stopped")
				return
			}
			log.Printf("Error reading message: %v", err)
			select {
			case <-ctx.Done():
				log.Println("Aggregation Service consumer stopped")
				return
			case <-time.After(c.RetryBackoff):
			}
			continue
		}

		var event domain.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		if err := c.ProcessEvent(ctx, event); err != nil {
			log.Printf("Error processing %s for order %d: %v", event.Type, event.OrderID, err)
		}
	}
}

func (c *Consumer) ProcessEvent(ctx context.Context, event domain.OrderEvent) error {
	switch event.Type {
	case domain.EventOrderPlaced:
		recorded, err := c.Store.RecordOrder(ctx, event)
		if err != nil {
			return err
		}
		if !recorded {
			log.Printf("Skipping duplicate order_placed for order %d", event.OrderID)
			return nil
		}
		log.Printf("Recorded order %d: %d items, total %s", event.OrderID, len(event.Items), event.Total.StringFixed(2))
	case domain.EventOrderDeleted:
		// sales history is kept when an order is removed
		log.Printf("Order %d deleted, sales counters unchanged", event.OrderID)
	case domain.EventOrderStatusChanged:
	default:
		log.Printf("Ignoring unknown event type %q", event.Type)
	}
	return nil
}

var _ ConsumerInterface = (*Consumer)(nil)
