package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventOrderPlaced        = "order_placed"
	EventOrderStatusChanged = "order_status_changed"
	EventOrderDeleted       = "order_deleted"
)

// OrderEvent is the message order-svc publishes on the orders topic.
type OrderEvent struct {
	Type      string          `json:"type"`
	OrderID   int64           `json:"order_id"`
	UserID    int64           `json:"user_id"`
	Total     decimal.Decimal `json:"total"`
	Status    bool            `json:"status"`
	Items     []SaleItem      `json:"items"`
	Timestamp time.Time       `json:"timestamp"`
}

type SaleItem struct {
	MenuItemID int64           `json:"menuitem_id"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}
