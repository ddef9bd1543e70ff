package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	GroupManager      = "Manager"
	GroupDeliveryCrew = "Delivery crew"
)

type User struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
	Email     string
	IsStaff   bool
}

type Category struct {
	ID    int64
	Slug  string
	Title string
}

type MenuItem struct {
	ID       int64
	Title    string
	Price    decimal.Decimal
	Featured bool
	Category Category
}

// MenuItemPatch carries a partial update; nil fields are left untouched.
type MenuItemPatch struct {
	Title      *string
	Price      *decimal.Decimal
	Featured   *bool
	CategoryID *int64
}

type MenuFilter struct {
	Search   string
	Ordering string
}

type CartLine struct {
	ID        int64
	UserID    int64
	MenuItem  MenuItem
	Quantity  int
	UnitPrice decimal.Decimal
	Price     decimal.Decimal
}

type Order struct {
	ID           int64
	User         User
	DeliveryCrew *int64
	Status       bool
	Total        decimal.Decimal
	Date         time.Time
	Items        []OrderItem
}

type OrderItem struct {
	ID        int64
	OrderID   int64
	MenuItem  MenuItem
	Quantity  int
	UnitPrice decimal.Decimal
	Price     decimal.Decimal
}

const (
	EventOrderPlaced        = "order_placed"
	EventOrderStatusChanged = "order_status_changed"
	EventOrderDeleted       = "order_deleted"
)

type OrderEvent struct {
	Type      string           `json:"type"`
	OrderID   int64            `json:"order_id"`
	UserID    int64            `json:"user_id"`
	Total     decimal.Decimal  `json:"total"`
	Status    bool             `json:"status"`
	Items     []OrderEventItem `json:"items,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

type OrderEventItem struct {
	MenuItemID int64           `json:"menuitem_id"`
	Quantity   int             `json:"quantity"`
	Price      decimal.Decimal `json:"price"`
}

// OrderScope narrows an order listing. Nil fields do not filter.
type OrderScope struct {
	UserID         *int64
	DeliveryCrewID *int64
}
